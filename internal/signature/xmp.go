package signature

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// signatureTag is the element carrying the ownership entry inside the
// sidecar's metadata container.
const signatureTag = "OwnerSignature"

// ReadStatus classifies the outcome of looking for an embedded
// signature, replacing exception-driven control flow with explicit
// variants.
type ReadStatus int

const (
	// StatusOK means a well-formed signature entry was found.
	StatusOK ReadStatus = iota
	// StatusNoSignature means the document parsed but carries no
	// usable entry. This is the normal first-upload case.
	StatusNoSignature
	// StatusInvalidFormat means the document itself is not
	// structurally valid XML.
	StatusInvalidFormat
)

// Embedded is a signature entry read back from a sidecar.
type Embedded struct {
	UserID    string
	Signature string
}

// loadSidecar parses the sidecar at path into an XML document.
func loadSidecar(path string) (*etree.Document, ReadStatus) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, StatusInvalidFormat
	}
	if doc.Root() == nil {
		return nil, StatusInvalidFormat
	}
	return doc, StatusOK
}

// readEmbedded locates the signature entry in a parsed sidecar. A
// present but malformed entry counts as no signature, matching the
// treatment of any other missing scaffold at read time.
func readEmbedded(doc *etree.Document) (Embedded, ReadStatus) {
	el := doc.FindElement("//" + signatureTag)
	if el == nil {
		return Embedded{}, StatusNoSignature
	}
	emb, ok := parseEntry(strings.TrimSpace(el.Text()))
	if !ok {
		return Embedded{}, StatusNoSignature
	}
	return emb, StatusOK
}

// parseEntry splits a UID=<id>;SIGN=<sig> entry into its parts.
func parseEntry(text string) (Embedded, bool) {
	uidPart, signPart, found := strings.Cut(text, ";")
	if !found {
		return Embedded{}, false
	}
	uid, ok := strings.CutPrefix(uidPart, "UID=")
	if !ok || uid == "" {
		return Embedded{}, false
	}
	sig, ok := strings.CutPrefix(signPart, "SIGN=")
	if !ok || sig == "" {
		return Embedded{}, false
	}
	return Embedded{UserID: uid, Signature: sig}, true
}

// metadataContainer returns the element new signature entries attach to:
// the first rdf Description in the document, or the RDF block itself
// when no Description exists. nil means the sidecar lacks the expected
// metadata scaffold entirely.
func metadataContainer(doc *etree.Document) *etree.Element {
	if el := doc.FindElement("//Description"); el != nil {
		return el
	}
	return doc.FindElement("//RDF")
}

// embed replaces any existing signature entry in doc with one for
// (userID, sig). It fails when the document has no metadata container.
func embed(doc *etree.Document, userID, sig string) error {
	container := metadataContainer(doc)
	if container == nil {
		return fmt.Errorf("sidecar has no metadata container")
	}

	for _, old := range doc.FindElements("//" + signatureTag) {
		if parent := old.Parent(); parent != nil {
			parent.RemoveChild(old)
		}
	}

	entry := container.CreateElement(signatureTag)
	entry.SetText(fmt.Sprintf("UID=%s;SIGN=%s", userID, sig))
	return nil
}

// writeSidecar serializes doc back to path through a temp file in the
// same directory plus an atomic rename, so a reader never observes a
// partially written document. The XML declaration parsed from the
// original is carried through untouched.
func writeSidecar(doc *etree.Document, path string) error {
	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("error serializing sidecar: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sidecar-*")
	if err != nil {
		return fmt.Errorf("error creating temp sidecar: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing temp sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing temp sidecar: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing sidecar: %w", err)
	}
	return nil
}
