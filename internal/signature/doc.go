// Package signature computes, embeds, and verifies ownership signatures
// for preset sidecar files.
//
// A signature is a pure function of the owning user id, the sidecar's
// content bytes, and a shared secret. It is stored inside the sidecar's
// XMP metadata as a text entry of the form UID=<id>;SIGN=<sig>, so a
// redistributed copy carries its owner with it. A preset already signed
// by one user can never be re-signed by another.
package signature
