package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// hashLength is the number of hex characters kept from each SHA-256
// digest. Both the content hash and the final signature use it.
const hashLength = 32

const hashChunkSize = 64 * 1024

// ContentHash returns the truncated SHA-256 of the file at path,
// streamed in fixed-size chunks. The hash depends only on the file's
// bytes, never on its name.
func ContentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("error opening %s for hashing: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("error hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil))[:hashLength], nil
}

// Sign derives the ownership signature for a user over a content hash.
// Identical inputs always produce the identical signature.
func Sign(userID, contentHash, secret string) string {
	sum := sha256.Sum256([]byte(userID + ":" + contentHash + ":" + secret))
	return hex.EncodeToString(sum[:])[:hashLength]
}

// SignFile hashes the file at path and derives its signature for userID.
func SignFile(userID, path, secret string) (string, error) {
	contentHash, err := ContentHash(path)
	if err != nil {
		return "", err
	}
	return Sign(userID, contentHash, secret), nil
}

// Verify recomputes the signature for (userID, file, secret) and compares
// it against expected. A mismatch is a normal false result, not an error.
func Verify(userID, path, secret, expected string) (bool, error) {
	sig, err := SignFile(userID, path, secret)
	if err != nil {
		return false, err
	}
	return sig == expected, nil
}
