// Package cas provides content hashing for conversion outputs.
// BLAKE3 digests are used to compare runs: two conversions of the same
// input must produce the same digest.
package cas

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Hash returns the hex-encoded BLAKE3 digest of data.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashReader returns the hex-encoded BLAKE3 digest of everything read from r.
func HashReader(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFile returns the hex-encoded BLAKE3 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return HashReader(f)
}
