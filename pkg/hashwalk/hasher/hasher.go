package hasher

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// chunkSize is the read buffer used when streaming file content.
const chunkSize = 64 * 1024

// Digest is the tagged outcome of a tolerant-mode hash: either Hex is set
// or Err is.
type Digest struct {
	// Hex is the lowercase hex digest on success.
	Hex string

	// Err is the I/O failure that prevented hashing.
	Err error

	// Bytes is the number of content bytes consumed.
	Bytes int64
}

// OK reports whether the digest was computed.
func (d Digest) OK() bool {
	return d.Err == nil
}

// HashReader streams r into a fresh digest and returns the hex encoding
// together with the number of bytes read.
func HashReader(r io.Reader, algo Algorithm) (string, int64, error) {
	h := algo.New()
	buf := make([]byte, chunkSize)
	n, err := io.CopyBuffer(h, r, buf)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// HashFile hashes the file at path in strict mode: any open or read failure
// is returned.
func HashFile(path string, algo Algorithm) (string, error) {
	d := hashFile(path, algo)
	if d.Err != nil {
		return "", fmt.Errorf("hash %s: %w", path, d.Err)
	}
	return d.Hex, nil
}

// HashFileTolerant hashes the file at path in tolerant mode. Failures are
// reported in the returned Digest rather than as an error.
func HashFileTolerant(path string, algo Algorithm) Digest {
	return hashFile(path, algo)
}

// hashFile opens, streams and closes one file.
func hashFile(path string, algo Algorithm) Digest {
	f, err := os.Open(path)
	if err != nil {
		return Digest{Err: err}
	}
	defer f.Close()

	sum, n, err := HashReader(f, algo)
	if err != nil {
		return Digest{Err: err, Bytes: n}
	}
	return Digest{Hex: sum, Bytes: n}
}
