// Package hasher computes streaming digests of file content under a named
// algorithm. It offers a strict mode that returns I/O failures and a
// tolerant mode that reports them as a tagged Digest value so one unreadable
// file cannot abort a scan.
package hasher

import (
	"crypto/md5"  //nolint:gosec // required algorithm, not used for security
	"crypto/sha1" //nolint:gosec // required algorithm, not used for security
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strings"

	blake2b "github.com/minio/blake2b-simd"
	sha256simd "github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // kept for manifest compatibility
	"golang.org/x/crypto/sha3"
)

// ErrUnsupportedAlgorithm is returned by Lookup for unknown identifiers.
var ErrUnsupportedAlgorithm = errors.New("invalid algorithm")

// Algorithm is a named digest constructor.
type Algorithm struct {
	// Name is the canonical lowercase identifier written to manifests.
	Name string

	// Bits is the digest length.
	Bits int

	newHash func() hash.Hash
}

// New returns a fresh running digest.
func (a Algorithm) New() hash.Hash {
	return a.newHash()
}

// String returns the canonical name.
func (a Algorithm) String() string {
	return a.Name
}

// DefaultAlgorithm is used when the caller does not choose one.
const DefaultAlgorithm = "sha256"

var registry = map[string]Algorithm{}

// aliases maps alternative spellings to canonical names.
var aliases = map[string]string{
	"sha-1":       "sha1",
	"sha-224":     "sha224",
	"sha-256":     "sha256",
	"sha-384":     "sha384",
	"sha-512":     "sha512",
	"sha512/224":  "sha512-224",
	"sha512/256":  "sha512-256",
	"blake2b-512": "blake2b512",
	"blake2s-256": "blake2s256",
	"rmd160":      "ripemd160",
	"ripemd":      "ripemd160",
}

func register(name string, bits int, fn func() hash.Hash) {
	registry[name] = Algorithm{Name: name, Bits: bits, newHash: fn}
}

func init() {
	register("md5", 128, md5.New)
	register("sha1", 160, sha1.New)
	register("sha224", 224, sha256.New224)
	register("sha256", 256, sha256simd.New)
	register("sha384", 384, sha512.New384)
	register("sha512", 512, sha512.New)
	register("sha512-224", 224, sha512.New512_224)
	register("sha512-256", 256, sha512.New512_256)
	register("sha3-224", 224, func() hash.Hash { return sha3.New224() })
	register("sha3-256", 256, func() hash.Hash { return sha3.New256() })
	register("sha3-384", 384, func() hash.Hash { return sha3.New384() })
	register("sha3-512", 512, func() hash.Hash { return sha3.New512() })
	register("blake2b512", 512, blake2b.New512)
	register("blake2s256", 256, newBlake2s256)
	register("blake3", 256, func() hash.Hash { return blake3.New() })
	register("ripemd160", 160, ripemd160.New)
}

// newBlake2s256 builds an unkeyed BLAKE2s-256; the constructor only fails
// for oversized keys.
func newBlake2s256() hash.Hash {
	h, err := blake2s.New256(nil)
	if err != nil {
		panic(fmt.Sprintf("blake2s: %v", err))
	}
	return h
}

// Lookup resolves an identifier case-insensitively.
func Lookup(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	algo, ok := registry[key]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %s. Must be one of: %s",
			ErrUnsupportedAlgorithm, name, strings.Join(Supported(), ", "))
	}
	return algo, nil
}

// Supported returns the canonical names of all registered algorithms, sorted.
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
