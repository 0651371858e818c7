package hasher

import (
	"bytes"
	"encoding/hex"
)

// Candidates are the identifiers checked by Probe when no explicit list is
// given. It includes names that are not registered, so the
// probe output shows what the host build actually offers.
var Candidates = []string{
	"md4",
	"md5",
	"md5-sha1",
	"ripemd160",
	"sha1",
	"sha224",
	"sha256",
	"sha384",
	"sha512",
	"sha512-224",
	"sha512-256",
	"sha3-224",
	"sha3-256",
	"sha3-384",
	"sha3-512",
	"shake128",
	"shake256",
	"blake2b512",
	"blake2s256",
	"blake3",
	"sm3",
}

// probeVector is hashed by every probed algorithm.
var probeVector = []byte("hashwalk")

// Probe returns the subset of names that resolve and produce a digest of
// the advertised width. A nil or empty list probes Candidates. Order is
// preserved.
func Probe(names []string) []string {
	if len(names) == 0 {
		names = Candidates
	}

	available := make([]string, 0, len(names))
	for _, name := range names {
		if usable(name) {
			available = append(available, name)
		}
	}
	return available
}

// usable instantiates an algorithm and checks its output width.
func usable(name string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	algo, err := Lookup(name)
	if err != nil {
		return false
	}

	sum, _, err := HashReader(bytes.NewReader(probeVector), algo)
	if err != nil {
		return false
	}
	raw, err := hex.DecodeString(sum)
	if err != nil {
		return false
	}
	return len(raw)*8 == algo.Bits
}
