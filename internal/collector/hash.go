package collector

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

const hashAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const hashLength = 8

// ContentHash derives an 8-character lowercase-alphanumeric content hash
// from diff bytes, the same way the original system's generate_hash seeds
// a PRNG from a SHA-256 digest of the content rather than using the raw
// hex digest directly.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	rng := rand.New(rand.NewSource(seed))

	out := make([]byte, hashLength)
	for i := range out {
		out[i] = hashAlphabet[rng.Intn(len(hashAlphabet))]
	}
	return string(out)
}
