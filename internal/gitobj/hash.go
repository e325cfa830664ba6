package gitobj

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Envelope returns the canonical Git object envelope "<kind> <len>\0<data>"
// that both loose-object storage and hashing are computed over.
func Envelope(kind Kind, data []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", kind, len(data))
	out := make([]byte, 0, len(header)+len(data))
	out = append(out, header...)
	out = append(out, data...)
	return out
}

// HashObject computes the SHA-1 Git object id for (kind, data), matching
// `git hash-object -t <kind>`.
func HashObject(kind Kind, data []byte) Hash {
	sum := sha1.Sum(Envelope(kind, data))
	return Hash(hex.EncodeToString(sum[:]))
}
