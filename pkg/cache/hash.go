package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
)

// Hash returns the hex SHA-256 of data. Scene documents are addressed by
// the hash of their canonical JSON.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digest hashes an ordered list of fields. Each field is length-prefixed so
// ("ab", "c") and ("a", "bc") never collide.
func digest(fields ...string) string {
	h := sha256.New()
	var n [binary.MaxVarintLen64]byte
	for _, f := range fields {
		h.Write(n[:binary.PutUvarint(n[:], uint64(len(f)))])
		io.WriteString(h, f)
	}
	return hex.EncodeToString(h.Sum(nil))
}
