package corpus

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns the hex BLAKE2b-256 digest of the corpus. Walk
// boundaries are part of the digest, so regrouping the same node sequence
// changes it.
func Fingerprint(walks [][]uint64) string {
	h, _ := blake2b.New256(nil)

	buf := make([]byte, 0, binary.MaxVarintLen64)
	for _, w := range walks {
		buf = binary.AppendUvarint(buf[:0], uint64(len(w)))
		h.Write(buf)
		for _, v := range w {
			buf = binary.AppendUvarint(buf[:0], v)
			h.Write(buf)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
