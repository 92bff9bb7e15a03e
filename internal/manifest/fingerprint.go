package manifest

import (
	"encoding/hex"

	"github.com/danmuck/scalp/internal/codec"
	"github.com/zeebo/blake3"
)

// Fingerprint is the BLAKE3 digest of the manifest's deterministic CBOR
// encoding. Two nodes built from the same groups report the same value.
func Fingerprint(m Manifest) (string, error) {
	data, err := codec.Marshal(m)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
