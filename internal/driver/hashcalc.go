package driver

import (
	"crypto/sha256"
	"strconv"

	"lowerer/internal/lower"
	"lowerer/internal/version"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

// cacheKey: H(tool version || 0 || rules revision || 0 || content || 0 || mode1 || 0 || mode2 ...).
// Modes keep the caller's order, so concise+accurate and accurate+concise are distinct
// entries.
func cacheKey(content []byte, modes []lower.Mode) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(version.Version))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strconv.Itoa(lower.Revision)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content)
	for _, m := range modes {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(m.String()))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
