package internal

import (
	"crypto/md5"
	"encoding/hex"
)

// Version is the application version
const Version = "0.3.0"

// HashKey derives a stable cache key from its parts
func HashKey(parts ...string) string {
	h := md5.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
