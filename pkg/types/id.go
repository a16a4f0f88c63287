package types

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewID returns an opaque identifier for entries, rooms, and devices. The
// millisecond timestamp prefix keeps IDs roughly sortable by creation time and
// the random suffix breaks ties within the same millisecond. Uniqueness is
// only needed within the practical operating window of the app, not
// cryptographically.
func NewID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + hex.EncodeToString(b)
}
