package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewID returns a time-prefixed random identifier for new records, e.g.
// "ord_18f3a2c4b9d1". The prefix keeps file diffs and admin tables readable.
func NewID(prefix string) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%x%s", prefix, time.Now().Unix(), hex.EncodeToString(buf))
}
