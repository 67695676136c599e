// Package entropy supplies seeds for sessions that were not given one.
// Seeds come from crypto/rand, falling back to the clock.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"
)

// Seed returns a non-zero random seed.
func Seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		slog.Warn("crypto/rand unavailable, seeding from clock", "error", err)
		return nonZero(time.Now().UnixNano())
	}
	// Clear the sign bit so seeds print as positive numbers in logs.
	return nonZero(int64(binary.LittleEndian.Uint64(buf[:]) >> 1))
}

// Resolve returns seed unchanged when set, or a fresh Seed when zero.
func Resolve(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return Seed()
}

func nonZero(s int64) int64 {
	if s == 0 {
		return 1
	}
	return s
}
