package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	RoomIDLength   = 4
	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GenerateRoomID - generates a short room code, each letter drawn uniformly from A-Z.
func GenerateRoomID() (string, error) {
	var builder strings.Builder
	builder.Grow(RoomIDLength)

	limit := big.NewInt(int64(len(roomIDAlphabet)))
	for i := 0; i < RoomIDLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random index: %w", err)
		}

		builder.WriteByte(roomIDAlphabet[n.Int64()])
	}

	return builder.String(), nil
}

// NormalizeRoomID - trims and upper-cases a code typed by a player.
func NormalizeRoomID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// GenerateNewSessionID - generates a unique id for a connected player.
func GenerateNewSessionID() string {
	return uuid.NewString()
}
