package services

import (
	"context"
	"crypto/rand"
	"fmt"
)

const (
	roomCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength = 6

	// maxRoomCodeAttempts bounds the retry loop; 36^6 codes make collisions
	// rare enough that hitting this means the store is misbehaving.
	maxRoomCodeAttempts = 20
)

// generateRoomCode returns a fresh room code unique among currently tracked
// games, retrying on collision.
func generateRoomCode(ctx context.Context, store GameStore) (string, error) {
	for attempt := 0; attempt < maxRoomCodeAttempts; attempt++ {
		code, err := randomRoomCode()
		if err != nil {
			return "", err
		}

		exists, err := store.ExistsRoomCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique room code after %d attempts", maxRoomCodeAttempts)
}

func randomRoomCode() (string, error) {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	code := make([]byte, roomCodeLength)
	for i, b := range buf {
		code[i] = roomCodeChars[int(b)%len(roomCodeChars)]
	}
	return string(code), nil
}
