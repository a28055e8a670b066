package storage

import "github.com/google/uuid"

// NewID returns a UUIDv7 string: a millisecond timestamp followed by random
// bits, so ids sort in creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
