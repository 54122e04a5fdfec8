package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session ties an external identity to the role store that serves it.
type Session struct {
	ID        uuid.UUID // Unique identifier (UUIDv7)
	Identity  string    // Identity passed to the role source
	CreatedAt time.Time
}
