package entity

import (
	"time"
)

// Category carries no fixed schema beyond its identifier; whatever fields the
// caller supplies are stored as-is in Attributes (a jsonb column).
type Category struct {
	ID         int64
	Attributes map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
