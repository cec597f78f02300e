package entity

import (
	"time"
)

// Product references its Category by id only. CreatedBy/UpdatedBy are
// point-in-time username stamps, not live references to the users table.
type Product struct {
	ID         int64
	Name       string
	Qty        int
	CategoryID int64
	URL        string
	CreatedBy  string
	UpdatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
