package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no product.
var ErrNotFound = errors.New("product not found")

type Product struct {
	ID        int64     `validate:"gte=0"`
	Name      string    `validate:"required,max=255"`
	Quantity  int       `validate:"gte=0"`
	Price     int64     `validate:"gte=0"` // minor units (cents)
	UpdatedAt time.Time `validate:"required"`
}

// UpsertResult tells the caller which branch an insert-or-update took.
type UpsertResult struct {
	ID      int64
	Created bool
}
