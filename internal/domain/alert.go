package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertEvent records one notification attempt for a detected drop.
// At most one delivered event exists per (ProductID, NewPrice) pair.
type AlertEvent struct {
	ID            uint
	ProductID     string
	PreviousPrice decimal.Decimal
	NewPrice      decimal.Decimal
	Delivered     bool
	DeliveryError string
	CreatedAt     time.Time
}
