package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one watched listing. The ID is stable across runs: the ASIN
// for Amazon pages, otherwise a hash of the canonical URL.
type Product struct {
	ID          string
	URL         string
	Name        string
	TargetPrice *decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
