package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ObservationOutcome string

const (
	OutcomeSuccess     ObservationOutcome = "success"
	OutcomeNotFound    ObservationOutcome = "not_found"
	OutcomeBlocked     ObservationOutcome = "blocked"
	OutcomeParseFailed ObservationOutcome = "parse_failed"
	OutcomeFetchFailed ObservationOutcome = "fetch_failed"
)

// PriceObservation is one fetch-and-parse result for one product. Failed
// outcomes are recorded too; Price and Currency are only meaningful when
// Outcome is OutcomeSuccess.
type PriceObservation struct {
	ID         uint
	ProductID  string
	ObservedAt time.Time
	Price      decimal.Decimal
	Currency   string
	Outcome    ObservationOutcome
}
