package usecase

import (
	"github.com/avelar/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
)

type DropKind int

const (
	NoPriorData DropKind = iota
	NoDrop
	Drop
)

func (k DropKind) String() string {
	switch k {
	case NoPriorData:
		return "no_prior_data"
	case Drop:
		return "drop"
	default:
		return "no_drop"
	}
}

// DropDecision is the outcome of comparing a fresh observation against the
// baseline. Delta is previous minus current and may be negative when the
// target rule fires on a price that rose but sits under the threshold.
type DropDecision struct {
	Kind  DropKind
	Delta decimal.Decimal
}

// EvaluateDrop decides whether a new observation warrants an alert. Pure
// and deterministic. Rule order matters: a missing baseline always wins
// (no alert storm on newly added products), then a reached target, then a
// strict decrease against the baseline. An unchanged price is never a
// drop.
func EvaluateDrop(previous *domain.PriceObservation, current domain.PriceObservation, target *decimal.Decimal) DropDecision {
	if previous == nil {
		return DropDecision{Kind: NoPriorData}
	}

	delta := previous.Price.Sub(current.Price)
	if target != nil && current.Price.Cmp(*target) <= 0 {
		return DropDecision{Kind: Drop, Delta: delta}
	}
	if current.Price.Cmp(previous.Price) < 0 {
		return DropDecision{Kind: Drop, Delta: delta}
	}
	return DropDecision{Kind: NoDrop}
}
