package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateProduct = errors.New("duplicate product")
)

type WatchlistRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Delete(ctx context.Context, productID string) error
	SetTargetPrice(ctx context.Context, productID string, target *decimal.Decimal) error
}

type HistoryRepository interface {
	Append(ctx context.Context, observation *PriceObservation) error
	LatestSuccessful(ctx context.Context, productID string) (*PriceObservation, error)
	ListByProduct(ctx context.Context, productID string, from, to time.Time) ([]PriceObservation, error)
}

type AlertRepository interface {
	Create(ctx context.Context, event *AlertEvent) error
	FindDelivered(ctx context.Context, productID string, newPrice decimal.Decimal) (*AlertEvent, error)
}
