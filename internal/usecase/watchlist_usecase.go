package usecase

import (
	"context"
	"errors"

	"github.com/avelar/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Fetcher retrieves raw page content for one URL.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

type WatchlistUsecase struct {
	watchlist domain.WatchlistRepository
	fetcher   Fetcher
	logger    *zap.Logger
}

// NewWatchlistUsecase builds the watchlist maintenance usecase. fetcher is
// optional; without one, display names come from the URL slug only.
func NewWatchlistUsecase(watchlist domain.WatchlistRepository, fetcher Fetcher, logger *zap.Logger) *WatchlistUsecase {
	return &WatchlistUsecase{watchlist: watchlist, fetcher: fetcher, logger: logger}
}

// Add registers a new product. The identifier is derived from the
// canonical URL; a second add of the same page fails with
// domain.ErrDuplicateProduct and leaves the watchlist unchanged.
func (u *WatchlistUsecase) Add(ctx context.Context, rawURL string, target *decimal.Decimal) (*domain.Product, error) {
	canonical, err := CanonicalProductURL(rawURL)
	if err != nil {
		return nil, err
	}
	productID := ProductID(canonical)

	if _, err := u.watchlist.GetByID(ctx, productID); err == nil {
		return nil, domain.ErrDuplicateProduct
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	product := &domain.Product{
		ID:          productID,
		URL:         canonical,
		Name:        u.displayName(ctx, canonical),
		TargetPrice: target,
	}
	if err := u.watchlist.Create(ctx, product); err != nil {
		return nil, err
	}

	u.logger.Info("product added", zap.String("product_id", product.ID), zap.String("url", product.URL))
	return product, nil
}

func (u *WatchlistUsecase) Remove(ctx context.Context, productID string) error {
	if err := u.watchlist.Delete(ctx, productID); err != nil {
		return err
	}
	u.logger.Info("product removed", zap.String("product_id", productID))
	return nil
}

func (u *WatchlistUsecase) List(ctx context.Context) ([]domain.Product, error) {
	return u.watchlist.List(ctx)
}

// SetTarget updates the alert threshold, the one mutation products allow.
// A nil target clears it.
func (u *WatchlistUsecase) SetTarget(ctx context.Context, productID string, target *decimal.Decimal) error {
	return u.watchlist.SetTargetPrice(ctx, productID, target)
}

// displayName fetches the page title, best-effort. Failure to obtain a
// name never blocks the add.
func (u *WatchlistUsecase) displayName(ctx context.Context, canonical string) string {
	name := ProductNameFromURL(canonical)
	if u.fetcher == nil {
		return name
	}
	body, err := u.fetcher.Fetch(ctx, canonical)
	if err != nil {
		u.logger.Warn("name lookup fetch failed", zap.String("url", canonical), zap.Error(err))
		return name
	}
	if title, ok := ExtractTitle(body); ok {
		return title
	}
	return name
}
