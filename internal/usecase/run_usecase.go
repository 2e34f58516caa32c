package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/avelar/pricewatch/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Dispatcher sends drop alerts with duplicate suppression.
type Dispatcher interface {
	Notify(ctx context.Context, product domain.Product, previousPrice, newPrice decimal.Decimal, currency string) (*domain.AlertEvent, bool, error)
}

// RunSummary is the observability surface of one scheduled run. Failures
// never reach the operator by email; they only show up here.
type RunSummary struct {
	RunID            uuid.UUID
	StartedAt        time.Time
	FinishedAt       time.Time
	Products         int
	Succeeded        int
	Drops            int
	AlertsSent       int
	NotFound         int
	Blocked          int
	ParseFailed      int
	FetchFailed      int
	StorageErrors    int
	DeliveryFailures int
}

// Tracker drives one full run of the pipeline: watchlist load, then per
// product fetch, extract, append, detect, dispatch. Products are processed
// strictly one at a time to stay under the scraping proxy's rate limits.
type Tracker struct {
	watchlist  domain.WatchlistRepository
	history    domain.HistoryRepository
	dispatcher Dispatcher
	fetcher    Fetcher
	minPause   time.Duration
	maxPause   time.Duration
	logger     *zap.Logger
}

func NewTracker(
	watchlist domain.WatchlistRepository,
	history domain.HistoryRepository,
	dispatcher Dispatcher,
	fetcher Fetcher,
	minPause, maxPause time.Duration,
	logger *zap.Logger,
) *Tracker {
	return &Tracker{
		watchlist:  watchlist,
		history:    history,
		dispatcher: dispatcher,
		fetcher:    fetcher,
		minPause:   minPause,
		maxPause:   maxPause,
		logger:     logger,
	}
}

// Run executes one pass over the watchlist. A failure on a single product
// is recorded and skipped; only an unreadable watchlist fails the run.
func (t *Tracker) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{RunID: uuid.New(), StartedAt: time.Now().UTC()}

	products, err := t.watchlist.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	summary.Products = len(products)
	t.logger.Info("run start", zap.String("run_id", summary.RunID.String()), zap.Int("products", len(products)))

	for i, product := range products {
		if i > 0 {
			if err := t.pause(ctx); err != nil {
				summary.FinishedAt = time.Now().UTC()
				return summary, err
			}
		}
		t.processProduct(ctx, product, summary)
	}

	summary.FinishedAt = time.Now().UTC()
	t.logger.Info(
		"run complete",
		zap.String("run_id", summary.RunID.String()),
		zap.Int("products", summary.Products),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("drops", summary.Drops),
		zap.Int("alerts_sent", summary.AlertsSent),
		zap.Int("not_found", summary.NotFound),
		zap.Int("blocked", summary.Blocked),
		zap.Int("parse_failed", summary.ParseFailed),
		zap.Int("fetch_failed", summary.FetchFailed),
		zap.Int("storage_errors", summary.StorageErrors),
		zap.Int("delivery_failures", summary.DeliveryFailures),
		zap.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

func (t *Tracker) processProduct(ctx context.Context, product domain.Product, summary *RunSummary) {
	observation := domain.PriceObservation{
		ProductID:  product.ID,
		ObservedAt: time.Now().UTC(),
	}

	body, err := t.fetcher.Fetch(ctx, BrowseURL(product.URL, product.Name))
	if err != nil {
		observation.Outcome = t.recordFetchFailure(product, err, summary)
		t.append(ctx, &observation, summary)
		return
	}

	price, currency, err := ExtractPrice(body)
	if err != nil {
		observation.Outcome = domain.OutcomeParseFailed
		summary.ParseFailed++
		t.logger.Warn("price parse failed", zap.String("product_id", product.ID), zap.Error(err))
		t.append(ctx, &observation, summary)
		return
	}
	observation.Price = price
	observation.Currency = currency
	observation.Outcome = domain.OutcomeSuccess

	previous, err := t.history.LatestSuccessful(ctx, product.ID)
	baselineOK := true
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			previous = nil
		} else {
			baselineOK = false
			summary.StorageErrors++
			t.logger.Error("baseline lookup failed", zap.String("product_id", product.ID), zap.Error(err))
		}
	}

	if !t.append(ctx, &observation, summary) {
		return
	}
	summary.Succeeded++

	if !baselineOK {
		return
	}

	decision := EvaluateDrop(previous, observation, product.TargetPrice)
	t.logger.Info(
		"price evaluated",
		zap.String("product_id", product.ID),
		zap.String("price", price.String()),
		zap.String("decision", decision.Kind.String()),
	)
	if decision.Kind != Drop {
		return
	}

	summary.Drops++
	_, sent, err := t.dispatcher.Notify(ctx, product, previous.Price, observation.Price, observation.Currency)
	if err != nil {
		summary.DeliveryFailures++
		t.logger.Warn("alert dispatch failed", zap.String("product_id", product.ID), zap.Error(err))
		return
	}
	if sent {
		summary.AlertsSent++
	}
}

func (t *Tracker) recordFetchFailure(product domain.Product, err error, summary *RunSummary) domain.ObservationOutcome {
	t.logger.Warn("fetch failed", zap.String("product_id", product.ID), zap.Error(err))

	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.Kind {
		case domain.FetchNotFound:
			summary.NotFound++
			return domain.OutcomeNotFound
		case domain.FetchBlocked:
			summary.Blocked++
			return domain.OutcomeBlocked
		}
	}
	summary.FetchFailed++
	return domain.OutcomeFetchFailed
}

func (t *Tracker) append(ctx context.Context, observation *domain.PriceObservation, summary *RunSummary) bool {
	if err := t.history.Append(ctx, observation); err != nil {
		summary.StorageErrors++
		t.logger.Error("observation append failed", zap.String("product_id", observation.ProductID), zap.Error(err))
		return false
	}
	return true
}

// pause sleeps a random interval between products so consecutive proxy
// calls do not look machine-timed.
func (t *Tracker) pause(ctx context.Context) error {
	if t.maxPause <= 0 {
		return nil
	}
	delay := t.minPause
	if t.maxPause > t.minPause {
		delay += time.Duration(rand.Int63n(int64(t.maxPause - t.minPause)))
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
