package db

import (
	"context"
	"errors"
	"time"

	"github.com/avelar/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append records one observation. Failed outcomes are recorded too; the
// log is append-only and nothing here updates or deletes rows.
func (r *HistoryRepository) Append(ctx context.Context, observation *domain.PriceObservation) error {
	model := mapObservationToModel(*observation)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	observation.ID = model.ID
	return nil
}

// LatestSuccessful returns the most recent success-outcome observation for
// the product, or domain.ErrNotFound when none exists yet.
func (r *HistoryRepository) LatestSuccessful(ctx context.Context, productID string) (*domain.PriceObservation, error) {
	var model observationModel
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND outcome = ?", productID, string(domain.OutcomeSuccess)).
		Order("observed_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapObservationToDomain(model)
}

func (r *HistoryRepository) ListByProduct(ctx context.Context, productID string, from, to time.Time) ([]domain.PriceObservation, error) {
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if !from.IsZero() {
		query = query.Where("observed_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("observed_at <= ?", to)
	}
	var models []observationModel
	if err := query.Order("observed_at, id").Find(&models).Error; err != nil {
		return nil, err
	}
	observations := make([]domain.PriceObservation, 0, len(models))
	for _, model := range models {
		observation, err := mapObservationToDomain(model)
		if err != nil {
			return nil, err
		}
		observations = append(observations, *observation)
	}
	return observations, nil
}

func mapObservationToDomain(model observationModel) (*domain.PriceObservation, error) {
	price := decimal.Zero
	if model.Price != "" {
		parsed, err := decimal.NewFromString(model.Price)
		if err != nil {
			return nil, err
		}
		price = parsed
	}
	return &domain.PriceObservation{
		ID:         model.ID,
		ProductID:  model.ProductID,
		ObservedAt: model.ObservedAt,
		Price:      price,
		Currency:   model.Currency,
		Outcome:    domain.ObservationOutcome(model.Outcome),
	}, nil
}

func mapObservationToModel(observation domain.PriceObservation) observationModel {
	price := ""
	if observation.Outcome == domain.OutcomeSuccess {
		price = observation.Price.String()
	}
	return observationModel{
		ID:         observation.ID,
		ProductID:  observation.ProductID,
		ObservedAt: observation.ObservedAt,
		Price:      price,
		Currency:   observation.Currency,
		Outcome:    string(observation.Outcome),
	}
}
