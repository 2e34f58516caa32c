package db

import (
	"context"
	"errors"

	"github.com/avelar/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, event *domain.AlertEvent) error {
	model := mapAlertToModel(*event)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	event.ID = model.ID
	event.CreatedAt = model.CreatedAt
	return nil
}

// FindDelivered looks up a previously delivered alert for the same product
// and new price. This is the duplicate-suppression index: an unchanged
// lower price across runs must not alert twice.
func (r *AlertRepository) FindDelivered(ctx context.Context, productID string, newPrice decimal.Decimal) (*domain.AlertEvent, error) {
	var model alertModel
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND new_price = ? AND delivered = ?", productID, newPrice.String(), true).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapAlertToDomain(model)
}

func mapAlertToDomain(model alertModel) (*domain.AlertEvent, error) {
	previous, err := decimal.NewFromString(model.PreviousPrice)
	if err != nil {
		return nil, err
	}
	newPrice, err := decimal.NewFromString(model.NewPrice)
	if err != nil {
		return nil, err
	}
	return &domain.AlertEvent{
		ID:            model.ID,
		ProductID:     model.ProductID,
		PreviousPrice: previous,
		NewPrice:      newPrice,
		Delivered:     model.Delivered,
		DeliveryError: model.DeliveryError,
		CreatedAt:     model.CreatedAt,
	}, nil
}

func mapAlertToModel(event domain.AlertEvent) alertModel {
	return alertModel{
		ID:            event.ID,
		ProductID:     event.ProductID,
		PreviousPrice: event.PreviousPrice.String(),
		NewPrice:      event.NewPrice.String(),
		Delivered:     event.Delivered,
		DeliveryError: event.DeliveryError,
		CreatedAt:     event.CreatedAt,
	}
}
