package db

import (
	"context"
	"errors"

	"github.com/avelar/pricewatch/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) Create(ctx context.Context, product *domain.Product) error {
	model := mapProductToModel(*product)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateProduct
		}
		return err
	}
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *WatchlistRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	var model productModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	product, err := mapProductToDomain(model)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *WatchlistRepository) List(ctx context.Context) ([]domain.Product, error) {
	var models []productModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(models))
	for _, model := range models {
		product, err := mapProductToDomain(model)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

func (r *WatchlistRepository) Delete(ctx context.Context, productID string) error {
	result := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&productModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WatchlistRepository) SetTargetPrice(ctx context.Context, productID string, target *decimal.Decimal) error {
	value := ""
	if target != nil {
		value = target.String()
	}
	result := r.db.WithContext(ctx).Model(&productModel{}).Where("product_id = ?", productID).Update("target_price", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapProductToDomain(model productModel) (*domain.Product, error) {
	var target *decimal.Decimal
	if model.TargetPrice != "" {
		value, err := decimal.NewFromString(model.TargetPrice)
		if err != nil {
			return nil, err
		}
		target = &value
	}
	return &domain.Product{
		ID:          model.ProductID,
		URL:         model.URL,
		Name:        model.Name,
		TargetPrice: target,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}, nil
}

func mapProductToModel(product domain.Product) productModel {
	target := ""
	if product.TargetPrice != nil {
		target = product.TargetPrice.String()
	}
	return productModel{
		ProductID:   product.ID,
		URL:         product.URL,
		Name:        product.Name,
		TargetPrice: target,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
