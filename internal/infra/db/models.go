package db

import "time"

type productModel struct {
	ID          uint   `gorm:"primaryKey"`
	ProductID   string `gorm:"uniqueIndex;not null"`
	URL         string `gorm:"not null"`
	Name        string `gorm:"not null"`
	TargetPrice string `gorm:""`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type observationModel struct {
	ID         uint      `gorm:"primaryKey"`
	ProductID  string    `gorm:"index:idx_observations_product_outcome_observed,priority:1;not null"`
	ObservedAt time.Time `gorm:"index:idx_observations_product_outcome_observed,priority:3;not null"`
	Price      string    `gorm:""`
	Currency   string    `gorm:""`
	Outcome    string    `gorm:"index:idx_observations_product_outcome_observed,priority:2;not null"`
}

type alertModel struct {
	ID            uint   `gorm:"primaryKey"`
	ProductID     string `gorm:"index:idx_alerts_product_price_delivered,priority:1;not null"`
	PreviousPrice string `gorm:"not null"`
	NewPrice      string `gorm:"index:idx_alerts_product_price_delivered,priority:2;not null"`
	Delivered     bool   `gorm:"index:idx_alerts_product_price_delivered,priority:3"`
	DeliveryError string `gorm:""`
	CreatedAt     time.Time
}
