package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avelar/pricewatch/internal/domain"
	"github.com/avelar/pricewatch/internal/retry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Sender delivers one rendered alert message.
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

type AlertDispatcher struct {
	alerts domain.AlertRepository
	sender Sender
	policy retry.Policy
	logger *zap.Logger
}

func NewAlertDispatcher(alerts domain.AlertRepository, sender Sender, policy retry.Policy, logger *zap.Logger) *AlertDispatcher {
	return &AlertDispatcher{alerts: alerts, sender: sender, policy: policy, logger: logger}
}

// Notify sends a drop alert for the product. If a delivered alert already
// exists for the same (product, new price) pair the call is a no-op and
// returns the prior event with sent=false. A delivery failure is recorded
// as an undelivered event and returned alongside the error; the
// observation that triggered it stays valid either way.
func (d *AlertDispatcher) Notify(ctx context.Context, product domain.Product, previousPrice, newPrice decimal.Decimal, currency string) (*domain.AlertEvent, bool, error) {
	existing, err := d.alerts.FindDelivered(ctx, product.ID, newPrice)
	if err == nil {
		d.logger.Info(
			"alert suppressed, already delivered",
			zap.String("product_id", product.ID),
			zap.String("new_price", newPrice.String()),
		)
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	subject, body := buildAlertMessage(product, previousPrice, newPrice, currency)
	sendErr := d.policy.Do(ctx, func() error {
		return d.sender.Send(ctx, subject, body)
	})

	event := &domain.AlertEvent{
		ProductID:     product.ID,
		PreviousPrice: previousPrice,
		NewPrice:      newPrice,
		Delivered:     sendErr == nil,
	}
	if sendErr != nil {
		event.DeliveryError = sendErr.Error()
	}
	if createErr := d.alerts.Create(ctx, event); createErr != nil {
		return event, sendErr == nil, createErr
	}

	if sendErr != nil {
		d.logger.Warn(
			"alert delivery failed",
			zap.String("product_id", product.ID),
			zap.Error(sendErr),
		)
		return event, false, sendErr
	}

	d.logger.Info(
		"alert delivered",
		zap.String("product_id", product.ID),
		zap.String("previous_price", previousPrice.String()),
		zap.String("new_price", newPrice.String()),
	)
	return event, true, nil
}

func buildAlertMessage(product domain.Product, previousPrice, newPrice decimal.Decimal, currency string) (string, string) {
	subject := fmt.Sprintf("Price drop: %s", product.Name)

	var body strings.Builder
	fmt.Fprintf(&body, "%s is now %s (was %s).\n", product.Name, formatPrice(newPrice, currency), formatPrice(previousPrice, currency))
	if delta := previousPrice.Sub(newPrice); delta.IsPositive() {
		fmt.Fprintf(&body, "You save %s.\n", formatPrice(delta, currency))
	}
	fmt.Fprintf(&body, "\n%s\n", product.URL)
	return subject, body.String()
}

func formatPrice(price decimal.Decimal, currency string) string {
	if currency == "" {
		return price.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", currency, price.StringFixed(2))
}
