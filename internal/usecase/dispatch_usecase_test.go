package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/avelar/pricewatch/internal/domain"
	"github.com/avelar/pricewatch/internal/retry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAlertRepository is a mock implementation of domain.AlertRepository.
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) Create(ctx context.Context, event *domain.AlertEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAlertRepository) FindDelivered(ctx context.Context, productID string, newPrice decimal.Decimal) (*domain.AlertEvent, error) {
	args := m.Called(ctx, productID, newPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AlertEvent), args.Error(1)
}

// MockSender is a mock implementation of Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

func chargerProduct() domain.Product {
	return domain.Product{
		ID:   "B08N5WRWNW",
		URL:  "https://www.amazon.com/Anker-USB-C-Charger/dp/B08N5WRWNW",
		Name: "Anker USB C Charger",
	}
}

func TestNotifySendsAndRecords(t *testing.T) {
	ctx := context.Background()
	alerts := new(MockAlertRepository)
	sender := new(MockSender)
	dispatcher := NewAlertDispatcher(alerts, sender, retry.Policy{MaxAttempts: 2}, zap.NewNop())

	previous := decimal.RequireFromString("49.99")
	current := decimal.RequireFromString("39.99")

	alerts.On("FindDelivered", ctx, "B08N5WRWNW", current).Return(nil, domain.ErrNotFound)

	var subject, body string
	sender.On("Send", ctx, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		subject = args.String(1)
		body = args.String(2)
	})
	alerts.On("Create", ctx, mock.Anything).Return(nil)

	event, sent, err := dispatcher.Notify(ctx, chargerProduct(), previous, current, "USD")
	require.NoError(t, err)
	assert.True(t, sent)
	assert.True(t, event.Delivered)
	assert.True(t, event.PreviousPrice.Equal(previous))
	assert.True(t, event.NewPrice.Equal(current))

	assert.Contains(t, subject, "Anker USB C Charger")
	assert.Contains(t, body, "USD 39.99")
	assert.Contains(t, body, "USD 49.99")
	assert.Contains(t, body, "You save USD 10.00")
	assert.Contains(t, body, "https://www.amazon.com/Anker-USB-C-Charger/dp/B08N5WRWNW")

	alerts.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestNotifySuppressesDeliveredDuplicate(t *testing.T) {
	ctx := context.Background()
	alerts := new(MockAlertRepository)
	sender := new(MockSender)
	dispatcher := NewAlertDispatcher(alerts, sender, retry.Policy{MaxAttempts: 2}, zap.NewNop())

	current := decimal.RequireFromString("39.99")
	existing := &domain.AlertEvent{
		ID:        7,
		ProductID: "B08N5WRWNW",
		NewPrice:  current,
		Delivered: true,
	}
	alerts.On("FindDelivered", ctx, "B08N5WRWNW", current).Return(existing, nil)

	event, sent, err := dispatcher.Notify(ctx, chargerProduct(), decimal.RequireFromString("49.99"), current, "USD")
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, existing, event)

	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotifyRecordsFailedDelivery(t *testing.T) {
	ctx := context.Background()
	alerts := new(MockAlertRepository)
	sender := new(MockSender)
	dispatcher := NewAlertDispatcher(alerts, sender, retry.Policy{MaxAttempts: 2}, zap.NewNop())

	current := decimal.RequireFromString("39.99")
	sendErr := errors.New("smtp unreachable")

	alerts.On("FindDelivered", ctx, "B08N5WRWNW", current).Return(nil, domain.ErrNotFound)
	sender.On("Send", ctx, mock.Anything, mock.Anything).Return(sendErr).Twice()
	alerts.On("Create", ctx, mock.Anything).Return(nil)

	event, sent, err := dispatcher.Notify(ctx, chargerProduct(), decimal.RequireFromString("49.99"), current, "USD")
	assert.ErrorIs(t, err, sendErr)
	assert.False(t, sent)
	require.NotNil(t, event)
	assert.False(t, event.Delivered)
	assert.Contains(t, event.DeliveryError, "smtp unreachable")

	sender.AssertExpectations(t)
	alerts.AssertExpectations(t)
}
