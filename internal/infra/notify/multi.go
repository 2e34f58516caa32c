package notify

import (
	"context"
	"errors"
)

// Sender matches the dispatcher's delivery contract.
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

// Multi fans one alert out to every configured channel. Any channel
// failure surfaces, so the dispatcher's retry covers all of them.
type Multi struct {
	senders []Sender
}

func NewMulti(senders ...Sender) *Multi {
	return &Multi{senders: senders}
}

func (m *Multi) Send(ctx context.Context, subject, body string) error {
	var errs []error
	for _, sender := range m.senders {
		if err := sender.Send(ctx, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
