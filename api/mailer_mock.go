package api

import (
	"context"
	"sync"
)

type SentConfirmation struct {
	To         string
	EventTitle string
	Quantity   int
	TotalPrice int
}

type MailerMock struct {
	lock sync.Mutex

	// Err, when set, is returned from every send
	Err error

	SentConfirmations []SentConfirmation
}

func (m *MailerMock) SendBookingConfirmation(ctx context.Context, to string, eventTitle string, quantity int, totalPrice int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.SentConfirmations = append(m.SentConfirmations, SentConfirmation{
		To:         to,
		EventTitle: eventTitle,
		Quantity:   quantity,
		TotalPrice: totalPrice,
	})
	return nil
}

func (m *MailerMock) SetErr(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.Err = err
}

func (m *MailerMock) Sent() []SentConfirmation {
	m.lock.Lock()
	defer m.lock.Unlock()

	out := make([]SentConfirmation, len(m.SentConfirmations))
	copy(out, m.SentConfirmations)
	return out
}
