package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_bookings_confirmed_total",
		Help: "Bookings that passed the capacity check and were committed.",
	})

	// sold-out rejections are an expected outcome, tracked separately
	// from validation failures
	BookingsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_bookings_rejected_total",
		Help: "Reservation attempts rejected, by reason.",
	}, []string{"reason"})

	ConfirmationEmailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_confirmation_emails_sent_total",
		Help: "Booking confirmation emails successfully handed to the mailer.",
	})
)
