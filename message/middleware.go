package message

import (
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

const correlationIDMetadataKey = "correlation_id"

func useMiddlewares(router *message.Router, watermillLogger watermill.LoggerAdapter) {
	router.AddMiddleware(middleware.Recoverer)

	// retries smooth over transient postgres and redis hiccups; errors
	// that can never succeed on retry are acked by their handlers
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	router.AddMiddleware(func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			ctx := msg.Context()

			correlationID := msg.Metadata.Get(correlationIDMetadataKey)
			if correlationID == "" {
				correlationID = shortuuid.New()
			}

			ctx = log.ToContext(ctx, logrus.WithFields(logrus.Fields{correlationIDMetadataKey: correlationID}))
			ctx = log.ContextWithCorrelationID(ctx, correlationID)

			msg.SetContext(ctx)

			return h(msg)
		}
	})

	router.AddMiddleware(func(next message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			logger := log.FromContext(msg.Context()).WithFields(logrus.Fields{
				"message_id": msg.UUID,
				"event_name": msg.Metadata.Get("name"),
				"payload":    string(msg.Payload),
			})

			logger.Info("Processing message")

			msgs, err := next(msg)
			if err != nil {
				logger.WithError(err).Error("Message processing failed")
			}

			return msgs, err
		}
	})
}
