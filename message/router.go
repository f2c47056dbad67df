package message

import (
	"encoding/json"
	"fmt"
	"marketplace/db"
	"marketplace/entities"
	"marketplace/message/command"
	"marketplace/message/event"
	"marketplace/message/outbox"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

func NewWatermillRouter(
	pgSubscriber message.Subscriber,
	redisSubscriber message.Subscriber,
	publisher message.Publisher,
	eventProcessorConfig cqrs.EventProcessorConfig,
	eventHandler event.Handler,
	commandProcessorConfig cqrs.CommandProcessorConfig,
	commandHandler command.Handler,
	opsReadModel db.OpsBookingReadModel,
	archiveRepo db.EventArchiveRepository,
	watermillLogger watermill.LoggerAdapter,
) *message.Router {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		panic(err)
	}

	useMiddlewares(router, watermillLogger)

	// ships outbox rows to redis once their transaction has committed
	_, err = outbox.NewForwarder(pgSubscriber, publisher, watermillLogger, router)
	if err != nil {
		panic(err)
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		panic(err)
	}

	err = eventProcessor.AddHandlers(
		cqrs.NewEventHandler(
			"SendBookingConfirmation",
			eventHandler.SendBookingConfirmation,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnBookingMade",
			opsReadModel.OnBookingMade,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnBookingCheckedIn",
			opsReadModel.OnBookingCheckedIn,
		),
		cqrs.NewEventHandler(
			"ops_read_model.OnBookingCancelled",
			opsReadModel.OnBookingCancelled,
		),
	)
	if err != nil {
		panic(err)
	}

	commandProcessor, err := cqrs.NewCommandProcessorWithConfig(router, commandProcessorConfig)
	if err != nil {
		panic(err)
	}

	err = commandProcessor.AddHandlers(
		cqrs.NewCommandHandler(
			"CancelBooking",
			commandHandler.CancelBooking,
		),
	)
	if err != nil {
		panic(err)
	}

	// every event on the shared topic is archived verbatim in the data
	// lake for audit and read-model rebuilds
	router.AddNoPublisherHandler(
		"events_archive",
		"events",
		redisSubscriber,
		func(msg *message.Message) error {
			var envelope struct {
				Header entities.EventHeader `json:"header"`
			}
			if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
				return fmt.Errorf("could not unmarshal event envelope: %w", err)
			}

			return archiveRepo.Store(msg.Context(), entities.ArchivedEvent{
				EventID:     envelope.Header.ID,
				PublishedAt: envelope.Header.PublishedAt,
				EventName:   msg.Metadata.Get("name"),
				Payload:     msg.Payload,
			})
		},
	)

	return router
}
