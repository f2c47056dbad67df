package service

import (
	"context"
	"net/http"

	"marketplace/db"
	marketplaceHttp "marketplace/http"
	"marketplace/message"
	"marketplace/message/command"
	"marketplace/message/event"
	"marketplace/message/outbox"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
}

func New(
	redisClient *redis.Client,
	mailer event.Mailer,
	conn db.DB,
	maxSeatsPerBooking int,
) Service {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher := message.NewRedisPublisher(redisClient, watermillLogger)

	eventBus := event.NewBus(redisPublisher)
	commandBus := command.NewCommandBus(redisPublisher)

	eventRepo := db.NewEventRepository(&conn)
	userRepo := db.NewUserRepository(&conn)
	bookingRepo := db.NewBookingRepository(&conn, maxSeatsPerBooking)
	statsRepo := db.NewStatsRepository(&conn)
	opsReadModel := db.NewOpsBookingReadModel(&conn, eventBus)
	archiveRepo := db.NewEventArchiveRepository(&conn)

	eventsHandler := event.NewHandler(mailer)
	commandsHandler := command.NewHandler(bookingRepo)

	redisSubscriber := message.NewRedisSubscriber(redisClient, watermillLogger)
	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)
	commandProcessorConfig := command.NewCommandProcessorConfig(redisClient, watermillLogger)

	pgSubscriber := outbox.SubscribeForPGMessages(conn.Conn, watermillLogger)
	watermillRouter := message.NewWatermillRouter(
		pgSubscriber,
		redisSubscriber,
		redisPublisher,
		eventProcessorConfig,
		eventsHandler,
		commandProcessorConfig,
		commandsHandler,
		opsReadModel,
		archiveRepo,
		watermillLogger,
	)

	echoRouter := marketplaceHttp.NewHttpRouter(
		eventBus,
		commandBus,
		eventRepo,
		userRepo,
		bookingRepo,
		opsReadModel,
		statsRepo,
	)

	return Service{
		watermillRouter,
		echoRouter,
	}
}

func (s Service) Run(
	ctx context.Context,
) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// don't accept requests before the message router is running,
		// otherwise the service looks healthy while handlers are down
		<-s.watermillRouter.Running()

		err := s.echoRouter.Start(":8080")
		if err != nil && err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}
