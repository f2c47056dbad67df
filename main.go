package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"

	"marketplace/api"
	"marketplace/db"
	"marketplace/message"
	"marketplace/service"
	observability "marketplace/trace"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const defaultMaxSeatsPerBooking = 5

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	tp := observability.ConfigureTraceProvider()
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	conn, err := db.NewDBConn(os.Getenv("POSTGRES_URL"))
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	conn.MigrateSchema()

	maxSeats := defaultMaxSeatsPerBooking
	if v := os.Getenv("MAX_SEATS_PER_BOOKING"); v != "" {
		maxSeats, err = strconv.Atoi(v)
		if err != nil {
			panic("MAX_SEATS_PER_BOOKING must be an integer: " + err.Error())
		}
	}

	redisClient := message.NewRedisClient(os.Getenv("REDIS_ADDR"))
	defer redisClient.Close()

	mailer := api.NewMailerClient(
		os.Getenv("MAILERSEND_API_KEY"),
		os.Getenv("MAIL_FROM_NAME"),
		os.Getenv("MAIL_FROM_EMAIL"),
	)

	logrus.Info("Server starting...")

	err = service.New(redisClient, mailer, conn, maxSeats).Run(ctx)
	if err != nil {
		panic(err)
	}
}
