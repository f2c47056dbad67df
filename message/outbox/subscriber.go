package outbox

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

// SubscribeForPGMessages reads the outbox table for the forwarder. The
// offsets adapter keeps the forwarder's position in postgres next to
// the messages, so a restart resumes where it left off.
func SubscribeForPGMessages(db *sqlx.DB, logger watermill.LoggerAdapter) message.Subscriber {
	sub, err := sql.NewSubscriber(
		db,
		sql.SubscriberConfig{
			SchemaAdapter:  sql.DefaultPostgreSQLSchema{},
			OffsetsAdapter: sql.DefaultPostgreSQLOffsetsAdapter{},
		},
		logger,
	)
	if err != nil {
		panic(err)
	}

	// creates the outbox tables on first run
	err = sub.SubscribeInitialize(topic)
	if err != nil {
		panic(err)
	}

	return sub
}
