package db

var schema = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

CREATE TABLE IF NOT EXISTS events (
	event_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	title VARCHAR(255) NOT NULL,
	category VARCHAR(100) NOT NULL,
	venue VARCHAR(255) NOT NULL,
	starts_at TIMESTAMPTZ NOT NULL,
	price_per_seat INT NOT NULL CHECK (price_per_seat >= 0),
	capacity INT NOT NULL CHECK (capacity > 0),
	available_seats INT NOT NULL CHECK (available_seats >= 0 AND available_seats <= capacity),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bookings (
	booking_id UUID PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES events (event_id),
	buyer_id UUID NOT NULL REFERENCES users (user_id),
	quantity INT NOT NULL CHECK (quantity >= 1),
	total_price INT NOT NULL CHECK (total_price >= 0),
	status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
	checked_in BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS bookings_event_id_idx ON bookings (event_id);
CREATE INDEX IF NOT EXISTS bookings_buyer_id_idx ON bookings (buyer_id);

CREATE TABLE IF NOT EXISTS read_model_ops_bookings (
	booking_id UUID PRIMARY KEY,
	payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS data_lake_events (
	event_id UUID PRIMARY KEY,
	published_at TIMESTAMPTZ NOT NULL,
	event_name VARCHAR(255) NOT NULL,
	event_payload JSONB NOT NULL
);
`
