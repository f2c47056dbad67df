package outbox

// Messages published inside booking transactions queue up under this
// topic (one watermill table in postgres) until the forwarder ships
// them to redis.
const topic = "booking_events_to_forward"
