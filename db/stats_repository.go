package db

import (
	"context"
	"fmt"
	"time"
)

type DashboardStats struct {
	TotalBookings  int `json:"total_bookings" db:"total_bookings"`
	SeatsSold      int `json:"seats_sold" db:"seats_sold"`
	Revenue        int `json:"revenue" db:"revenue"`
	UpcomingEvents int `json:"upcoming_events" db:"upcoming_events"`
	Buyers         int `json:"buyers" db:"buyers"`
}

type CategoryRevenue struct {
	Category string `json:"category" db:"category"`
	Revenue  int    `json:"revenue" db:"revenue"`
}

type TimelineRevenue struct {
	EventID  string    `json:"event_id" db:"event_id"`
	Title    string    `json:"title" db:"title"`
	StartsAt time.Time `json:"starts_at" db:"starts_at"`
	Revenue  int       `json:"revenue" db:"revenue"`
}

type Analytics struct {
	ByCategory []CategoryRevenue `json:"by_category"`
	Timeline   []TimelineRevenue `json:"timeline"`
}

// StatsRepository serves the admin dashboard. Everything is derived from
// the ledger with snapshot reads; only confirmed bookings count towards
// seats sold and revenue.
type StatsRepository struct {
	db *DB
}

func NewStatsRepository(db *DB) StatsRepository {
	if db == nil {
		panic("db is nil")
	}
	return StatsRepository{
		db: db,
	}
}

func (sr StatsRepository) Dashboard(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	err := sr.db.Conn.GetContext(ctx, &stats, `
		SELECT
		    (SELECT count(*) FROM bookings WHERE status = 'confirmed') AS total_bookings,
		    (SELECT coalesce(sum(quantity), 0) FROM bookings WHERE status = 'confirmed') AS seats_sold,
		    (SELECT coalesce(sum(total_price), 0) FROM bookings WHERE status = 'confirmed') AS revenue,
		    (SELECT count(*) FROM events WHERE starts_at > now()) AS upcoming_events,
		    (SELECT count(*) FROM users) AS buyers
	`)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("could not get dashboard stats: %w", err)
	}

	return stats, nil
}

func (sr StatsRepository) Analytics(ctx context.Context) (Analytics, error) {
	byCategory := []CategoryRevenue{}
	err := sr.db.Conn.SelectContext(ctx, &byCategory, `
		SELECT
		    e.category,
		    coalesce(sum(b.total_price), 0) AS revenue
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.event_id AND b.status = 'confirmed'
		GROUP BY e.category
		ORDER BY revenue DESC
	`)
	if err != nil {
		return Analytics{}, fmt.Errorf("could not get revenue by category: %w", err)
	}

	timeline := []TimelineRevenue{}
	err = sr.db.Conn.SelectContext(ctx, &timeline, `
		SELECT
		    e.event_id,
		    e.title,
		    e.starts_at,
		    coalesce(sum(b.total_price), 0) AS revenue
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.event_id AND b.status = 'confirmed'
		GROUP BY e.event_id
		ORDER BY e.starts_at ASC
	`)
	if err != nil {
		return Analytics{}, fmt.Errorf("could not get revenue timeline: %w", err)
	}

	return Analytics{
		ByCategory: byCategory,
		Timeline:   timeline,
	}, nil
}
