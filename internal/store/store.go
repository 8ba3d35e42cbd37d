// Package store persists daily broadcast subscriptions in SQLite.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a chat has no subscription.
var ErrNotFound = errors.New("subscription not found")

// dateLayout is the format of LastSentOn.
const dateLayout = "2006-01-02"

// Subscription is a chat's opt-in to the daily fact.
type Subscription struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	Hour       int       `json:"hour"`
	Minute     int       `json:"minute"`
	LastSentOn string    `json:"last_sent_on,omitempty"` // local date, YYYY-MM-DD
	CreatedAt  time.Time `json:"created_at"`
}

// SentOn reports whether the subscription was already served on day's date.
func (s Subscription) SentOn(day time.Time) bool {
	return s.LastSentOn == day.Format(dateLayout)
}

// Store is a SQLite-backed subscription repository.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens a SQLite database with WAL mode enabled and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS subscriptions (
	id TEXT PRIMARY KEY,
	chat_id TEXT UNIQUE NOT NULL,
	hour INTEGER NOT NULL,
	minute INTEGER NOT NULL,
	last_sent_on TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) newID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

// Subscribe registers chatID for a daily delivery at hour:minute. Subscribing
// again only moves the delivery time; a chat never receives two copies.
func (s *Store) Subscribe(ctx context.Context, chatID string, hour, minute int) (Subscription, error) {
	if chatID == "" {
		return Subscription{}, fmt.Errorf("chat id is required")
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Subscription{}, fmt.Errorf("invalid delivery time %02d:%02d", hour, minute)
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO subscriptions (id, chat_id, hour, minute, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(chat_id) DO UPDATE SET hour = excluded.hour, minute = excluded.minute`,
		s.newID(now), chatID, hour, minute, now.Format(time.RFC3339Nano))
	if err != nil {
		return Subscription{}, fmt.Errorf("subscribe %s: %w", chatID, err)
	}
	return s.Get(ctx, chatID)
}

// Unsubscribe removes the subscription for chatID.
func (s *Store) Unsubscribe(ctx context.Context, chatID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE chat_id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("unsubscribe %s: %w", chatID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the subscription for chatID.
func (s *Store) Get(ctx context.Context, chatID string) (Subscription, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, chat_id, hour, minute, last_sent_on, created_at
FROM subscriptions WHERE chat_id = ?`, chatID)
	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Subscription{}, ErrNotFound
	}
	return sub, err
}

// List returns all subscriptions ordered by id (creation order).
func (s *Store) List(ctx context.Context) ([]Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, chat_id, hour, minute, last_sent_on, created_at
FROM subscriptions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// MarkSent records that chatID was served on day's date.
func (s *Store) MarkSent(ctx context.Context, id string, day time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE subscriptions SET last_sent_on = ? WHERE id = ?`,
		day.Format(dateLayout), id)
	if err != nil {
		return fmt.Errorf("mark sent %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(sc scanner) (Subscription, error) {
	var (
		sub     Subscription
		created string
	)
	if err := sc.Scan(&sub.ID, &sub.ChatID, &sub.Hour, &sub.Minute, &sub.LastSentOn, &created); err != nil {
		return Subscription{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Subscription{}, fmt.Errorf("parse created_at: %w", err)
	}
	sub.CreatedAt = t
	return sub, nil
}
