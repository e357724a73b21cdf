package store

import (
	"context"
	"errors"
	"time"
)

// ErrHomeNotFound is returned when no home is registered for a user id.
var ErrHomeNotFound = errors.New("home not found")

// Home is the per-user home record.
type Home struct {
	UserID          string
	MotionDetection bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HomeStore handles home persistence.
type HomeStore interface {
	// FindHome retrieves the home owned by userID.
	FindHome(ctx context.Context, userID string) (*Home, error)

	// SaveHome updates an existing home and returns the stored record.
	SaveHome(ctx context.Context, home *Home) (*Home, error)

	// CreateHome registers a home for userID.
	CreateHome(ctx context.Context, userID string, motionDetection bool) (*Home, error)

	// ListHomes returns every registered home ordered by user id.
	ListHomes(ctx context.Context) ([]*Home, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	HomeStore

	// Migrate applies the schema.
	Migrate(ctx context.Context) error

	// Close closes the underlying database connection.
	Close() error
}
