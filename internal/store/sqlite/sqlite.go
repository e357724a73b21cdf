package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/RahulSaini202/home-automation/internal/store"
)

//go:embed schema.sql
var schema string

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

func open(dbPath string) (*sql.DB, error) {
	dsn := dbPath
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with single connection; it also keeps ":memory:"
	// databases alive across queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithSetup creates a new SQLite store and runs a setup function instead
// of the embedded schema. Useful for tests.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate applies the embedded schema. It is safe to run repeatedly.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== HomeStore implementation ====

// FindHome retrieves the home owned by userID.
func (s *SQLiteStore) FindHome(ctx context.Context, userID string) (*store.Home, error) {
	query := `
		SELECT user_id, motion_detection, created_at, updated_at
		FROM homes
		WHERE user_id = ?
	`
	var home store.Home
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&home.UserID,
		&home.MotionDetection,
		&home.CreatedAt,
		&home.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find home %q: %w", userID, store.ErrHomeNotFound)
		}
		return nil, fmt.Errorf("query home: %w", err)
	}

	return &home, nil
}

// SaveHome updates an existing home. Unknown homes are not created.
func (s *SQLiteStore) SaveHome(ctx context.Context, home *store.Home) (*store.Home, error) {
	query := `
		UPDATE homes
		SET motion_detection = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?
	`
	result, err := s.db.ExecContext(ctx, query, home.MotionDetection, home.UserID)
	if err != nil {
		return nil, fmt.Errorf("update home: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("save home %q: %w", home.UserID, store.ErrHomeNotFound)
	}

	return s.FindHome(ctx, home.UserID)
}

// CreateHome registers a home for userID.
func (s *SQLiteStore) CreateHome(ctx context.Context, userID string, motionDetection bool) (*store.Home, error) {
	query := `
		INSERT INTO homes (user_id, motion_detection)
		VALUES (?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, userID, motionDetection); err != nil {
		return nil, fmt.Errorf("insert home: %w", err)
	}

	return s.FindHome(ctx, userID)
}

// ListHomes returns every registered home ordered by user id.
func (s *SQLiteStore) ListHomes(ctx context.Context) ([]*store.Home, error) {
	query := `
		SELECT user_id, motion_detection, created_at, updated_at
		FROM homes
		ORDER BY user_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query homes: %w", err)
	}
	defer rows.Close()

	var homes []*store.Home
	for rows.Next() {
		var home store.Home
		if err := rows.Scan(&home.UserID, &home.MotionDetection, &home.CreatedAt, &home.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan home: %w", err)
		}
		homes = append(homes, &home)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate homes: %w", err)
	}

	return homes, nil
}
