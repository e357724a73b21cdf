package homes

import (
	"context"
	"errors"
	"fmt"

	"github.com/RahulSaini202/home-automation/internal/store"
)

// ErrNotFound is returned when no home is registered for the user id.
var ErrNotFound = errors.New("home not found")

// Service provides motion detection settings per home.
type Service struct {
	store store.HomeStore
}

// New creates a new homes service.
func New(st store.HomeStore) *Service {
	return &Service{
		store: st,
	}
}

// SetMotionDetectionStatus stores the flag for an existing home and returns
// the persisted value. Unknown homes are never created.
func (s *Service) SetMotionDetectionStatus(ctx context.Context, userID string, status bool) (bool, error) {
	home, err := s.find(ctx, userID)
	if err != nil {
		return false, err
	}

	home.MotionDetection = status
	updated, err := s.store.SaveHome(ctx, home)
	if err != nil {
		if errors.Is(err, store.ErrHomeNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("save home: %w", err)
	}

	return updated.MotionDetection, nil
}

// GetMotionDetectionStatus returns the flag for an existing home.
func (s *Service) GetMotionDetectionStatus(ctx context.Context, userID string) (bool, error) {
	home, err := s.find(ctx, userID)
	if err != nil {
		return false, err
	}
	return home.MotionDetection, nil
}

// Register creates a home record for userID.
func (s *Service) Register(ctx context.Context, userID string, status bool) (*store.Home, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	home, err := s.store.CreateHome(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("create home: %w", err)
	}
	return home, nil
}

// List returns every registered home.
func (s *Service) List(ctx context.Context) ([]*store.Home, error) {
	return s.store.ListHomes(ctx)
}

func (s *Service) find(ctx context.Context, userID string) (*store.Home, error) {
	if userID == "" {
		return nil, ErrNotFound
	}
	home, err := s.store.FindHome(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrHomeNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find home: %w", err)
	}
	return home, nil
}
