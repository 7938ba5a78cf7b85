package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cafewifi/webapp/internal/models"
	"github.com/cafewifi/webapp/internal/repositories"
	"go.uber.org/zap"
)

// ErrCafeExists is returned by Add when the map URL is already listed
var ErrCafeExists = errors.New("cafe already listed")

// CafeRepository is the interface that wraps methods for cafe table data access
type CafeRepository interface {
	// Method Create inserts a new cafe into the database.
	//
	// Returns repositories.ErrDuplicate when the cafe name is already taken.
	Create(ctx context.Context, cafe *models.Cafe) error
	// Method ExistsByMapURL checks if a cafe with such map URL is already listed.
	ExistsByMapURL(ctx context.Context, mapURL string) (bool, error)
	// Method List retrieves all cafes in insertion order.
	List(ctx context.Context) ([]models.Cafe, error)
}

// cafeService implements the cafe directory business logic
type cafeService struct {
	cafeRepo CafeRepository
	logger   *zap.Logger
}

// NewCafeService creates a new cafe service
func NewCafeService(cafeRepo CafeRepository, logger *zap.Logger) *cafeService {
	return &cafeService{
		cafeRepo: cafeRepo,
		logger:   logger,
	}
}

// List returns every cafe in insertion order
func (s *cafeService) List(ctx context.Context) ([]models.Cafe, error) {
	cafes, err := s.cafeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cafes: %w", err)
	}
	return cafes, nil
}

// Add inserts a cafe after checking its map URL is not already listed.
// The map URL check is best effort; the unique cafe name key is the one
// enforced by the database.
func (s *cafeService) Add(ctx context.Context, cafe *models.Cafe) error {
	exists, err := s.cafeRepo.ExistsByMapURL(ctx, cafe.MapURL)
	if err != nil {
		return fmt.Errorf("failed to check map url: %w", err)
	}
	if exists {
		return ErrCafeExists
	}

	if err := s.cafeRepo.Create(ctx, cafe); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrCafeExists
		}
		return err
	}

	return nil
}
