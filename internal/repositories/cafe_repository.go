package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cafewifi/webapp/internal/models"
	"go.uber.org/zap"
)

// cafeRepository implements the cafe storage operations over MySQL
type cafeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCafeRepository creates a new cafe repository
func NewCafeRepository(db *sql.DB, logger *zap.Logger) *cafeRepository {
	return &cafeRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new cafe into the database.
// Returns ErrDuplicate when the cafe name is already taken.
func (r *cafeRepository) Create(ctx context.Context, cafe *models.Cafe) error {
	query := `
		INSERT INTO cafe (name, map_url, img_url, location, seats, has_toilet, has_wifi, has_sockets, can_take_calls, coffee_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		cafe.Name,
		cafe.MapURL,
		cafe.ImgURL,
		cafe.Location,
		cafe.Seats,
		cafe.HasToilet,
		cafe.HasWifi,
		cafe.HasSockets,
		cafe.CanTakeCalls,
		cafe.CoffeePrice,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		r.logger.Error("failed to create cafe", zap.Error(err))
		return fmt.Errorf("failed to create cafe: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	cafe.ID = int(id)
	return nil
}

// ExistsByMapURL checks if a cafe with the given map URL is already listed
func (r *cafeRepository) ExistsByMapURL(ctx context.Context, mapURL string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM cafe WHERE map_url = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, mapURL).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check map url existence", zap.Error(err), zap.String("mapUrl", mapURL))
		return false, fmt.Errorf("failed to check map url existence: %w", err)
	}

	return exists, nil
}

// List retrieves all cafes in insertion order
func (r *cafeRepository) List(ctx context.Context) ([]models.Cafe, error) {
	query := `
		SELECT id, name, map_url, img_url, location, seats, has_toilet, has_wifi, has_sockets, can_take_calls, COALESCE(coffee_price, '')
		FROM cafe
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list cafes", zap.Error(err))
		return nil, fmt.Errorf("failed to list cafes: %w", err)
	}
	defer rows.Close()

	cafes := []models.Cafe{}
	for rows.Next() {
		var cafe models.Cafe
		if err := rows.Scan(
			&cafe.ID,
			&cafe.Name,
			&cafe.MapURL,
			&cafe.ImgURL,
			&cafe.Location,
			&cafe.Seats,
			&cafe.HasToilet,
			&cafe.HasWifi,
			&cafe.HasSockets,
			&cafe.CanTakeCalls,
			&cafe.CoffeePrice,
		); err != nil {
			r.logger.Error("failed to scan cafe row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan cafe row: %w", err)
		}
		cafes = append(cafes, cafe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cafe rows: %w", err)
	}

	return cafes, nil
}
