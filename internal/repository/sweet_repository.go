package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// SweetRepository persists catalog records in MySQL. A nil db puts the
// repository in degraded mode: reads return empty results, writes fail with
// ErrStorageUnavailable.
type SweetRepository struct {
	db *sql.DB
}

func NewSweetRepository(db *sql.DB) *SweetRepository {
	return &SweetRepository{db: db}
}

const sweetSelect = `SELECT id, name, rate, description, image, image_url, category, unit FROM sweets`

func (r *SweetRepository) Insert(ctx context.Context, sweet entity.Sweet) (entity.Sweet, error) {
	if r.db == nil {
		return entity.Sweet{}, entity.ErrStorageUnavailable
	}
	if sweet.ID == "" {
		sweet.ID = uuid.NewString()
	}
	query := `INSERT INTO sweets (id, name, rate, description, image, category, unit) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, sweet.ID, sweet.Name, sweet.Rate, sweet.Description, sweet.Image, sweet.Category, sweet.Unit)
	if err != nil {
		return entity.Sweet{}, err
	}
	return sweet, nil
}

func (r *SweetRepository) FindAll(ctx context.Context, category string) ([]entity.Sweet, error) {
	if r.db == nil {
		logger.Warn().Msg("Database not connected; returning empty sweets list")
		return nil, nil
	}

	query := sweetSelect
	var args []any
	if category != "" {
		query += ` WHERE LOWER(category) LIKE ?`
		args = append(args, "%"+strings.ToLower(category)+"%")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sweets []entity.Sweet
	for rows.Next() {
		sweet, err := scanSweet(rows)
		if err != nil {
			return nil, err
		}
		sweets = append(sweets, sweet)
	}
	return sweets, rows.Err()
}

func (r *SweetRepository) FindByID(ctx context.Context, id string) (entity.Sweet, error) {
	if r.db == nil {
		return entity.Sweet{}, entity.ErrNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return entity.Sweet{}, entity.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, sweetSelect+` WHERE id = ?`, id)
	sweet, err := scanSweet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Sweet{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.Sweet{}, err
	}
	return sweet, nil
}

// DeleteByName removes every sweet with the exact name. Deleting a name that
// does not exist is a no-op, not an error.
func (r *SweetRepository) DeleteByName(ctx context.Context, name string) error {
	if r.db == nil {
		return entity.ErrStorageUnavailable
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM sweets WHERE name = ?`, name)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSweet(row rowScanner) (entity.Sweet, error) {
	var sweet entity.Sweet
	var description, image, legacyImage, category, unit sql.NullString
	err := row.Scan(&sweet.ID, &sweet.Name, &sweet.Rate, &description, &image, &legacyImage, &category, &unit)
	if err != nil {
		return entity.Sweet{}, err
	}
	sweet.Description = description.String
	sweet.Image = image.String
	sweet.Category = category.String
	sweet.Unit = unit.String
	return entity.NormalizeSweet(sweet, legacyImage.String), nil
}
