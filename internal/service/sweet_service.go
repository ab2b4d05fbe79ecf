package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/dip04-eng/Sweet-store-backend/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	catalogCacheKey = "sweets:all"
	catalogCacheTTL = 1 * time.Minute
)

// SweetRepository is the storage surface the catalog service depends on.
type SweetRepository interface {
	Insert(ctx context.Context, sweet entity.Sweet) (entity.Sweet, error)
	FindAll(ctx context.Context, category string) ([]entity.Sweet, error)
	FindByID(ctx context.Context, id string) (entity.Sweet, error)
	DeleteByName(ctx context.Context, name string) error
}

// AddSweetInput carries the add/clone payload. Pointer fields distinguish
// "absent" from "empty" so clone overrides work field by field. Rate stays
// loosely typed because clients send it as number or string.
type AddSweetInput struct {
	Name            *string
	Rate            any
	Description     *string
	Image           string
	Category        string
	Unit            *string
	ExistingSweetID string
}

// SweetService implements the catalog operations. The Redis client is
// optional; without it the service simply skips the listing cache.
type SweetService struct {
	repo SweetRepository
	rdb  *redis.Client
}

func NewSweetService(repo SweetRepository, rdb *redis.Client) *SweetService {
	return &SweetService{repo: repo, rdb: rdb}
}

// AddSweet validates and persists a new catalog record. When
// ExistingSweetID is set the new record clones the referenced sweet, with
// any explicitly provided payload fields taking precedence. Name uniqueness
// is not enforced.
func (s *SweetService) AddSweet(ctx context.Context, in AddSweetInput) (entity.Sweet, error) {
	if strings.TrimSpace(in.Category) == "" {
		return entity.Sweet{}, entity.Invalidf("Missing required field: category")
	}
	if in.Unit != nil && !entity.ValidUnit(*in.Unit) {
		return entity.Sweet{}, entity.Invalidf("Invalid unit. Must be 'piece' or 'kg'")
	}
	if in.Image != "" && !strings.HasPrefix(in.Image, entity.ImageMarker) {
		return entity.Sweet{}, entity.Invalidf("Invalid image format. Must be a base64 data URI starting with 'data:image/'")
	}

	sweet := entity.Sweet{Category: strings.TrimSpace(in.Category), Unit: entity.UnitKg}

	if in.ExistingSweetID != "" {
		base, err := s.repo.FindByID(ctx, in.ExistingSweetID)
		if err != nil {
			return entity.Sweet{}, err
		}
		sweet.Name = base.Name
		sweet.Rate = base.Rate
		sweet.Description = base.Description
		sweet.Image = base.Image
		sweet.Unit = base.Unit
		if in.Name != nil {
			sweet.Name = *in.Name
		}
		if in.Rate != nil {
			sweet.Rate = entity.CoerceNumber(in.Rate)
		}
		if in.Description != nil {
			sweet.Description = *in.Description
		}
		if in.Image != "" {
			sweet.Image = in.Image
		}
		if in.Unit != nil {
			sweet.Unit = entity.NormalizeUnit(*in.Unit)
		}
	} else {
		if in.Name == nil {
			return entity.Sweet{}, entity.Invalidf("Missing required field: name")
		}
		if in.Rate == nil {
			return entity.Sweet{}, entity.Invalidf("Missing required field: rate")
		}
		sweet.Name = *in.Name
		sweet.Rate = entity.CoerceNumber(in.Rate)
		if in.Description != nil {
			sweet.Description = *in.Description
		}
		sweet.Image = in.Image
		if in.Unit != nil {
			sweet.Unit = entity.NormalizeUnit(*in.Unit)
		}
	}
	sweet.Name = strings.TrimSpace(sweet.Name)

	created, err := s.repo.Insert(ctx, sweet)
	if err != nil {
		logger.Error().Err(err).Msgf("Error adding sweet %q", sweet.Name)
		return entity.Sweet{}, err
	}
	logger.Info().Msgf("Sweet %q added with ID %s", created.Name, created.ID)
	s.invalidateCache(ctx)
	return created, nil
}

// RemoveSweet deletes every sweet matching the exact name. Unknown names are
// a no-op.
func (s *SweetService) RemoveSweet(ctx context.Context, name string) error {
	if err := s.repo.DeleteByName(ctx, name); err != nil {
		logger.Error().Err(err).Msgf("Error removing sweet %q", name)
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// GetSweets lists the catalog, optionally restricted to sweets whose
// category contains the filter substring case-insensitively. The unfiltered
// listing is served cache-aside from Redis; cache failures fall through to
// the database.
func (s *SweetService) GetSweets(ctx context.Context, category string) ([]entity.Sweet, error) {
	filter := strings.TrimSpace(category)

	if filter == "" && s.rdb != nil {
		cached, err := s.rdb.Get(ctx, catalogCacheKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Msg("Error reading catalog cache")
		}
		if cached != "" {
			var sweets []entity.Sweet
			if err := json.Unmarshal([]byte(cached), &sweets); err == nil {
				return sweets, nil
			}
		}
	}

	sweets, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing sweets")
		return nil, err
	}
	if sweets == nil {
		sweets = []entity.Sweet{}
	}

	if filter == "" && s.rdb != nil && len(sweets) > 0 {
		if encoded, err := json.Marshal(sweets); err == nil {
			if err := s.rdb.Set(ctx, catalogCacheKey, encoded, catalogCacheTTL).Err(); err != nil {
				logger.Warn().Err(err).Msg("Error writing catalog cache")
			}
		}
	}
	return sweets, nil
}

// GetSweetByID fetches a single normalized record.
func (s *SweetService) GetSweetByID(ctx context.Context, id string) (entity.Sweet, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SweetService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
		logger.Warn().Err(err).Msg("Error invalidating catalog cache")
	}
}
