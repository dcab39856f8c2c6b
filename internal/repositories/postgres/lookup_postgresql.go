package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/agendadigital/forms-service/internal/cache"
	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
)

type lookupRepository struct {
	db    *gorm.DB
	cache *cache.CacheHelper
}

// NewLookupPostgreSQL reads the discipline/class reference tables. Unlike the
// student roster these change a few times a year, so they are served through
// a short-lived cache.
func NewLookupPostgreSQL(db *gorm.DB, cacheHelper *cache.CacheHelper) repositories.LookupRepository {
	return &lookupRepository{db: db, cache: cacheHelper}
}

func (r *lookupRepository) Disciplines(ctx context.Context) ([]models.Discipline, error) {
	var disciplines []models.Discipline

	if err := r.cache.Get(ctx, "disciplines", &disciplines); err == nil {
		return disciplines, nil
	}

	if err := r.db.WithContext(ctx).
		Order("disciplina").
		Find(&disciplines).Error; err != nil {
		return nil, fmt.Errorf("failed to list disciplines: %w", err)
	}

	cache.SafeSet(ctx, r.cache, "disciplines", disciplines, cache.LookupCacheConfig.TTL)

	return disciplines, nil
}

func (r *lookupRepository) Classes(ctx context.Context) ([]models.Class, error) {
	var classes []models.Class

	if err := r.cache.Get(ctx, "classes", &classes); err == nil {
		return classes, nil
	}

	if err := r.db.WithContext(ctx).
		Order("turma").
		Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}

	cache.SafeSet(ctx, r.cache, "classes", classes, cache.LookupCacheConfig.TTL)

	return classes, nil
}

// Invalidate drops the cached reference lists so the next read goes back to
// the database. Called after a roster/reference import.
func (r *lookupRepository) Invalidate(ctx context.Context) {
	cache.InvalidateLookupCache(ctx, r.cache)
}
