package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"vitour/internal/models/db_models"
)

type TourRepository interface {
	WithTx(tx *gorm.DB) TourRepository
	Insert(ctx context.Context, tour *db_models.Tour) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Tour, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Tour, error)
}

type tourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) TourRepository {
	return &tourRepository{db: db}
}

func (t *tourRepository) WithTx(tx *gorm.DB) TourRepository {
	return &tourRepository{db: tx}
}

func (t *tourRepository) Insert(ctx context.Context, tour *db_models.Tour) error {
	return t.db.WithContext(ctx).Omit(clause.Associations).Create(tour).Error
}

func (t *tourRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Tour, error) {
	var tour db_models.Tour
	err := t.db.WithContext(ctx).First(&tour, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &tour, nil
}

func (t *tourRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Tour, error) {
	var tours []db_models.Tour
	err := t.db.WithContext(ctx).Preload("City").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tours).Error
	if err != nil {
		return nil, err
	}
	return tours, nil
}
