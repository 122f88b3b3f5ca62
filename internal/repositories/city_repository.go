package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"vitour/internal/models/db_models"
)

// CityRepository is the price source for bookings; catalog browsing lives elsewhere.
type CityRepository interface {
	Insert(ctx context.Context, city *db_models.City) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.City, error)
}

type cityRepository struct {
	db *gorm.DB
}

func NewCityRepository(db *gorm.DB) CityRepository {
	return &cityRepository{db: db}
}

func (c *cityRepository) Insert(ctx context.Context, city *db_models.City) error {
	return c.db.WithContext(ctx).Create(city).Error
}

func (c *cityRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.City, error) {
	var city db_models.City
	err := c.db.WithContext(ctx).First(&city, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &city, nil
}
