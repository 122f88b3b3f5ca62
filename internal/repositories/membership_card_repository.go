package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"vitour/internal/models/db_models"
)

type MembershipCardRepository interface {
	Insert(ctx context.Context, card *db_models.MembershipCard) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.MembershipCard, error)
	FindByCode(ctx context.Context, code string) (*db_models.MembershipCard, error)
	ListAll(ctx context.Context) ([]db_models.MembershipCard, error)
}

type membershipCardRepository struct {
	db *gorm.DB
}

func NewMembershipCardRepository(db *gorm.DB) MembershipCardRepository {
	return &membershipCardRepository{db: db}
}

func (m *membershipCardRepository) Insert(ctx context.Context, card *db_models.MembershipCard) error {
	return m.db.WithContext(ctx).Create(card).Error
}

func (m *membershipCardRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.MembershipCard, error) {
	var card db_models.MembershipCard
	err := m.db.WithContext(ctx).First(&card, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &card, nil
}

func (m *membershipCardRepository) FindByCode(ctx context.Context, code string) (*db_models.MembershipCard, error) {
	var card db_models.MembershipCard
	err := m.db.WithContext(ctx).First(&card, "code = ?", code).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &card, nil
}

func (m *membershipCardRepository) ListAll(ctx context.Context) ([]db_models.MembershipCard, error) {
	var cards []db_models.MembershipCard
	err := m.db.WithContext(ctx).Order("price ASC").Find(&cards).Error

	if err != nil {
		return nil, err
	}

	return cards, nil
}
