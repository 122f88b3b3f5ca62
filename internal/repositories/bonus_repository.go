package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"vitour/internal/models/db_models"
)

type BonusRepository interface {
	WithTx(tx *gorm.DB) BonusRepository
	Insert(ctx context.Context, bonus *db_models.BonusHistory) error
	ExistsForTour(ctx context.Context, tourID uuid.UUID) (bool, error)
	// CountForReferrerBetween counts payouts with from <= created_at < to (unix seconds).
	CountForReferrerBetween(ctx context.Context, referrerID uuid.UUID, from, to int64) (int64, error)
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]db_models.BonusHistory, error)
}

type bonusRepository struct {
	db *gorm.DB
}

func NewBonusRepository(db *gorm.DB) BonusRepository {
	return &bonusRepository{db: db}
}

func (b *bonusRepository) WithTx(tx *gorm.DB) BonusRepository {
	return &bonusRepository{db: tx}
}

func (b *bonusRepository) Insert(ctx context.Context, bonus *db_models.BonusHistory) error {
	return b.db.WithContext(ctx).Omit(clause.Associations).Create(bonus).Error
}

func (b *bonusRepository) ExistsForTour(ctx context.Context, tourID uuid.UUID) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&db_models.BonusHistory{}).
		Where("tour_id = ?", tourID).
		Count(&count).Error
	return count > 0, err
}

func (b *bonusRepository) CountForReferrerBetween(ctx context.Context, referrerID uuid.UUID, from, to int64) (int64, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&db_models.BonusHistory{}).
		Where("referrer_id = ? AND created_at >= ? AND created_at < ?", referrerID, from, to).
		Count(&count).Error
	return count, err
}

func (b *bonusRepository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]db_models.BonusHistory, error) {
	var bonuses []db_models.BonusHistory
	err := b.db.WithContext(ctx).Preload("Tour").
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&bonuses).Error
	if err != nil {
		return nil, err
	}
	return bonuses, nil
}
