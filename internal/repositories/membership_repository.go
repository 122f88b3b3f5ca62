package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"vitour/internal/models/db_models"
)

type MembershipRepository interface {
	WithTx(tx *gorm.DB) MembershipRepository
	Insert(ctx context.Context, membership *db_models.UserMembership) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.UserMembership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.UserMembership, error)

	// FindBestActive returns the user's active membership that expires last
	// (open-ended first), ties broken by id DESC, with its card loaded.
	FindBestActive(ctx context.Context, userID uuid.UUID, today int64) (*db_models.UserMembership, error)
	// FindBestActiveForUpdate is FindBestActive holding a row lock on the membership.
	FindBestActiveForUpdate(ctx context.Context, userID uuid.UUID, today int64) (*db_models.UserMembership, error)

	IncrementUsedTours(ctx context.Context, id uuid.UUID) error
	FindSweepCandidates(ctx context.Context, asOf int64, includeTourCap bool) ([]db_models.UserMembership, error)
	// Deactivate flips is_active only if it is still true; it reports whether a row changed.
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (m *membershipRepository) WithTx(tx *gorm.DB) MembershipRepository {
	return &membershipRepository{db: tx}
}

func (m *membershipRepository) Insert(ctx context.Context, membership *db_models.UserMembership) error {
	return m.db.WithContext(ctx).Omit(clause.Associations).Create(membership).Error
}

func (m *membershipRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.UserMembership, error) {
	var membership db_models.UserMembership
	err := m.db.WithContext(ctx).Preload("Card").First(&membership, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &membership, nil
}

func (m *membershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.UserMembership, error) {
	var memberships []db_models.UserMembership
	err := m.db.WithContext(ctx).Preload("Card").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func bestActive(userID uuid.UUID, today int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND is_active = ? AND (end_date IS NULL OR end_date >= ?)", userID, true, today).
			Order("CASE WHEN end_date IS NULL THEN 1 ELSE 0 END DESC").
			Order("end_date DESC").
			Order("id DESC")
	}
}

func (m *membershipRepository) FindBestActive(ctx context.Context, userID uuid.UUID, today int64) (*db_models.UserMembership, error) {
	return m.findBest(ctx, m.db.WithContext(ctx), userID, today)
}

func (m *membershipRepository) FindBestActiveForUpdate(ctx context.Context, userID uuid.UUID, today int64) (*db_models.UserMembership, error) {
	return m.findBest(ctx, m.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, today)
}

func (m *membershipRepository) findBest(ctx context.Context, db *gorm.DB, userID uuid.UUID, today int64) (*db_models.UserMembership, error) {
	var memberships []db_models.UserMembership
	if err := db.Scopes(bestActive(userID, today)).Limit(1).Find(&memberships).Error; err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, nil
	}

	membership := memberships[0]
	var card db_models.MembershipCard
	if err := m.db.WithContext(ctx).Unscoped().First(&card, "id = ?", membership.CardID).Error; err != nil {
		return nil, err
	}
	membership.Card = &card

	return &membership, nil
}

func (m *membershipRepository) IncrementUsedTours(ctx context.Context, id uuid.UUID) error {
	return m.db.WithContext(ctx).Model(&db_models.UserMembership{}).
		Where("id = ?", id).
		UpdateColumn("used_tours", gorm.Expr("used_tours + ?", 1)).Error
}

func (m *membershipRepository) FindSweepCandidates(ctx context.Context, asOf int64, includeTourCap bool) ([]db_models.UserMembership, error) {
	query := m.db.WithContext(ctx).
		Joins("JOIN membership_cards ON membership_cards.id = user_memberships.card_id").
		Where("user_memberships.is_active = ?", true)

	if includeTourCap {
		query = query.Where(
			"(user_memberships.end_date IS NOT NULL AND user_memberships.end_date < ?) OR "+
				"(membership_cards.max_tours IS NOT NULL AND membership_cards.max_tours > 0 AND user_memberships.used_tours >= membership_cards.max_tours)",
			asOf)
	} else {
		query = query.Where("user_memberships.end_date IS NOT NULL AND user_memberships.end_date < ?", asOf)
	}

	var memberships []db_models.UserMembership
	if err := query.Order("user_memberships.end_date ASC").Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (m *membershipRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	result := m.db.WithContext(ctx).Model(&db_models.UserMembership{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
