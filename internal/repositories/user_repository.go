package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"vitour/internal/models/db_models"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Insert(ctx context.Context, user *db_models.User) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	// FindByIdForUpdate row-locks the user until the surrounding transaction ends.
	FindByIdForUpdate(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	FindByRefCode(ctx context.Context, refCode string) (*db_models.User, error)
	UpdateReferrer(ctx context.Context, userID uuid.UUID, referrerID *uuid.UUID) error
	UpdateBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error
	ClearReferrer(ctx context.Context, referrerID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountReferrals(ctx context.Context, referrerID uuid.UUID) (int64, error)
	ListReferralsWithTours(ctx context.Context, referrerID uuid.UUID) ([]db_models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (u *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (u *userRepository) Insert(ctx context.Context, user *db_models.User) error {
	return u.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

func (u *userRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return u.first(u.db.WithContext(ctx), "id = ?", id)
}

func (u *userRepository) FindByIdForUpdate(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return u.first(u.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (u *userRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	return u.first(u.db.WithContext(ctx), "email = ?", email)
}

func (u *userRepository) FindByRefCode(ctx context.Context, refCode string) (*db_models.User, error) {
	return u.first(u.db.WithContext(ctx), "ref_code = ?", refCode)
}

func (u *userRepository) first(db *gorm.DB, query string, args ...interface{}) (*db_models.User, error) {
	var user db_models.User
	err := db.Where(query, args...).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (u *userRepository) UpdateReferrer(ctx context.Context, userID uuid.UUID, referrerID *uuid.UUID) error {
	return u.db.WithContext(ctx).Model(&db_models.User{}).
		Where("id = ?", userID).
		Update("referrer_id", referrerID).Error
}

func (u *userRepository) UpdateBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error {
	return u.db.WithContext(ctx).Model(&db_models.User{}).
		Where("id = ?", userID).
		Update("balance", balance).Error
}

func (u *userRepository) ClearReferrer(ctx context.Context, referrerID uuid.UUID) error {
	return u.db.WithContext(ctx).Model(&db_models.User{}).
		Where("referrer_id = ?", referrerID).
		Update("referrer_id", nil).Error
}

func (u *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return u.db.WithContext(ctx).Delete(&db_models.User{}, "id = ?", id).Error
}

func (u *userRepository) CountReferrals(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&db_models.User{}).
		Where("referrer_id = ?", referrerID).
		Count(&count).Error
	return count, err
}

func (u *userRepository) ListReferralsWithTours(ctx context.Context, referrerID uuid.UUID) ([]db_models.User, error) {
	var users []db_models.User
	err := u.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Where("EXISTS (SELECT 1 FROM tours WHERE tours.user_id = users.id AND tours.deleted_at IS NULL)").
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
