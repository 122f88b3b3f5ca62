package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"vitour/internal/models/db_models"
	"vitour/internal/models/request_models"
	"vitour/internal/models/response_models"
	"vitour/internal/repositories"
	"vitour/pkg/utils"
)

const (
	refCodeAttempts  = 5
	maxReferralDepth = 1000
	defaultUserRole  = "user"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*db_models.User, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error)
	// SetReferrer links userID to referrerID, refusing links that would close a loop.
	SetReferrer(ctx context.Context, userID, referrerID uuid.UUID) error
	SetReferrerByCode(ctx context.Context, userID uuid.UUID, refCode string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*response_models.ProfileResponse, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type AccountService struct {
	db             *gorm.DB
	userRepo       repositories.UserRepository
	membershipRepo repositories.MembershipRepository
	bonusService   BonusServiceInterface
	tokens         *utils.TokenIssuer
	clock          Clock
	loc            *time.Location
	logger         *zap.Logger
}

func NewAccountService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	bonusService BonusServiceInterface,
	tokens *utils.TokenIssuer,
	clock Clock,
	logger *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		db:             db,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		bonusService:   bonusService,
		tokens:         tokens,
		clock:          clock,
		loc:            clock.Now().Location(),
		logger:         logger,
	}
}

func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*db_models.User, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", utils.ErrValidation)
	}
	if request.Password == "" {
		return nil, fmt.Errorf("%w: password is required", utils.ErrValidation)
	}

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	var referrerID *uuid.UUID
	if code := strings.TrimSpace(request.RefCode); code != "" {
		referrer, err := a.userRepo.FindByRefCode(ctx, code)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if referrer == nil {
			return nil, utils.ErrInvalidReferralCode
		}
		referrerID = &referrer.ID
	}

	refCode, err := a.newRefCode(ctx)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &db_models.User{
		Email:        email,
		FirstName:    strings.TrimSpace(request.FirstName),
		LastName:     strings.TrimSpace(request.LastName),
		PasswordHash: hashedPassword,
		Role:         defaultUserRole,
		RefCode:      refCode,
		ReferrerID:   referrerID,
		Balance:      decimal.Zero,
	}

	if err := a.userRepo.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	a.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.Bool("referred", referrerID != nil))

	return user, nil
}

func (a *AccountService) newRefCode(ctx context.Context) (string, error) {
	for i := 0; i < refCodeAttempts; i++ {
		code, err := utils.GenerateRefCode()
		if err != nil {
			return "", err
		}
		taken, err := a.userRepo.FindByRefCode(ctx, code)
		if err != nil {
			return "", utils.ErrDatabaseError
		}
		if taken == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique referral code after %d attempts", refCodeAttempts)
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(request.Email)))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := a.tokens.CreateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	return &response_models.LoginResponse{
		Token: token,
		User:  response_models.NewUserResponse(user),
	}, nil
}

func (a *AccountService) SetReferrerByCode(ctx context.Context, userID uuid.UUID, refCode string) error {
	referrer, err := a.userRepo.FindByRefCode(ctx, strings.TrimSpace(refCode))
	if err != nil {
		return utils.ErrDatabaseError
	}
	if referrer == nil {
		return utils.ErrInvalidReferralCode
	}
	return a.SetReferrer(ctx, userID, referrer.ID)
}

func (a *AccountService) SetReferrer(ctx context.Context, userID, referrerID uuid.UUID) error {
	if userID == referrerID {
		return utils.ErrReferralCycle
	}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := a.userRepo.WithTx(tx)

		user, err := users.FindByIdForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return utils.ErrUserNotFound
		}

		// Walk up from the new referrer; reaching userID means the link closes a loop.
		current := referrerID
		for depth := 0; ; depth++ {
			if depth >= maxReferralDepth {
				return utils.ErrReferralCycle
			}
			if current == userID {
				return utils.ErrReferralCycle
			}
			ancestor, err := users.FindByIdForUpdate(ctx, current)
			if err != nil {
				return err
			}
			if ancestor == nil {
				if depth == 0 {
					return utils.ErrUserNotFound
				}
				break
			}
			if ancestor.ReferrerID == nil {
				break
			}
			current = *ancestor.ReferrerID
		}

		return users.UpdateReferrer(ctx, userID, &referrerID)
	})

	switch {
	case err == nil:
		return nil
	case isDomainError(err):
		return err
	default:
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
}

func (a *AccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*response_models.ProfileResponse, error) {
	user, err := a.userRepo.FindById(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	totalReferrals, err := a.userRepo.CountReferrals(ctx, user.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	referrals, err := a.userRepo.ListReferralsWithTours(ctx, user.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	active, err := a.membershipRepo.FindBestActive(ctx, user.ID, utils.DayToUnix(a.clock.Now()))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	memberships, err := a.membershipRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	bonuses, err := a.bonusService.ListBonusHistory(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &response_models.ProfileResponse{
		UserResponse:     response_models.NewUserResponse(user),
		TotalReferrals:   totalReferrals,
		ActiveMembership: response_models.NewMembershipResponse(active, a.loc),
		Memberships:      make([]response_models.MembershipResponse, 0, len(memberships)),
		ReferralUsers:    make([]response_models.ReferralUserResponse, 0, len(referrals)),
		BonusHistory:     make([]response_models.BonusResponse, 0, len(bonuses)),
	}
	for i := range memberships {
		profile.Memberships = append(profile.Memberships, *response_models.NewMembershipResponse(&memberships[i], a.loc))
	}
	for _, r := range referrals {
		profile.ReferralUsers = append(profile.ReferralUsers, response_models.ReferralUserResponse{
			ID:        r.ID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
		})
	}
	for i := range bonuses {
		profile.BonusHistory = append(profile.BonusHistory, *response_models.NewBonusResponse(&bonuses[i], a.loc))
	}

	return profile, nil
}

// DeleteUser soft-deletes a user; users they referred keep their accounts
// with the referrer link cleared.
func (a *AccountService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := a.userRepo.WithTx(tx)

		user, err := users.FindByIdForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return utils.ErrUserNotFound
		}
		if err := users.ClearReferrer(ctx, userID); err != nil {
			return err
		}
		return users.Delete(ctx, userID)
	})

	switch {
	case err == nil:
		return nil
	case isDomainError(err):
		return err
	default:
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
}
