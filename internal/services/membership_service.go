package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"vitour/internal/models/db_models"
	"vitour/internal/models/request_models"
	"vitour/internal/models/response_models"
	"vitour/internal/repositories"
	"vitour/pkg/utils"
)

// One card month is 30 days.
const daysPerCardMonth = 30

type MembershipServiceInterface interface {
	ListCards(ctx context.Context) ([]response_models.MembershipCardResponse, error)
	GetCardByCode(ctx context.Context, code string) (*db_models.MembershipCard, error)
	CreateCard(ctx context.Context, request request_models.CreateCardRequest) (*db_models.MembershipCard, error)
	IssueMembership(ctx context.Context, userID uuid.UUID, cardCode string, endDate *time.Time) (*db_models.UserMembership, error)
	GetActiveMembership(ctx context.Context, userID uuid.UUID) (*db_models.UserMembership, error)
	ListUserMemberships(ctx context.Context, userID uuid.UUID) ([]db_models.UserMembership, error)
}

type MembershipService struct {
	cardRepo       repositories.MembershipCardRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	clock          Clock
	logger         *zap.Logger
}

func NewMembershipService(
	cardRepo repositories.MembershipCardRepository,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	clock Clock,
	logger *zap.Logger,
) MembershipServiceInterface {
	return &MembershipService{
		cardRepo:       cardRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		clock:          clock,
		logger:         logger,
	}
}

func (m *MembershipService) ListCards(ctx context.Context) ([]response_models.MembershipCardResponse, error) {
	cards, err := m.cardRepo.ListAll(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	result := make([]response_models.MembershipCardResponse, 0, len(cards))
	for i := range cards {
		result = append(result, *response_models.NewMembershipCardResponse(&cards[i]))
	}
	return result, nil
}

func (m *MembershipService) GetCardByCode(ctx context.Context, code string) (*db_models.MembershipCard, error) {
	card, err := m.cardRepo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if card == nil {
		return nil, utils.ErrCardNotFound
	}
	return card, nil
}

func (m *MembershipService) CreateCard(ctx context.Context, request request_models.CreateCardRequest) (*db_models.MembershipCard, error) {
	if err := validateCardRequest(request); err != nil {
		return nil, err
	}

	bonus := decimal.Zero
	if request.BonusAmount != "" {
		parsed, err := decimal.NewFromString(request.BonusAmount)
		if err != nil || parsed.IsNegative() {
			return nil, fmt.Errorf("%w: bonus_amount must be a non-negative number", utils.ErrValidation)
		}
		bonus = parsed.Round(2)
	}

	var features datatypes.JSON
	if len(request.Features) > 0 {
		raw, err := json.Marshal(request.Features)
		if err != nil {
			return nil, fmt.Errorf("%w: features: %v", utils.ErrValidation, err)
		}
		features = raw
	}

	existing, err := m.cardRepo.FindByCode(ctx, request.Code)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: card code %q already exists", utils.ErrValidation, request.Code)
	}

	card := &db_models.MembershipCard{
		Name:                 strings.TrimSpace(request.Name),
		Code:                 strings.TrimSpace(request.Code),
		DurationMonths:       request.DurationMonths,
		Price:                request.Price,
		Description:          request.Description,
		Features:             features,
		Popular:              request.Popular,
		BonusAmount:          bonus,
		MonthlyLimit:         request.MonthlyLimit,
		Transfers:            request.Transfers,
		DiscountTours:        request.DiscountTours,
		DiscountPercent:      request.DiscountPercent,
		ExtraDiscountTours:   request.ExtraDiscountTours,
		ExtraDiscountPercent: request.ExtraDiscountPercent,
		MaxTours:             request.MaxTours,
	}
	if err := m.cardRepo.Insert(ctx, card); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return card, nil
}

func validateCardRequest(r request_models.CreateCardRequest) error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: name is required", utils.ErrValidation)
	case strings.TrimSpace(r.Code) == "":
		return fmt.Errorf("%w: code is required", utils.ErrValidation)
	case r.DurationMonths < 0:
		return fmt.Errorf("%w: duration_months must not be negative", utils.ErrValidation)
	case r.Price < 0:
		return fmt.Errorf("%w: price must not be negative", utils.ErrValidation)
	case r.DiscountTours < 0 || r.ExtraDiscountTours < 0:
		return fmt.Errorf("%w: discount tour counts must not be negative", utils.ErrValidation)
	case r.DiscountPercent < 0 || r.DiscountPercent > 100 || r.ExtraDiscountPercent < 0 || r.ExtraDiscountPercent > 100:
		return fmt.Errorf("%w: discount percents must be between 0 and 100", utils.ErrValidation)
	case r.MonthlyLimit != nil && *r.MonthlyLimit < 0:
		return fmt.Errorf("%w: monthly_limit must not be negative", utils.ErrValidation)
	case r.MaxTours != nil && *r.MaxTours < 0:
		return fmt.Errorf("%w: max_tours must not be negative", utils.ErrValidation)
	}
	return nil
}

// IssueMembership gives userID a new card. Without an explicit endDate the card
// runs duration_months*30 days from today; a zero-duration card never ends.
// A card whose end date is already past is stored inactive.
func (m *MembershipService) IssueMembership(ctx context.Context, userID uuid.UUID, cardCode string, endDate *time.Time) (*db_models.UserMembership, error) {
	user, err := m.userRepo.FindById(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	card, err := m.GetCardByCode(ctx, cardCode)
	if err != nil {
		return nil, err
	}

	today := utils.StartOfDay(m.clock.Now())
	membership := &db_models.UserMembership{
		UserID:     user.ID,
		CardID:     card.ID,
		UniqueCode: utils.GenerateMembershipCode(),
		StartDate:  today.Unix(),
		IsActive:   true,
	}

	switch {
	case endDate != nil:
		end := utils.DayToUnix(endDate.In(today.Location()))
		membership.EndDate = &end
	case card.DurationMonths > 0:
		end := utils.AddDays(today, daysPerCardMonth*card.DurationMonths).Unix()
		membership.EndDate = &end
	}
	if membership.EndDate != nil && *membership.EndDate < today.Unix() {
		membership.IsActive = false
	}

	if err := m.membershipRepo.Insert(ctx, membership); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	membership.Card = card

	m.logger.Info("membership issued",
		zap.String("user_id", user.ID.String()),
		zap.String("card_code", card.Code),
		zap.String("unique_code", membership.UniqueCode),
		zap.Bool("is_active", membership.IsActive))

	return membership, nil
}

func (m *MembershipService) GetActiveMembership(ctx context.Context, userID uuid.UUID) (*db_models.UserMembership, error) {
	membership, err := m.membershipRepo.FindBestActive(ctx, userID, utils.DayToUnix(m.clock.Now()))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return membership, nil
}

func (m *MembershipService) ListUserMemberships(ctx context.Context, userID uuid.UUID) ([]db_models.UserMembership, error) {
	memberships, err := m.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return memberships, nil
}
