package response_models

import (
	"encoding/json"
	"time"

	"vitour/internal/models/db_models"
	"vitour/pkg/utils"
)

func NewUserResponse(u *db_models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		RefCode:    u.RefCode,
		Balance:    u.Balance.StringFixed(2),
		ReferrerID: u.ReferrerID,
	}
}

func NewMembershipCardResponse(c *db_models.MembershipCard) *MembershipCardResponse {
	if c == nil {
		return nil
	}
	resp := &MembershipCardResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		Code:                 c.Code,
		DurationMonths:       c.DurationMonths,
		Price:                c.Price,
		Description:          c.Description,
		Popular:              c.Popular,
		BonusAmount:          c.BonusAmount.StringFixed(2),
		MonthlyLimit:         c.MonthlyLimit,
		DiscountTours:        c.DiscountTours,
		DiscountPercent:      c.DiscountPercent,
		ExtraDiscountTours:   c.ExtraDiscountTours,
		ExtraDiscountPercent: c.ExtraDiscountPercent,
		MaxTours:             c.MaxTours,
	}
	if len(c.Features) > 0 {
		resp.Features = json.RawMessage(c.Features)
	}
	return resp
}

func NewMembershipResponse(m *db_models.UserMembership, loc *time.Location) *MembershipResponse {
	if m == nil {
		return nil
	}
	start := m.StartDate
	return &MembershipResponse{
		ID:         m.ID,
		UniqueCode: m.UniqueCode,
		Card:       NewMembershipCardResponse(m.Card),
		StartDate:  utils.FormatDay(&start, loc),
		EndDate:    utils.FormatDay(m.EndDate, loc),
		UsedTours:  m.UsedTours,
		IsActive:   m.IsActive,
	}
}

func NewTourResponse(t *db_models.Tour, loc *time.Location) TourResponse {
	resp := TourResponse{
		ID:        t.ID,
		Title:     t.Title,
		CityID:    t.CityID,
		Price:     t.Price.StringFixed(2),
		CreatedAt: utils.FormatRFC3339(t.CreatedAt, loc),
	}
	if t.City != nil {
		resp.CityName = t.City.Name
	}
	return resp
}

func NewBonusResponse(b *db_models.BonusHistory, loc *time.Location) *BonusResponse {
	if b == nil {
		return nil
	}
	resp := &BonusResponse{
		ID:             b.ID,
		ReferrerID:     b.ReferrerID,
		ReferredUserID: b.ReferredUserID,
		TourID:         b.TourID,
		Amount:         b.Amount.StringFixed(2),
		CreatedAt:      utils.FormatRFC3339(b.CreatedAt, loc),
	}
	if b.Tour != nil {
		resp.TourTitle = b.Tour.Title
	}
	return resp
}
