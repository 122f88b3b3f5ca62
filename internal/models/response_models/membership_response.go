package response_models

import (
	"encoding/json"

	"github.com/google/uuid"
)

type MembershipCardResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Code                 string          `json:"code"`
	DurationMonths       int             `json:"duration_months"`
	Price                int64           `json:"price"`
	Description          string          `json:"description"`
	Features             json.RawMessage `json:"features,omitempty"`
	Popular              bool            `json:"popular"`
	BonusAmount          string          `json:"bonus_amount"`
	MonthlyLimit         *int            `json:"monthly_limit"`
	DiscountTours        int             `json:"discount_tours"`
	DiscountPercent      int             `json:"discount_percent"`
	ExtraDiscountTours   int             `json:"extra_discount_tours"`
	ExtraDiscountPercent int             `json:"extra_discount_percent"`
	MaxTours             *int            `json:"max_tours,omitempty"`
}

type MembershipResponse struct {
	ID         uuid.UUID               `json:"id"`
	UniqueCode string                  `json:"unique_code"`
	Card       *MembershipCardResponse `json:"card,omitempty"`
	StartDate  string                  `json:"start_date"`
	EndDate    string                  `json:"end_date,omitempty"`
	UsedTours  int                     `json:"used_tours"`
	IsActive   bool                    `json:"is_active"`
}

type SweepResponse struct {
	AsOf        string `json:"as_of"`
	Deactivated int    `json:"deactivated"`
}
