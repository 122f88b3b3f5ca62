package response_models

import "github.com/google/uuid"

type TourResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CityID    uuid.UUID `json:"city_id"`
	CityName  string    `json:"city_name,omitempty"`
	Price     string    `json:"price"`
	CreatedAt string    `json:"created_at"`
}

type BookingResponse struct {
	Tour            TourResponse   `json:"tour"`
	DiscountPercent int            `json:"discount_percent"`
	MembershipCode  string         `json:"membership_code,omitempty"`
	UsedTours       *int           `json:"used_tours,omitempty"`
	Bonus           *BonusResponse `json:"bonus,omitempty"`
	Warnings        []string       `json:"warnings,omitempty"`
}

type BonusResponse struct {
	ID             uuid.UUID `json:"id"`
	ReferrerID     uuid.UUID `json:"referrer"`
	ReferredUserID uuid.UUID `json:"referred_user"`
	TourID         uuid.UUID `json:"tour"`
	TourTitle      string    `json:"tour_title,omitempty"`
	Amount         string    `json:"amount"`
	CreatedAt      string    `json:"created_at"`
}
