package request_models

type IssueMembershipRequest struct {
	CardCode string `json:"card_code" binding:"required"`
}

type AdminIssueMembershipRequest struct {
	UserID   string `json:"user_id" binding:"required,uuid"`
	CardCode string `json:"card_code" binding:"required"`
	// Optional YYYY-MM-DD override of the computed end date.
	EndDate string `json:"end_date"`
}

type CreateCardRequest struct {
	Name                 string   `json:"name" binding:"required"`
	Code                 string   `json:"code" binding:"required"`
	DurationMonths       int      `json:"duration_months"`
	Price                int64    `json:"price"`
	Description          string   `json:"description"`
	Features             []string `json:"features"`
	Popular              bool     `json:"popular"`
	BonusAmount          string   `json:"bonus_amount"`
	MonthlyLimit         *int     `json:"monthly_limit"`
	Transfers            int      `json:"transfers"`
	DiscountTours        int      `json:"discount_tours"`
	DiscountPercent      int      `json:"discount_percent"`
	ExtraDiscountTours   int      `json:"extra_discount_tours"`
	ExtraDiscountPercent int      `json:"extra_discount_percent"`
	MaxTours             *int     `json:"max_tours"`
}

type SweepRequest struct {
	// Optional YYYY-MM-DD; defaults to today.
	AsOf string `json:"as_of"`
}
