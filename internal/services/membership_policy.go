package services

import (
	"github.com/shopspring/decimal"
	"vitour/internal/config"
	"vitour/internal/models/db_models"
)

// MembershipPolicy decides how a card discounts tours and what its holder earns
// per referral. One policy is chosen per deployment.
type MembershipPolicy interface {
	Name() string
	// DiscountPercent is the discount for the next tour given usedTours already discounted.
	DiscountPercent(card *db_models.MembershipCard, usedTours int) int
	BonusRule(card *db_models.MembershipCard) config.BonusRule
}

func NewMembershipPolicy(cfg *config.Config) MembershipPolicy {
	if cfg.MembershipPolicy == config.PolicyFlatCap {
		return &FlatCapPolicy{BonusTable: cfg.FlatBonusTable}
	}
	return &TieredDiscountPolicy{}
}

// TieredDiscountPolicy: discount_tours at discount_percent, then
// extra_discount_tours at extra_discount_percent, then full price.
type TieredDiscountPolicy struct{}

func (p *TieredDiscountPolicy) Name() string { return config.PolicyTieredDiscount }

func (p *TieredDiscountPolicy) DiscountPercent(card *db_models.MembershipCard, usedTours int) int {
	if card == nil {
		return 0
	}
	switch {
	case usedTours < card.DiscountTours:
		return clampPercent(card.DiscountPercent)
	case usedTours < card.DiscountTours+card.ExtraDiscountTours:
		return clampPercent(card.ExtraDiscountPercent)
	default:
		return 0
	}
}

func (p *TieredDiscountPolicy) BonusRule(card *db_models.MembershipCard) config.BonusRule {
	return cardBonusRule(card)
}

// FlatCapPolicy: discount_percent on every tour until max_tours is reached.
// Bonus amounts come from the per-code table, falling back to the card fields.
type FlatCapPolicy struct {
	BonusTable map[string]config.BonusRule
}

func (p *FlatCapPolicy) Name() string { return config.PolicyFlatCap }

func (p *FlatCapPolicy) DiscountPercent(card *db_models.MembershipCard, usedTours int) int {
	if card == nil {
		return 0
	}
	if card.MaxTours != nil && *card.MaxTours > 0 && usedTours >= *card.MaxTours {
		return 0
	}
	return clampPercent(card.DiscountPercent)
}

func (p *FlatCapPolicy) BonusRule(card *db_models.MembershipCard) config.BonusRule {
	if card != nil {
		if rule, ok := p.BonusTable[card.Code]; ok {
			return rule
		}
	}
	return cardBonusRule(card)
}

func cardBonusRule(card *db_models.MembershipCard) config.BonusRule {
	if card == nil {
		return config.BonusRule{Amount: decimal.Zero}
	}
	return config.BonusRule{Amount: card.BonusAmount, MonthlyLimit: card.MonthlyLimit}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ComputeTourPrice applies a whole-percent discount to a base price,
// rounded to 2 decimal places.
func ComputeTourPrice(basePrice int64, discountPercent int) decimal.Decimal {
	base := decimal.NewFromInt(basePrice)
	discountPercent = clampPercent(discountPercent)
	if discountPercent == 0 {
		return base.Round(2)
	}
	return base.
		Mul(decimal.NewFromInt(int64(100 - discountPercent))).
		Div(decimal.NewFromInt(100)).
		Round(2)
}
