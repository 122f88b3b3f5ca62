package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"vitour/internal/config"
	"vitour/internal/models/db_models"
)

func TestComputeTourPrice(t *testing.T) {
	tests := []struct {
		name     string
		base     int64
		discount int
		want     string
	}{
		{"no discount", 1000, 0, "1000.00"},
		{"ten percent", 1000, 10, "900.00"},
		{"five percent", 1000, 5, "950.00"},
		{"rounds to cents", 999, 15, "849.15"},
		{"odd base", 333, 33, "223.11"},
		{"zero price", 0, 50, "0.00"},
		{"full discount", 1000, 100, "0.00"},
		{"clamped above 100", 1000, 150, "0.00"},
		{"clamped below 0", 1000, -5, "1000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTourPrice(tt.base, tt.discount).StringFixed(2))
		})
	}
}

func TestTieredDiscountPolicy(t *testing.T) {
	policy := &TieredDiscountPolicy{}
	card := &db_models.MembershipCard{
		DiscountTours:        2,
		DiscountPercent:      10,
		ExtraDiscountTours:   1,
		ExtraDiscountPercent: 5,
	}

	var prices []string
	for used := 0; used < 4; used++ {
		prices = append(prices, ComputeTourPrice(1000, policy.DiscountPercent(card, used)).StringFixed(0))
	}
	assert.Equal(t, []string{"900", "900", "950", "1000"}, prices)

	assert.Equal(t, 0, policy.DiscountPercent(nil, 0))
	assert.Equal(t, 0, policy.DiscountPercent(card, 10))
}

func TestTieredDiscountPolicy_BonusRuleFromCard(t *testing.T) {
	card := &db_models.MembershipCard{BonusAmount: decimal.NewFromInt(25), MonthlyLimit: intPtr(2)}

	rule := (&TieredDiscountPolicy{}).BonusRule(card)
	assert.True(t, rule.Amount.Equal(decimal.NewFromInt(25)))
	if assert.NotNil(t, rule.MonthlyLimit) {
		assert.Equal(t, 2, *rule.MonthlyLimit)
	}
}

func TestFlatCapPolicy(t *testing.T) {
	policy := &FlatCapPolicy{}
	capped := &db_models.MembershipCard{DiscountPercent: 20, MaxTours: intPtr(3)}

	assert.Equal(t, 20, policy.DiscountPercent(capped, 0))
	assert.Equal(t, 20, policy.DiscountPercent(capped, 2))
	assert.Equal(t, 0, policy.DiscountPercent(capped, 3))

	uncapped := &db_models.MembershipCard{DiscountPercent: 20}
	assert.Equal(t, 20, policy.DiscountPercent(uncapped, 50))

	zeroCap := &db_models.MembershipCard{DiscountPercent: 20, MaxTours: intPtr(0)}
	assert.Equal(t, 20, policy.DiscountPercent(zeroCap, 50))
}

func TestFlatCapPolicy_BonusTable(t *testing.T) {
	policy := &FlatCapPolicy{BonusTable: map[string]config.BonusRule{
		"GOLD": {Amount: decimal.NewFromInt(40)},
	}}

	gold := &db_models.MembershipCard{Code: "GOLD", BonusAmount: decimal.NewFromInt(5), MonthlyLimit: intPtr(1)}
	rule := policy.BonusRule(gold)
	assert.True(t, rule.Amount.Equal(decimal.NewFromInt(40)))
	assert.Nil(t, rule.MonthlyLimit)

	silver := &db_models.MembershipCard{Code: "SILVER", BonusAmount: decimal.NewFromInt(15), MonthlyLimit: intPtr(3)}
	rule = policy.BonusRule(silver)
	assert.True(t, rule.Amount.Equal(decimal.NewFromInt(15)))
	if assert.NotNil(t, rule.MonthlyLimit) {
		assert.Equal(t, 3, *rule.MonthlyLimit)
	}
}

func TestNewMembershipPolicy(t *testing.T) {
	assert.Equal(t, config.PolicyTieredDiscount, NewMembershipPolicy(&config.Config{}).Name())
	assert.Equal(t, config.PolicyFlatCap, NewMembershipPolicy(&config.Config{MembershipPolicy: config.PolicyFlatCap}).Name())
}
