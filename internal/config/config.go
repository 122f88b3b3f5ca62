package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	PolicyTieredDiscount = "tiered_discount"
	PolicyFlatCap        = "flat_cap"

	ExpiryDateOnly        = "date_only"
	ExpiryDateOrTourCap   = "date_or_tour_cap"
	defaultNoMemberBonus  = "10/1"
	unlimitedLimitLiteral = "-"
)

// BonusRule is the payout for one referral: Amount, and how many payouts a
// referrer may receive per calendar month. A nil MonthlyLimit is unlimited.
type BonusRule struct {
	Amount       decimal.Decimal
	MonthlyLimit *int
}

type Config struct {
	Port        string
	Env         string
	GinMode     string
	PostgresURL string
	Timezone    string

	JWTSecret string
	JWTExpiry time.Duration

	MembershipPolicy  string
	ExpiryPolicy      string
	NoMembershipBonus *BonusRule
	FlatBonusTable    map[string]BonusRule

	SweepInterval  time.Duration
	IdempotencyTTL time.Duration
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function; tests pass a map lookup.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:             get("PORT", "8080"),
		Env:              get("APP_ENV", "development"),
		GinMode:          get("GIN_MODE", "debug"),
		PostgresURL:      get("POSTGRES_URL", ""),
		Timezone:         get("APP_TIMEZONE", "Asia/Ho_Chi_Minh"),
		JWTSecret:        get("JWT_SECRET", ""),
		MembershipPolicy: get("MEMBERSHIP_POLICY", PolicyTieredDiscount),
		ExpiryPolicy:     get("EXPIRY_POLICY", ExpiryDateOnly),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	var err error
	if cfg.JWTExpiry, err = parseDuration(get("JWT_EXPIRY", "1h")); err != nil {
		return nil, fmt.Errorf("JWT_EXPIRY: %w", err)
	}
	if cfg.SweepInterval, err = parseDuration(get("SWEEP_INTERVAL", "0")); err != nil {
		return nil, fmt.Errorf("SWEEP_INTERVAL: %w", err)
	}
	if cfg.IdempotencyTTL, err = parseDuration(get("IDEMPOTENCY_TTL", "10m")); err != nil {
		return nil, fmt.Errorf("IDEMPOTENCY_TTL: %w", err)
	}

	switch cfg.MembershipPolicy {
	case PolicyTieredDiscount, PolicyFlatCap:
	default:
		return nil, fmt.Errorf("MEMBERSHIP_POLICY: unknown policy %q", cfg.MembershipPolicy)
	}
	switch cfg.ExpiryPolicy {
	case ExpiryDateOnly, ExpiryDateOrTourCap:
	default:
		return nil, fmt.Errorf("EXPIRY_POLICY: unknown policy %q", cfg.ExpiryPolicy)
	}

	noMember := strings.TrimSpace(getenv("NO_MEMBERSHIP_BONUS"))
	if noMember == "" && cfg.MembershipPolicy == PolicyFlatCap {
		noMember = defaultNoMemberBonus
	}
	if noMember != "" && noMember != "none" {
		rule, err := ParseBonusRule(noMember)
		if err != nil {
			return nil, fmt.Errorf("NO_MEMBERSHIP_BONUS: %w", err)
		}
		cfg.NoMembershipBonus = &rule
	}

	if cfg.FlatBonusTable, err = ParseBonusTable(getenv("FLAT_BONUS_TABLE")); err != nil {
		return nil, fmt.Errorf("FLAT_BONUS_TABLE: %w", err)
	}

	return cfg, nil
}

// ParseBonusRule parses "amount/limit"; limit "-" (or omitted) means unlimited.
func ParseBonusRule(value string) (BonusRule, error) {
	amountPart, limitPart, hasLimit := strings.Cut(strings.TrimSpace(value), "/")
	amount, err := decimal.NewFromString(strings.TrimSpace(amountPart))
	if err != nil {
		return BonusRule{}, fmt.Errorf("invalid amount %q", amountPart)
	}
	if amount.IsNegative() {
		return BonusRule{}, fmt.Errorf("negative amount %q", amountPart)
	}
	rule := BonusRule{Amount: amount}

	limitPart = strings.TrimSpace(limitPart)
	if hasLimit && limitPart != "" && limitPart != unlimitedLimitLiteral {
		limit, err := strconv.Atoi(limitPart)
		if err != nil || limit < 0 {
			return BonusRule{}, fmt.Errorf("invalid monthly limit %q", limitPart)
		}
		rule.MonthlyLimit = &limit
	}
	return rule, nil
}

// ParseBonusTable parses "code=amount/limit,code=amount/limit".
func ParseBonusTable(value string) (map[string]BonusRule, error) {
	table := map[string]BonusRule{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		code, rule, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("invalid entry %q", item)
		}
		parsed, err := ParseBonusRule(rule)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", item, err)
		}
		table[strings.TrimSpace(code)] = parsed
	}
	return table, nil
}

func parseDuration(value string) (time.Duration, error) {
	if value == "0" {
		return 0, nil
	}
	return time.ParseDuration(value)
}
