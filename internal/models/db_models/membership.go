package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// MembershipCard is a catalog tier. MonthlyLimit nil means unlimited bonuses,
// MaxTours is only read by the flat-cap policy.
type MembershipCard struct {
	BaseModel
	Name           string `gorm:"size:100;not null"`
	Code           string `gorm:"size:20;uniqueIndex;not null"`
	DurationMonths int
	Price          int64
	Description    string
	Features       datatypes.JSON
	Popular        bool

	BonusAmount  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	MonthlyLimit *int
	Transfers    int

	DiscountTours        int
	DiscountPercent      int
	ExtraDiscountTours   int
	ExtraDiscountPercent int
	MaxTours             *int
}

// UserMembership is a card issued to a user. StartDate and EndDate are unix
// seconds of the start of the day; a nil EndDate never expires.
type UserMembership struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`
	CardID     uuid.UUID `gorm:"type:uuid;index;not null"`
	UniqueCode string    `gorm:"size:20;uniqueIndex;not null"`
	StartDate  int64     `gorm:"not null"`
	EndDate    *int64    `gorm:"index"`
	UsedTours  int       `gorm:"not null;default:0"`
	IsActive   bool      `gorm:"index;not null"`

	Card *MembershipCard `gorm:"foreignKey:CardID"`
	User *User           `gorm:"foreignKey:UserID"`
}
