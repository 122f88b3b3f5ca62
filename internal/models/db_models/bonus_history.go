package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BonusHistory is the append-only ledger of referral payouts. At most one row
// exists per tour.
type BonusHistory struct {
	BaseModel
	ReferrerID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ReferredUserID uuid.UUID       `gorm:"type:uuid;index;not null"`
	TourID         uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	Referrer     *User `gorm:"foreignKey:ReferrerID"`
	ReferredUser *User `gorm:"foreignKey:ReferredUserID"`
	Tour         *Tour `gorm:"foreignKey:TourID"`
}
