package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	FirstName    string `gorm:"size:100"`
	LastName     string `gorm:"size:100"`
	PasswordHash string
	Role         string `gorm:"size:20"`
	RefCode      string `gorm:"size:10;uniqueIndex;not null"`

	// Weak back-reference: deleting the referrer nulls this column.
	ReferrerID *uuid.UUID      `gorm:"type:uuid;index"`
	Referrer   *User           `gorm:"foreignKey:ReferrerID;constraint:OnDelete:SET NULL"`
	Balance    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}
