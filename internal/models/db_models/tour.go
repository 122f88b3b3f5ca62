package db_models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Tour struct {
	BaseModel
	UserID uuid.UUID       `gorm:"type:uuid;index;not null"`
	CityID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Title  string          `gorm:"size:100;not null"`
	Price  decimal.Decimal `gorm:"type:numeric(10,2);not null"`

	User *User `gorm:"foreignKey:UserID"`
	City *City `gorm:"foreignKey:CityID"`
}
