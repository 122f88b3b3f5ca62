package db_models

type City struct {
	BaseModel
	Name    string `gorm:"size:100;not null"`
	Country string `gorm:"size:100"`
	// Base tour price in this city; 0 is a valid promotional price.
	Price int64 `gorm:"not null;default:0"`
}
