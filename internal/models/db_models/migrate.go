package db_models

import "gorm.io/gorm"

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&MembershipCard{},
		&UserMembership{},
		&City{},
		&Tour{},
		&BonusHistory{},
	)
}
