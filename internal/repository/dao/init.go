package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Group{},
		&Mission{},
		&MissionOption{},
		&MissionCompletion{},
		&PointsBalance{},
		&Prize{},
		&PrizeRedemption{},
		&Post{},
		&Comment{},
		&Reaction{},
		&MediaFile{},
		&Product{},
	)
}
