package model

import "gorm.io/gorm"

// Migrate creates or updates every table owned by the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Product{}, &StockTransaction{}, &StockLine{})
}
