package models

import "gorm.io/gorm"

// InCompany limits a query to rows of one company.
func InCompany(companyID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
