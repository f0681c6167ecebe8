package models

import "time"

// Role is a named collection of privileges owned by exactly one company.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is unique within the owning company.
	Name string `gorm:"size:100;not null;uniqueIndex:idx_role_company_name" json:"role_name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255" json:"description"`
	// CompanyID is the owning tenant.
	CompanyID uint `gorm:"not null;uniqueIndex:idx_role_company_name" json:"company_id"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
