package models

import "time"

// Group is a named collection of users owned by exactly one company.
// Roles bound to a group are granted to all of its members.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is unique within the owning company.
	Name string `gorm:"size:100;not null;uniqueIndex:idx_group_company_name" json:"group_name"`
	// Description provides a human-readable explanation of the group's purpose.
	Description string `gorm:"size:255" json:"description"`
	// CompanyID is the owning tenant.
	CompanyID uint `gorm:"not null;uniqueIndex:idx_group_company_name" json:"company_id"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Group model.
func (Group) TableName() string {
	return "groups"
}
