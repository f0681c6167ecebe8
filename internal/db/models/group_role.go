package models

import "time"

// GroupRole binds one Group to one Role inside a company.
type GroupRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_group_role" json:"group_id"`
	RoleID    uint      `gorm:"not null;uniqueIndex:idx_group_role" json:"role_id"`
	CompanyID uint      `gorm:"not null;uniqueIndex:idx_group_role;index" json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the GroupRole model.
func (GroupRole) TableName() string {
	return "group_roles"
}
