package models

import "time"

// GroupUser is the membership of one User in one Group inside a company.
type GroupUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_group_user" json:"group_id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_group_user;index" json:"user_id"`
	CompanyID uint      `gorm:"not null;uniqueIndex:idx_group_user" json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the GroupUser model.
func (GroupUser) TableName() string {
	return "group_users"
}
