package models

import "time"

// RolePrivilege binds one Role to one SystemFunction inside a company.
// The composite unique index rejects a second binding of the same triple.
type RolePrivilege struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	RoleID           uint      `gorm:"not null;uniqueIndex:idx_role_privilege" json:"role_id"`
	SystemFunctionID uint      `gorm:"not null;uniqueIndex:idx_role_privilege" json:"system_function_id"`
	CompanyID        uint      `gorm:"not null;uniqueIndex:idx_role_privilege;index" json:"company_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the RolePrivilege model.
func (RolePrivilege) TableName() string {
	return "role_privileges"
}
