package models

import "time"

// SystemFunction is a named capability gating one action, e.g. "Can_Create_Role".
// System functions are global (not company scoped), seeded from the catalog at startup,
// never deleted and only ever deactivated.
type SystemFunction struct {
	// ID is the unique identifier for the system function.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique privilege name handlers ask for.
	Name string `gorm:"uniqueIndex;size:100;not null" json:"func_name"`
	// Description provides a human-readable explanation of the capability.
	Description string `gorm:"size:255" json:"description"`
	// Active is false for deactivated functions; inactive functions grant nothing.
	Active bool `gorm:"not null" json:"is_active"`
	// CreatedAt is the timestamp when the function was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the function was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the SystemFunction model.
func (SystemFunction) TableName() string {
	return "system_functions"
}
