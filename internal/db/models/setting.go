// Package models contains database model definitions.
package models

// Setting is a named value persisted by the application itself,
// e.g. the generated token signing secret.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;size:100"`
	Value []byte
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}

// All returns every model managed by the schema migration, in creation order.
func All() []any {
	return []any{
		&Setting{},
		&SystemFunction{},
		&User{},
		&Role{},
		&Group{},
		&RolePrivilege{},
		&GroupRole{},
		&GroupUser{},
	}
}
