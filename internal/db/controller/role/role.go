// Package role provides company scoped CRUD for roles and their privileges.
package role

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/db/controller"
	"github.com/complyhub/complyhub/internal/db/controller/sysfunc"
	"github.com/complyhub/complyhub/internal/db/models"
)

const nameQueryPattern = "name = ?"

var (
	// ErrRoleNotFound is returned when the company has no role with the name.
	ErrRoleNotFound = fmt.Errorf("role %w", controller.ErrNotFound)
	// ErrRoleAlreadyExists is returned when the company already has a role with the name.
	ErrRoleAlreadyExists = fmt.Errorf("role %w", controller.ErrAlreadyExists)
	// ErrRoleNameEmpty is returned for an empty role name.
	ErrRoleNameEmpty = fmt.Errorf("role name %w", controller.ErrInvalidInput)
	// ErrPrivilegeAlreadyAssigned is returned when the role already holds the system function.
	ErrPrivilegeAlreadyAssigned = fmt.Errorf("system function already assigned to role: %w", controller.ErrAlreadyExists)
)

// Detail is a role with the names of the system functions it grants.
type Detail struct {
	models.Role
	Functions []string `json:"system_functions"`
}

// List returns the roles of a company ordered by name.
func List(db *gorm.DB, companyID uint) ([]models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var roles []models.Role
	if err := db.Scopes(models.InCompany(companyID)).Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

// Get returns a role of the company by name.
func Get(db *gorm.DB, companyID uint, name string) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var role models.Role

	err := db.Scopes(models.InCompany(companyID)).Where(nameQueryPattern, name).First(&role).Error
	if err != nil {
		return nil, controller.Translate(err, ErrRoleNotFound, err)
	}

	return &role, nil
}

// GetDetail returns a role with the system functions it grants.
func GetDetail(db *gorm.DB, companyID uint, name string) (*Detail, error) {
	role, err := Get(db, companyID, name)
	if err != nil {
		return nil, err
	}

	detail := Detail{Role: *role, Functions: []string{}}

	err = db.Model(&models.SystemFunction{}).
		Joins("JOIN role_privileges ON role_privileges.system_function_id = system_functions.id").
		Where("role_privileges.role_id = ? AND role_privileges.company_id = ?", role.ID, companyID).
		Order("system_functions.name").
		Pluck("system_functions.name", &detail.Functions).Error
	if err != nil {
		return nil, fmt.Errorf("role functions: %w", err)
	}

	return &detail, nil
}

// Create adds a role to the company. The name must be free inside the company.
func Create(db *gorm.DB, companyID uint, name, description string) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	role := models.Role{Name: name, Description: description, CompanyID: companyID}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Role{}).Scopes(models.InCompany(companyID)).
			Where(nameQueryPattern, name).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrRoleAlreadyExists
		}

		return tx.Create(&role).Error
	})
	if err != nil {
		if errors.Is(err, ErrRoleAlreadyExists) {
			return nil, err
		}

		return nil, controller.Translate(err, ErrRoleNotFound, ErrRoleAlreadyExists)
	}

	return &role, nil
}

// Update renames a role and/or changes its description. Empty values keep the current one.
func Update(db *gorm.DB, companyID uint, name, newName, description string) (*models.Role, error) {
	role, err := Get(db, companyID, name)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if newName != "" && newName != role.Name {
		updates["name"] = newName
	}

	if description != "" {
		updates["description"] = description
	}

	if len(updates) == 0 {
		return role, nil
	}

	// a rename onto an existing role is caught by the unique index.
	if err = db.Model(role).Updates(updates).Error; err != nil {
		return nil, controller.Translate(err, ErrRoleNotFound, ErrRoleAlreadyExists)
	}

	if newName != "" {
		role.Name = newName
	}

	if description != "" {
		role.Description = description
	}

	return role, nil
}

// Delete removes a role of the company together with its privileges and group bindings.
func Delete(db *gorm.DB, companyID uint, name string) error {
	role, err := Get(db, companyID, name)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		inCompany := models.InCompany(companyID)

		if err := tx.Scopes(inCompany).Where("role_id = ?", role.ID).Delete(&models.RolePrivilege{}).Error; err != nil {
			return err
		}

		if err := tx.Scopes(inCompany).Where("role_id = ?", role.ID).Delete(&models.GroupRole{}).Error; err != nil {
			return err
		}

		return tx.Delete(role).Error
	})
	if err != nil {
		return fmt.Errorf("delete role %s: %w", name, err)
	}

	return nil
}

// AddSystemFunction grants an active system function to a role of the company.
func AddSystemFunction(db *gorm.DB, companyID uint, roleName, funcName string) (*models.RolePrivilege, error) {
	role, err := Get(db, companyID, roleName)
	if err != nil {
		return nil, err
	}

	function, err := sysfunc.GetActive(db, funcName)
	if err != nil {
		return nil, err
	}

	return Grant(db, companyID, role.ID, function.ID)
}

// Grant binds a system function id to a role id. The existence check and the insert share
// one transaction; the composite unique index settles concurrent inserts.
func Grant(db *gorm.DB, companyID, roleID, functionID uint) (*models.RolePrivilege, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	privilege := models.RolePrivilege{RoleID: roleID, SystemFunctionID: functionID, CompanyID: companyID}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.RolePrivilege{}).Scopes(models.InCompany(companyID)).
			Where("role_id = ? AND system_function_id = ?", roleID, functionID).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrPrivilegeAlreadyAssigned
		}

		return tx.Create(&privilege).Error
	})
	if err != nil {
		if errors.Is(err, ErrPrivilegeAlreadyAssigned) {
			return nil, err
		}

		return nil, controller.Translate(err, ErrRoleNotFound, ErrPrivilegeAlreadyAssigned)
	}

	return &privilege, nil
}
