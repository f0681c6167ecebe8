// Package group provides company scoped CRUD for groups, their roles and their members.
package group

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/db/controller"
	"github.com/complyhub/complyhub/internal/db/controller/role"
	"github.com/complyhub/complyhub/internal/db/controller/user"
	"github.com/complyhub/complyhub/internal/db/models"
)

const nameQueryPattern = "name = ?"

var (
	// ErrGroupNotFound is returned when the company has no group with the name.
	ErrGroupNotFound = fmt.Errorf("group %w", controller.ErrNotFound)
	// ErrGroupAlreadyExists is returned when the company already has a group with the name.
	ErrGroupAlreadyExists = fmt.Errorf("group %w", controller.ErrAlreadyExists)
	// ErrGroupNameEmpty is returned for an empty group name.
	ErrGroupNameEmpty = fmt.Errorf("group name %w", controller.ErrInvalidInput)
	// ErrRoleAlreadyInGroup is returned when the group already holds the role.
	ErrRoleAlreadyInGroup = fmt.Errorf("role already in group: %w", controller.ErrAlreadyExists)
	// ErrUserAlreadyInGroup is returned when the user already is a member of the group.
	ErrUserAlreadyInGroup = fmt.Errorf("user already in group: %w", controller.ErrAlreadyExists)
)

// Detail is a group with the names of its roles and members.
type Detail struct {
	models.Group
	Roles   []string `json:"roles"`
	Members []string `json:"members"`
}

// List returns the groups of a company ordered by name.
func List(db *gorm.DB, companyID uint) ([]models.Group, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var groups []models.Group
	if err := db.Scopes(models.InCompany(companyID)).Order("name").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	return groups, nil
}

// Get returns a group of the company by name.
func Get(db *gorm.DB, companyID uint, name string) (*models.Group, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if name == "" {
		return nil, ErrGroupNameEmpty
	}

	var group models.Group

	err := db.Scopes(models.InCompany(companyID)).Where(nameQueryPattern, name).First(&group).Error
	if err != nil {
		return nil, controller.Translate(err, ErrGroupNotFound, err)
	}

	return &group, nil
}

// GetDetail returns a group with its role names and member usernames.
func GetDetail(db *gorm.DB, companyID uint, name string) (*Detail, error) {
	group, err := Get(db, companyID, name)
	if err != nil {
		return nil, err
	}

	detail := Detail{Group: *group, Roles: []string{}, Members: []string{}}

	err = db.Model(&models.Role{}).
		Joins("JOIN group_roles ON group_roles.role_id = roles.id").
		Where("group_roles.group_id = ? AND group_roles.company_id = ?", group.ID, companyID).
		Order("roles.name").
		Pluck("roles.name", &detail.Roles).Error
	if err != nil {
		return nil, fmt.Errorf("group roles: %w", err)
	}

	err = db.Model(&models.User{}).
		Joins("JOIN group_users ON group_users.user_id = users.id").
		Where("group_users.group_id = ? AND group_users.company_id = ?", group.ID, companyID).
		Order("users.username").
		Pluck("users.username", &detail.Members).Error
	if err != nil {
		return nil, fmt.Errorf("group members: %w", err)
	}

	return &detail, nil
}

// Create adds a group to the company. The name must be free inside the company.
func Create(db *gorm.DB, companyID uint, name, description string) (*models.Group, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if name == "" {
		return nil, ErrGroupNameEmpty
	}

	group := models.Group{Name: name, Description: description, CompanyID: companyID}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Group{}).Scopes(models.InCompany(companyID)).
			Where(nameQueryPattern, name).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrGroupAlreadyExists
		}

		return tx.Create(&group).Error
	})
	if err != nil {
		if errors.Is(err, ErrGroupAlreadyExists) {
			return nil, err
		}

		return nil, controller.Translate(err, ErrGroupNotFound, ErrGroupAlreadyExists)
	}

	return &group, nil
}

// Update renames a group and/or changes its description. Empty values keep the current one.
func Update(db *gorm.DB, companyID uint, name, newName, description string) (*models.Group, error) {
	group, err := Get(db, companyID, name)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if newName != "" && newName != group.Name {
		updates["name"] = newName
	}

	if description != "" {
		updates["description"] = description
	}

	if len(updates) == 0 {
		return group, nil
	}

	if err = db.Model(group).Updates(updates).Error; err != nil {
		return nil, controller.Translate(err, ErrGroupNotFound, ErrGroupAlreadyExists)
	}

	if newName != "" {
		group.Name = newName
	}

	if description != "" {
		group.Description = description
	}

	return group, nil
}

// Delete removes a group of the company together with its role bindings and memberships.
func Delete(db *gorm.DB, companyID uint, name string) error {
	group, err := Get(db, companyID, name)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		inCompany := models.InCompany(companyID)

		if err := tx.Scopes(inCompany).Where("group_id = ?", group.ID).Delete(&models.GroupRole{}).Error; err != nil {
			return err
		}

		if err := tx.Scopes(inCompany).Where("group_id = ?", group.ID).Delete(&models.GroupUser{}).Error; err != nil {
			return err
		}

		return tx.Delete(group).Error
	})
	if err != nil {
		return fmt.Errorf("delete group %s: %w", name, err)
	}

	return nil
}

// AddRole binds a role to a group, both looked up inside the company.
func AddRole(db *gorm.DB, companyID uint, groupName, roleName string) (*models.GroupRole, error) {
	group, err := Get(db, companyID, groupName)
	if err != nil {
		return nil, err
	}

	r, err := role.Get(db, companyID, roleName)
	if err != nil {
		return nil, err
	}

	return BindRole(db, companyID, group.ID, r.ID)
}

// BindRole inserts the group role row if it does not exist yet.
func BindRole(db *gorm.DB, companyID, groupID, roleID uint) (*models.GroupRole, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	binding := models.GroupRole{GroupID: groupID, RoleID: roleID, CompanyID: companyID}

	err := insertUnique(db, companyID, &binding, ErrRoleAlreadyInGroup,
		"group_id = ? AND role_id = ?", groupID, roleID)
	if err != nil {
		return nil, err
	}

	return &binding, nil
}

// AddUser makes a user of the company a member of a group of the same company.
func AddUser(db *gorm.DB, companyID uint, username, groupName string) (*models.GroupUser, error) {
	group, err := Get(db, companyID, groupName)
	if err != nil {
		return nil, err
	}

	u, err := user.Get(db, companyID, username)
	if err != nil {
		return nil, err
	}

	return BindUser(db, companyID, group.ID, u.ID)
}

// BindUser inserts the group user row if it does not exist yet.
func BindUser(db *gorm.DB, companyID, groupID uint, userID uint64) (*models.GroupUser, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	membership := models.GroupUser{GroupID: groupID, UserID: userID, CompanyID: companyID}

	err := insertUnique(db, companyID, &membership, ErrUserAlreadyInGroup,
		"group_id = ? AND user_id = ?", groupID, userID)
	if err != nil {
		return nil, err
	}

	return &membership, nil
}

// insertUnique checks for an existing join row and inserts inside one transaction.
// The composite unique index settles concurrent inserts of the same row.
func insertUnique(db *gorm.DB, companyID uint, row any, duplicate error, query string, args ...any) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(row).Scopes(models.InCompany(companyID)).
			Where(query, args...).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return duplicate
		}

		return tx.Create(row).Error
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, duplicate):
		return err
	default:
		return controller.Translate(err, ErrGroupNotFound, duplicate)
	}
}
