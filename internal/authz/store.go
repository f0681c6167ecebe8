package authz

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/db/models"
)

// Store reads the authorization tables.
type Store interface {
	// UserByUsername returns the user whatever its active flag, or ErrUserNotFound.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// ActiveFunctionByName returns an active system function, or ErrFunctionNotFound.
	ActiveFunctionByName(ctx context.Context, name string) (*models.SystemFunction, error)
	// Graph loads the memberships of one user, every row filtered by company.
	Graph(ctx context.Context, userID uint64, companyID uint) (Graph, error)
	// ActiveFunctionNames maps function ids to the names of the active ones.
	ActiveFunctionNames(ctx context.Context, ids []uint) ([]string, error)
}

// GormStore implements Store on a gorm handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store reading through db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// UserByUsername implements Store.
func (s *GormStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User

	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("user lookup: %w", err)
	}

	return &u, nil
}

// ActiveFunctionByName implements Store.
func (s *GormStore) ActiveFunctionByName(ctx context.Context, name string) (*models.SystemFunction, error) {
	var function models.SystemFunction

	err := s.db.WithContext(ctx).Where("name = ? AND active = ?", name, true).First(&function).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFunctionNotFound
		}

		return nil, fmt.Errorf("system function lookup: %w", err)
	}

	return &function, nil
}

// Graph implements Store with one query per level.
func (s *GormStore) Graph(ctx context.Context, userID uint64, companyID uint) (Graph, error) {
	g := NewGraph()
	db := s.db.WithContext(ctx)
	inCompany := models.InCompany(companyID)

	var memberships []models.GroupUser
	if err := db.Scopes(inCompany).Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return g, fmt.Errorf("group users: %w", err)
	}

	if len(memberships) == 0 {
		return g, nil
	}

	groupIDs := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		g.LinkUser(m.UserID, m.GroupID)
		groupIDs = append(groupIDs, m.GroupID)
	}

	var bindings []models.GroupRole
	if err := db.Scopes(inCompany).Where("group_id IN ?", groupIDs).Find(&bindings).Error; err != nil {
		return g, fmt.Errorf("group roles: %w", err)
	}

	if len(bindings) == 0 {
		return g, nil
	}

	roleIDs := make([]uint, 0, len(bindings))
	for _, b := range bindings {
		g.LinkRole(b.GroupID, b.RoleID)
		roleIDs = append(roleIDs, b.RoleID)
	}

	var privileges []models.RolePrivilege
	if err := db.Scopes(inCompany).Where("role_id IN ?", roleIDs).Find(&privileges).Error; err != nil {
		return g, fmt.Errorf("role privileges: %w", err)
	}

	for _, p := range privileges {
		g.LinkFunction(p.RoleID, p.SystemFunctionID)
	}

	return g, nil
}

// ActiveFunctionNames implements Store.
func (s *GormStore) ActiveFunctionNames(ctx context.Context, ids []uint) ([]string, error) {
	names := []string{}
	if len(ids) == 0 {
		return names, nil
	}

	err := s.db.WithContext(ctx).Model(&models.SystemFunction{}).
		Where("id IN ? AND active = ?", ids, true).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("system function names: %w", err)
	}

	return names, nil
}
