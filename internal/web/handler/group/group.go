// Package group provides the group endpoints of the API.
package group

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/complyhub/complyhub/internal/authz"
	groupcontroller "github.com/complyhub/complyhub/internal/db/controller/group"
	"github.com/complyhub/complyhub/internal/web/handler"
	"github.com/complyhub/complyhub/internal/web/middleware/auth"
)

// Path is the base path for groups, relative to the API group.
const Path = handler.RootPath + "groups"

// Request is the body of a group creation or update.
type Request struct {
	Name        string `json:"group_name" validate:"max=100"`
	Description string `json:"description" validate:"max=255"`
}

// AddRoleRequest names the role bound to a group.
type AddRoleRequest struct {
	RoleName string `json:"role_name" validate:"required"`
}

// AddUserRequest names the group a user joins.
type AddUserRequest struct {
	GroupName string `json:"group_name" validate:"required"`
}

// Service provides CRUD operations for groups of the caller's company.
type Service struct {
	handler.Service
	env *handler.Env
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, env *handler.Env) error {
	if router == nil || !env.Valid() {
		return handler.ErrNilEnv
	}

	s.env = env
	r := env.Resolver

	router.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, auth.RequirePrivilege(r, authz.CanViewGroups), s.List)
		router.Post(handler.RootPath, auth.RequirePrivilege(r, authz.CanCreateGroup), s.Create)
		router.Post("/add_user/:username", auth.RequirePrivilege(r, authz.CanAddUserToGroup), s.AddUser)
		router.Get("/:name", auth.RequirePrivilege(r, authz.CanViewGroup), s.Get)
		router.Put("/:name", auth.RequirePrivilege(r, authz.CanUpdateGroup), s.Update)
		router.Delete("/:name", auth.RequirePrivilege(r, authz.CanDeleteGroup), s.Delete)
		router.Post("/:name", auth.RequirePrivilege(r, authz.CanAddRoleToGroup), s.AddRole)
	})

	return nil
}

// List returns the groups of the caller's company.
func (s *Service) List(c *fiber.Ctx) error {
	groups, err := groupcontroller.List(s.env.DB, auth.Principal(c).User.CompanyID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(groups)
}

// Get returns a group with its roles and members.
func (s *Service) Get(c *fiber.Ctx) error {
	detail, err := groupcontroller.GetDetail(s.env.DB, auth.Principal(c).User.CompanyID, c.Params("name"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(detail)
}

// Create adds a group to the caller's company.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(Request)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	principal := auth.Principal(c)

	created, err := groupcontroller.Create(s.env.DB, principal.User.CompanyID, req.Name, req.Description)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", principal.User.Username).Str("group", created.Name).Msg("group created")

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update renames a group or changes its description.
func (s *Service) Update(c *fiber.Ctx) error {
	req := new(Request)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	updated, err := groupcontroller.Update(
		s.env.DB, auth.Principal(c).User.CompanyID, c.Params("name"), req.Name, req.Description,
	)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(updated)
}

// Delete removes a group with its role bindings and memberships.
func (s *Service) Delete(c *fiber.Ctx) error {
	principal := auth.Principal(c)
	name := c.Params("name")

	if err := groupcontroller.Delete(s.env.DB, principal.User.CompanyID, name); err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", principal.User.Username).Str("group", name).Msg("group deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// AddRole binds a role of the caller's company to a group.
func (s *Service) AddRole(c *fiber.Ctx) error {
	req := new(AddRoleRequest)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	principal := auth.Principal(c)
	name := c.Params("name")

	bound, err := groupcontroller.AddRole(s.env.DB, principal.User.CompanyID, name, req.RoleName)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", principal.User.Username).Str("group", name).Str("role", req.RoleName).
		Msg("role added to group")

	return c.Status(fiber.StatusCreated).JSON(bound)
}

// AddUser adds a user of the caller's company to a group.
func (s *Service) AddUser(c *fiber.Ctx) error {
	req := new(AddUserRequest)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	principal := auth.Principal(c)
	username := c.Params("username")

	member, err := groupcontroller.AddUser(s.env.DB, principal.User.CompanyID, username, req.GroupName)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", principal.User.Username).Str("group", req.GroupName).Str("member", username).
		Msg("user added to group")

	return c.Status(fiber.StatusCreated).JSON(member)
}
