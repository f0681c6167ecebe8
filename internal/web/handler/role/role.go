// Package role provides the role endpoints of the API.
package role

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/complyhub/complyhub/internal/authz"
	rolecontroller "github.com/complyhub/complyhub/internal/db/controller/role"
	"github.com/complyhub/complyhub/internal/web/handler"
	"github.com/complyhub/complyhub/internal/web/middleware/auth"
)

// Path is the base path for roles, relative to the API group.
const Path = handler.RootPath + "roles"

// Request is the body of a role creation or update.
type Request struct {
	Name        string `json:"role_name" validate:"max=100"`
	Description string `json:"description" validate:"max=255"`
}

// AddFunctionRequest names the system function granted to a role.
type AddFunctionRequest struct {
	FuncName string `json:"func_name" validate:"required"`
}

// Service provides CRUD operations for roles of the caller's company.
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
		router.Get(handler.RootPath, auth.RequirePrivilege(r, authz.CanViewRoles), s.List)
		router.Post(handler.RootPath, auth.RequirePrivilege(r, authz.CanCreateRole), s.Create)
		router.Get("/:name", auth.RequirePrivilege(r, authz.CanViewRole), s.Get)
		router.Put("/:name", auth.RequirePrivilege(r, authz.CanUpdateRole), s.Update)
		router.Delete("/:name", auth.RequirePrivilege(r, authz.CanDeleteRole), s.Delete)
		router.Post("/:name", auth.RequirePrivilege(r, authz.CanAddSystemFunctionToRole), s.AddSystemFunction)
	})

	return nil
}

// List returns the roles of the caller's company.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := rolecontroller.List(s.env.DB, auth.Principal(c).User.CompanyID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(roles)
}

// Get returns a role with the system functions it grants.
func (s *Service) Get(c *fiber.Ctx) error {
	detail, err := rolecontroller.GetDetail(s.env.DB, auth.Principal(c).User.CompanyID, c.Params("name"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(detail)
}

// Create adds a role to the caller's company.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(Request)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	principal := auth.Principal(c)

	created, err := rolecontroller.Create(s.env.DB, principal.User.CompanyID, req.Name, req.Description)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", principal.User.Username).Str("role", created.Name).Msg("role created")

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update renames a role or changes its description.
func (s *Service) Update(c *fiber.Ctx) error {
	req := new(Request)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	updated, err := rolecontroller.Update(
		s.env.DB, auth.Principal(c).User.CompanyID, c.Params("name"), req.Name, req.Description,
	)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(updated)
}

// Delete removes a role and its privilege and group bindings.
func (s *Service) Delete(c *fiber.Ctx) error {
	principal := auth.Principal(c)
	name := c.Params("name")

	if err := rolecontroller.Delete(s.env.DB, principal.User.CompanyID, name); err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", principal.User.Username).Str("role", name).Msg("role deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// AddSystemFunction grants an active system function to a role.
func (s *Service) AddSystemFunction(c *fiber.Ctx) error {
	req := new(AddFunctionRequest)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	principal := auth.Principal(c)
	name := c.Params("name")

	granted, err := rolecontroller.AddSystemFunction(s.env.DB, principal.User.CompanyID, name, req.FuncName)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", principal.User.Username).Str("role", name).Str("function", req.FuncName).
		Msg("system function granted")

	return c.Status(fiber.StatusCreated).JSON(granted)
}
