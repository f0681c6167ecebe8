// Package sysfunc provides the read only system function endpoints of the API.
package sysfunc

import (
	"github.com/gofiber/fiber/v2"

	"github.com/complyhub/complyhub/internal/authz"
	sysfunccontroller "github.com/complyhub/complyhub/internal/db/controller/sysfunc"
	"github.com/complyhub/complyhub/internal/web/handler"
	"github.com/complyhub/complyhub/internal/web/middleware/auth"
)

// Path is the base path for system functions, relative to the API group.
const Path = handler.RootPath + "system_functions"

// Service lists the active system function catalog.
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
		router.Get(handler.RootPath, auth.RequirePrivilege(r, authz.CanViewSystemFunctions), s.List)
		router.Get("/:name", auth.RequirePrivilege(r, authz.CanViewSystemFunction), s.Get)
	})

	return nil
}

// List returns every active system function.
func (s *Service) List(c *fiber.Ctx) error {
	functions, err := sysfunccontroller.List(s.env.DB)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(functions)
}

// Get returns an active system function.
func (s *Service) Get(c *fiber.Ctx) error {
	function, err := sysfunccontroller.GetActive(s.env.DB, c.Params("name"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(function)
}
