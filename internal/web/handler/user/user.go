// Package user provides the user endpoints of the API.
package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/complyhub/complyhub/internal/authz"
	usercontroller "github.com/complyhub/complyhub/internal/db/controller/user"
	"github.com/complyhub/complyhub/internal/web/handler"
	"github.com/complyhub/complyhub/internal/web/middleware/auth"
)

// Path is the base path for user management, relative to the API group.
const Path = handler.RootPath + "user"

// Profile holds the optional descriptive fields of a user.
type Profile struct {
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Gender    string `json:"gender" validate:"max=20"`
	Phone     string `json:"phone" validate:"max=30"`
	Address   string `json:"address" validate:"max=255"`
}

// CreateRequest is the body of a user creation.
type CreateRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	IsAdmin  bool   `json:"is_admin"`
	Profile
}

// UpdateRequest is the body of a user update. Empty fields are left unchanged.
type UpdateRequest struct {
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"omitempty,min=8"`
	IsAdmin  *bool  `json:"is_admin"`
	Profile
}

func (p Profile) controller() usercontroller.Profile {
	return usercontroller.Profile{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Gender:    p.Gender,
		Phone:     p.Phone,
		Address:   p.Address,
	}
}

func (r *UpdateRequest) input() usercontroller.UpdateInput {
	return usercontroller.UpdateInput{
		Email:    r.Email,
		Password: r.Password,
		IsAdmin:  r.IsAdmin,
		Profile:  r.Profile.controller(),
	}
}

// Service provides CRUD operations for users.
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
		router.Post(handler.RootPath, auth.RequirePrivilege(r, authz.CanCreateUser), s.Create)
		router.Get(handler.RootPath, auth.RequirePrivilege(r, authz.CanViewUsers), s.List)
		router.Put(handler.RootPath, auth.RequirePrivilege(r, authz.CanUpdateUser), s.UpdateSelf)
		router.Get("/:username", auth.RequirePrivilege(r, authz.CanViewUser), s.Get)
		router.Put("/:username", auth.RequirePrivilege(r, authz.CanUpdateUserToAdmin), s.UpdateMember)
		router.Delete("/:username", auth.RequirePrivilege(r, authz.CanDeleteUser), s.Delete)
	})

	return nil
}

// Create registers a user in the caller's company.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(CreateRequest)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	principal := auth.Principal(c)

	created, err := usercontroller.Create(s.env.DB, principal.User, usercontroller.CreateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
		Profile:  req.Profile.controller(),
	})
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", principal.User.Username).Str("created", created.Username).
		Uint("company", created.CompanyID).Msg("user created")

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Get returns a user of the caller's company.
func (s *Service) Get(c *fiber.Ctx) error {
	u, err := usercontroller.Get(s.env.DB, auth.Principal(c).User.CompanyID, c.Params("username"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(u)
}

// List returns the users of the caller's company.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := usercontroller.List(s.env.DB, auth.Principal(c).User.CompanyID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(users)
}

// UpdateSelf changes the caller's own profile, email or password.
func (s *Service) UpdateSelf(c *fiber.Ctx) error {
	req := new(UpdateRequest)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	u, err := usercontroller.UpdateSelf(s.env.DB, auth.Principal(c).User, req.input())
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(u)
}

// UpdateMember changes a user of the caller's company, including its admin flag.
func (s *Service) UpdateMember(c *fiber.Ctx) error {
	req := new(UpdateRequest)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	principal := auth.Principal(c)

	u, err := usercontroller.UpdateMember(s.env.DB, principal.User.CompanyID, c.Params("username"), req.input())
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", principal.User.Username).Str("updated", u.Username).Bool("is_admin", u.IsAdmin).
		Msg("user updated")

	return c.JSON(u)
}

// Delete deactivates a user of the caller's company.
func (s *Service) Delete(c *fiber.Ctx) error {
	principal := auth.Principal(c)

	u, err := usercontroller.Deactivate(s.env.DB, principal.User.CompanyID, c.Params("username"))
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", principal.User.Username).Str("deactivated", u.Username).Msg("user deactivated")

	return c.JSON(u)
}
