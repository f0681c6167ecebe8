package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/rs/zerolog/log"

	"github.com/complyhub/complyhub/internal/db/controller"
	"github.com/complyhub/complyhub/internal/db/controller/user"
	"github.com/complyhub/complyhub/internal/web/handler"
)

const (
	// Path is the path to the login endpoint.
	Path = "/login"

	// TokenType is returned with every access token.
	TokenType = "bearer"
)

// Request is the login body, accepted as JSON or form.
type Request struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Response carries the issued token and the privileges of the user.
type Response struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	Privileges  []string `json:"privileges"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	env *handler.Env
}

// Init registers the rate limited login route.
func (s *Service) Init(router fiber.Router, env *handler.Env) error {
	if router == nil || !env.Valid() {
		return handler.ErrNilEnv
	}

	s.env = env

	router.Post(Path, limiter.New(limiter.Config{
		Max:        env.Cfg.Webserver.LoginRateLimit,
		Expiration: env.Cfg.Webserver.LoginRateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(handler.Detail{Detail: "Too many login attempts"})
		},
	}), s.Post)

	return nil
}

// Post verifies the credentials and issues an access token.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)
	if err := handler.Bind(c, req); err != nil {
		return handler.Error(c, err)
	}

	dbUser, err := user.GetByLogin(s.env.DB, req.Username)
	if err != nil {
		if !errors.Is(err, controller.ErrNotFound) {
			return handler.Error(c, err)
		}

		return s.reject(c, req.Username, "unknown user")
	}

	if !dbUser.Active {
		return s.reject(c, req.Username, "inactive user")
	}

	if !dbUser.VerifyPassword(req.Password) {
		return s.reject(c, req.Username, "password mismatch")
	}

	privileges, err := s.env.Resolver.PrivilegeNames(c.UserContext(), dbUser.Username)
	if err != nil {
		return handler.Error(c, err)
	}

	accessToken, err := s.env.Issuer.Issue(dbUser.Username)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("user", dbUser.Username).Uint("company", dbUser.CompanyID).Msg("login")

	return c.JSON(Response{
		AccessToken: accessToken,
		TokenType:   TokenType,
		ExpiresIn:   int64(s.env.Issuer.TTL().Seconds()),
		Privileges:  privileges,
	})
}

func (s *Service) reject(c *fiber.Ctx, login, why string) error {
	log.Info().Str("login", login).Str("ip", c.IP()).Str("reason", why).Msg("login refused")

	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")

	return c.Status(fiber.StatusUnauthorized).JSON(handler.Detail{Detail: DetailInvalidCredentials})
}
