package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/config"
	"github.com/complyhub/complyhub/internal/token"
)

// Env carries the dependencies shared by every handler.
type Env struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Resolver *authz.Resolver
	Issuer   *token.Issuer
}

// Valid reports whether every dependency is set.
func (e *Env) Valid() bool {
	return e != nil && e.Cfg != nil && e.DB != nil && e.Resolver != nil && e.Issuer != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, env *Env) error
}
