// Package web serves the JSON API.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	fiberlogger "github.com/complyhub/complyhub/internal/logger/adapter/fiber"
	"github.com/complyhub/complyhub/internal/web/handler"
	"github.com/complyhub/complyhub/internal/web/handler/group"
	"github.com/complyhub/complyhub/internal/web/handler/login"
	"github.com/complyhub/complyhub/internal/web/handler/role"
	"github.com/complyhub/complyhub/internal/web/handler/sysfunc"
	"github.com/complyhub/complyhub/internal/web/handler/user"
	"github.com/complyhub/complyhub/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic and 503 during shutdown.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"

	defaultAppName = "complyhub"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	env          *handler.Env
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown reports 503 on checkalive for the configured time, then stops the server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.env.Cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.env.Cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given handler dependencies.
func New(env *handler.Env) *Service {
	if !env.Valid() {
		panic(handler.ErrNilEnvFatalLogMsg)
	}

	cfg := env.Cfg

	appName := cfg.Title
	if appName == "" {
		appName = defaultAppName
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        appName,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			UnescapePath:   true,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		PrincipalKey:  handler.LocalsUsername,
	}))

	service := &Service{
		App:          app,
		env:          env,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	if err := (&login.Service{}).Init(app, env); err != nil {
		log.Fatal().Err(err).Msg("login handler")
	}

	api := app.Group(handler.APIPath, auth.Bearer(env.Issuer))

	for _, h := range []handler.Service{
		&user.Service{},
		&role.Service{},
		&group.Service{},
		&sysfunc.Service{},
	} {
		if err := h.Init(api, env); err != nil {
			log.Fatal().Err(err).Msg("api handler")
		}
	}

	return service
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}
