package bootstrap

import (
	"errors"
	"fmt"

	"github.com/dchest/uniuri"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/config"
	"github.com/complyhub/complyhub/internal/db/controller/setting"
	"github.com/complyhub/complyhub/internal/db/controller/sysfunc"
	"github.com/complyhub/complyhub/internal/db/controller/user"
	"github.com/complyhub/complyhub/internal/db/models"
)

const (
	// TokenSecretSetting names the settings row holding a generated token secret.
	TokenSecretSetting = "token_secret"

	generatedPasswordLen = 20
	generatedSecretLen   = 64
)

// Seed loads the catalog, creates the superuser when missing and provisions its company.
// Every step is skipped when its rows already exist.
func Seed(db *gorm.DB, cfg *config.Bootstrap) error {
	catalog, err := LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	created, err := sysfunc.EnsureCatalog(db, catalog)
	if err != nil {
		return err
	}

	if created > 0 {
		log.Info().Int("created", created).Msg("system function catalog seeded")
	}

	admin, err := ensureAdmin(db, cfg)
	if err != nil {
		return err
	}

	if _, err = Provision(db, admin.CompanyID, admin.Username); err != nil {
		return fmt.Errorf("provision company %d: %w", admin.CompanyID, err)
	}

	return nil
}

func ensureAdmin(db *gorm.DB, cfg *config.Bootstrap) (*models.User, error) {
	var existing models.User

	err := db.Where("username = ?", cfg.AdminUsername).First(&existing).Error
	if err == nil {
		return &existing, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("admin lookup: %w", err)
	}

	password := cfg.AdminPassword
	if password == "" {
		password = uniuri.NewLen(generatedPasswordLen)

		log.Warn().
			Str("user", cfg.AdminUsername).
			Str("password", password).
			Msg("generated superuser password, change it after the first login")
	}

	email := cfg.AdminEmail
	if email == "" {
		email = cfg.AdminUsername + "@localhost"
	}

	admin := models.User{
		Username:    cfg.AdminUsername,
		Email:       email,
		Password:    models.HashPassword(password),
		FirstName:   "Super",
		LastName:    "User",
		Active:      true,
		IsSuperuser: true,
		IsAdmin:     true,
		CompanyID:   cfg.CompanyID,
		CreatedBy:   "bootstrap",
	}

	if err = user.Insert(db, &admin); err != nil {
		return nil, fmt.Errorf("create superuser: %w", err)
	}

	log.Info().Str("user", admin.Username).Uint("company", admin.CompanyID).Msg("superuser created")

	return &admin, nil
}

// TokenSecret returns the configured secret, or a generated one kept in the settings table.
func TokenSecret(db *gorm.DB, cfg *config.Token) ([]byte, error) {
	if cfg.Secret != "" {
		return []byte(cfg.Secret), nil
	}

	s, err := setting.GetOrInit(db, TokenSecretSetting, func() []byte {
		log.Info().Msg("generating token secret")

		return []byte(uniuri.NewLen(generatedSecretLen))
	})
	if err != nil {
		return nil, fmt.Errorf("token secret: %w", err)
	}

	return s.Value, nil
}
