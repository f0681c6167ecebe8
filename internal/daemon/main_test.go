package daemon_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyhub/complyhub/internal/bootstrap"
	"github.com/complyhub/complyhub/internal/config"
	"github.com/complyhub/complyhub/internal/daemon"
	"github.com/complyhub/complyhub/internal/db/controller/setting"
	"github.com/complyhub/complyhub/internal/db/dbtest"
	"github.com/complyhub/complyhub/internal/web/handler/login"
)

func testConfig(cacheTTL time.Duration) *config.Config {
	return &config.Config{
		DevMode: true,
		Webserver: config.Webserver{
			Port: 8080, URL: "http://localhost", LoginRateLimit: 100, LoginRateWindow: time.Minute,
		},
		Token: config.Token{Issuer: "complyhub", TTL: time.Hour},
		Authz: config.Authz{CacheTTL: cacheTTL, CacheBackend: config.CacheBackendMemory},
		Bootstrap: config.Bootstrap{
			CompanyID: 1, AdminUsername: "admin", AdminEmail: "admin@example.com", AdminPassword: "bootstrap pw",
		},
	}
}

func TestNewWithDB(t *testing.T) {
	for _, cacheTTL := range []time.Duration{0, 30 * time.Second} {
		t.Run(cacheTTL.String(), func(t *testing.T) {
			conn := dbtest.New(t)

			d, err := daemon.NewWithDB(testConfig(cacheTTL), conn)
			require.NoError(t, err)

			secret, err := setting.Get(conn, bootstrap.TokenSecretSetting)
			require.NoError(t, err)
			assert.NotEmpty(t, secret.Value)

			req := httptest.NewRequest(fiber.MethodPost, login.Path,
				strings.NewReader(`{"username":"admin","password":"bootstrap pw"}`))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := d.Web().App.Test(req, -1)
			require.NoError(t, err)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
			assert.Contains(t, string(raw), "Can_Create_Role")

			require.NoError(t, d.Close())
		})
	}
}

func TestNewWithDBConfiguredSecret(t *testing.T) {
	conn := dbtest.New(t)

	cfg := testConfig(0)
	cfg.Token.Secret = "configured"

	_, err := daemon.NewWithDB(cfg, conn)
	require.NoError(t, err)

	_, err = setting.Get(conn, bootstrap.TokenSecretSetting)
	assert.ErrorIs(t, err, setting.ErrSettingNotFound)
}

func TestNewNilConfig(t *testing.T) {
	_, err := daemon.New(nil)
	assert.ErrorIs(t, err, config.ErrConfigNil)
}
