// Package handlertest builds seeded API apps for handler tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/bootstrap"
	"github.com/complyhub/complyhub/internal/config"
	"github.com/complyhub/complyhub/internal/db/controller/group"
	"github.com/complyhub/complyhub/internal/db/controller/role"
	"github.com/complyhub/complyhub/internal/db/controller/user"
	"github.com/complyhub/complyhub/internal/db/dbtest"
	"github.com/complyhub/complyhub/internal/db/models"
	"github.com/complyhub/complyhub/internal/token"
	"github.com/complyhub/complyhub/internal/web/handler"
	"github.com/complyhub/complyhub/internal/web/middleware/auth"
)

const (
	// AdminUsername is the seeded superuser holding every privilege of company AdminCompany.
	AdminUsername = "admin"
	// AdminCompany is the company of the seeded superuser.
	AdminCompany uint = 1
	// Password is the password of every user the fixture creates.
	Password = "correct horse"
)

// Fixture is a seeded database with an API app mounting the handlers under test.
type Fixture struct {
	App *fiber.App
	Env *handler.Env
	api fiber.Router
}

// New seeds a database and returns an app with the error handler installed.
func New(t *testing.T) *Fixture {
	t.Helper()

	db := dbtest.New(t)

	require.NoError(t, bootstrap.Seed(db, &config.Bootstrap{
		CompanyID:     AdminCompany,
		AdminUsername: AdminUsername,
		AdminEmail:    AdminUsername + "@example.com",
		AdminPassword: Password,
	}))

	issuer, err := token.New([]byte("handler-test-secret"), "complyhub-test", time.Hour)
	require.NoError(t, err)

	env := &handler.Env{
		Cfg: &config.Config{
			Webserver: config.Webserver{LoginRateLimit: 1000, LoginRateWindow: time.Minute},
		},
		DB:       db,
		Resolver: authz.New(authz.NewGormStore(db)),
		Issuer:   issuer,
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler, UnescapePath: true})

	return &Fixture{
		App: app,
		Env: env,
		api: app.Group(handler.APIPath, auth.Bearer(issuer)),
	}
}

// Mount initializes a public handler on the app root.
func (f *Fixture) Mount(t *testing.T, svc handler.Service) {
	t.Helper()
	require.NoError(t, svc.Init(f.App, f.Env))
}

// MountAPI initializes a handler behind the bearer middleware.
func (f *Fixture) MountAPI(t *testing.T, svc handler.Service) {
	t.Helper()
	require.NoError(t, svc.Init(f.api, f.Env))
}

// DB returns the fixture database.
func (f *Fixture) DB() *gorm.DB {
	return f.Env.DB
}

// AddUser creates an active user in the company holding the privileges through
// a role and group named after the user.
func (f *Fixture) AddUser(t *testing.T, username string, companyID uint, privileges ...string) *models.User {
	t.Helper()

	u := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  models.HashPassword(Password),
		Active:    true,
		CompanyID: companyID,
	}
	require.NoError(t, user.Insert(f.DB(), u))

	if len(privileges) == 0 {
		return u
	}

	roleName, groupName := username+" role", username+" group"

	_, err := role.Create(f.DB(), companyID, roleName, "")
	require.NoError(t, err)

	for _, privilege := range privileges {
		_, err = role.AddSystemFunction(f.DB(), companyID, roleName, privilege)
		require.NoError(t, err)
	}

	_, err = group.Create(f.DB(), companyID, groupName, "")
	require.NoError(t, err)
	_, err = group.AddRole(f.DB(), companyID, groupName, roleName)
	require.NoError(t, err)
	_, err = group.AddUser(f.DB(), companyID, username, groupName)
	require.NoError(t, err)

	return u
}

// Token issues an access token for the username.
func (f *Fixture) Token(t *testing.T, username string) string {
	t.Helper()

	raw, err := f.Env.Issuer.Issue(username)
	require.NoError(t, err)

	return raw
}

// Do sends a request with an optional bearer token and JSON body and returns
// the status code and raw response body.
func (f *Fixture) Do(t *testing.T, method, path, bearer string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}

	resp, err := f.App.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, raw
}

// Decode unmarshals a response body.
func Decode[T any](t *testing.T, raw []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))

	return out
}
