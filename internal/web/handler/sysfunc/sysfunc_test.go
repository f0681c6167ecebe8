package sysfunc_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyhub/complyhub/internal/authz"
	sysfunccontroller "github.com/complyhub/complyhub/internal/db/controller/sysfunc"
	"github.com/complyhub/complyhub/internal/db/models"
	"github.com/complyhub/complyhub/internal/web/handler"
	"github.com/complyhub/complyhub/internal/web/handler/handlertest"
	"github.com/complyhub/complyhub/internal/web/handler/sysfunc"
)

const base = handler.APIPath + sysfunc.Path

func TestListAndGet(t *testing.T) {
	f := handlertest.New(t)
	f.MountAPI(t, &sysfunc.Service{})
	f.AddUser(t, "alice", 7, authz.CanViewSystemFunctions, authz.CanViewSystemFunction)

	require.NoError(t, sysfunccontroller.SetActive(f.DB(), authz.CanDeleteGroup, false))

	alice := f.Token(t, "alice")

	status, raw := f.Do(t, fiber.MethodGet, base, alice, nil)
	require.Equal(t, fiber.StatusOK, status)

	var names []string
	for _, function := range handlertest.Decode[[]models.SystemFunction](t, raw) {
		assert.True(t, function.Active)
		names = append(names, function.Name)
	}

	assert.Contains(t, names, authz.CanCreateRole)
	assert.NotContains(t, names, authz.CanDeleteGroup)
	assert.Len(t, names, len(authz.Checked())-1)

	tests := []struct {
		name       string
		function   string
		wantStatus int
	}{
		{name: "active", function: authz.CanCreateRole, wantStatus: fiber.StatusOK},
		{name: "inactive", function: authz.CanDeleteGroup, wantStatus: fiber.StatusNotFound},
		{name: "unknown", function: "Can_Fly", wantStatus: fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := f.Do(t, fiber.MethodGet, base+"/"+tt.function, alice, nil)
			require.Equal(t, tt.wantStatus, status, string(raw))

			if status == fiber.StatusOK {
				assert.Equal(t, tt.function, handlertest.Decode[models.SystemFunction](t, raw).Name)
			}
		})
	}
}

func TestRequiresPrivilege(t *testing.T) {
	f := handlertest.New(t)
	f.MountAPI(t, &sysfunc.Service{})
	f.AddUser(t, "bob", 7, authz.CanViewSystemFunction)

	status, raw := f.Do(t, fiber.MethodGet, base, f.Token(t, "bob"), nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.JSONEq(t, `{"detail":"Not Authorized"}`, string(raw))
}
