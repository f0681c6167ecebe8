package handler_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/db/controller/group"
	"github.com/complyhub/complyhub/internal/db/controller/role"
	"github.com/complyhub/complyhub/internal/db/controller/user"
	"github.com/complyhub/complyhub/internal/web/handler"
)

func TestStatus(t *testing.T) {
	type body struct {
		Name string `validate:"required"`
	}

	validationErr := validator.New().Struct(body{})

	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantDetail string
	}{
		{name: "not authorized", err: authz.ErrNotAuthorized, wantCode: fiber.StatusUnauthorized, wantDetail: "Not Authorized"},
		{
			name:       "wrapped not authorized",
			err:        fmt.Errorf("route: %w", authz.ErrNotAuthorized),
			wantCode:   fiber.StatusUnauthorized,
			wantDetail: "Not Authorized",
		},
		{name: "not found", err: role.ErrRoleNotFound, wantCode: fiber.StatusNotFound, wantDetail: "role not found"},
		{name: "duplicate", err: group.ErrUserAlreadyInGroup, wantCode: fiber.StatusConflict, wantDetail: "user already in group: already exists"},
		{name: "forbidden", err: user.ErrSuperuserProtected, wantCode: fiber.StatusForbidden, wantDetail: user.ErrSuperuserProtected.Error()},
		{name: "invalid input", err: role.ErrRoleNameEmpty, wantCode: fiber.StatusBadRequest, wantDetail: "role name invalid input"},
		{name: "validation", err: validationErr, wantCode: fiber.StatusBadRequest, wantDetail: validationErr.Error()},
		{name: "fiber error", err: fiber.ErrMethodNotAllowed, wantCode: fiber.StatusMethodNotAllowed, wantDetail: "Method Not Allowed"},
		{name: "anything else", err: errors.New("disk on fire"), wantCode: fiber.StatusInternalServerError, wantDetail: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, detail := handler.Status(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantDetail, detail)
		})
	}
}
