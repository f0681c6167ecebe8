package authz_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyhub/complyhub/internal/authz"
	"github.com/complyhub/complyhub/internal/logger"
)

func TestDecisionsAreAudited(t *testing.T) {
	var buf bytes.Buffer

	logger.SetAuditOutput(&buf)
	t.Cleanup(func() { logger.SetAuditOutput(nil) })

	f := newFixture(t)
	resolver := authz.New(authz.NewGormStore(f.db))
	ctx := context.Background()

	tests := []struct {
		username  string
		privilege string
		level     string
		outcome   string
		reason    string
	}{
		{"alice", authz.CanCreateRole, "debug", "granted", "granted"},
		{"alice", authz.CanDeleteRole, "info", "denied", "privilege_not_held"},
		{"carol", authz.CanCreateRole, "info", "denied", "inactive_user"},
		{"mallory", authz.CanCreateRole, "info", "denied", "unknown_user"},
		{"alice", "Can_Launch_Rockets", "info", "denied", "unknown_privilege"},
	}

	for _, tt := range tests {
		err := resolver.Authorize(ctx, tt.username, tt.privilege)
		if tt.outcome == "granted" {
			require.NoError(t, err)
		} else {
			require.ErrorIs(t, err, authz.ErrNotAuthorized)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(tests))

	for i, tt := range tests {
		var event struct {
			Level     string `json:"level"`
			Channel   string `json:"channel"`
			User      string `json:"user"`
			Privilege string `json:"privilege"`
			Outcome   string `json:"outcome"`
			Reason    string `json:"reason"`
		}

		require.NoError(t, json.Unmarshal([]byte(lines[i]), &event), lines[i])
		assert.Equal(t, logger.ChannelAudit, event.Channel)
		assert.Equal(t, tt.level, event.Level)
		assert.Equal(t, tt.username, event.User)
		assert.Equal(t, tt.privilege, event.Privilege)
		assert.Equal(t, tt.outcome, event.Outcome)
		assert.Equal(t, tt.reason, event.Reason)
	}
}
