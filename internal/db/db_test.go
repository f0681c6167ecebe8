package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyhub/complyhub/internal/config"
	"github.com/complyhub/complyhub/internal/db"
	"github.com/complyhub/complyhub/internal/db/models"
)

func TestOpenAndMigrate(t *testing.T) {
	cfg := config.Config{DB: config.DB{GormEngine: config.EngineSQLite}}

	gdb, err := db.Open(&cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	for _, table := range []string{
		"users", "settings", "system_functions", "roles", "groups",
		"role_privileges", "group_roles", "group_users",
	} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}

	// the composite unique index is enforced by the database
	require.NoError(t, gdb.Create(&models.Role{Name: "Auditor", CompanyID: 7}).Error)
	require.NoError(t, gdb.Create(&models.Role{Name: "Auditor", CompanyID: 9}).Error)
	assert.Error(t, gdb.Create(&models.Role{Name: "Auditor", CompanyID: 7}).Error)

	// migrating twice is harmless
	require.NoError(t, db.Migrate(gdb))
}

func TestMigrateNil(t *testing.T) {
	assert.ErrorIs(t, db.Migrate(nil), db.ErrDBNil)
}
