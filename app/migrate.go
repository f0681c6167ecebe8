package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/complyhub/complyhub/internal/bootstrap"
	"github.com/complyhub/complyhub/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Migrate the database schema and seed the system function catalog",
	PreRunE: loadConfig,
	RunE: func(_ *cobra.Command, _ []string) error {
		conn, err := daemon.OpenDB(&cfg)
		if err != nil {
			return err
		}

		if err = bootstrap.Seed(conn, &cfg.Bootstrap); err != nil {
			return err
		}

		log.Info().Msg("database migrated")

		return nil
	},
}
