package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/complyhub/complyhub/internal/daemon"
	"github.com/complyhub/complyhub/internal/db/controller/sysfunc"
)

func init() { //nolint: gochecknoinits
	sysfuncCmd.AddCommand(sysfuncSetActiveCmd("deactivate", false), sysfuncSetActiveCmd("activate", true))
	rootCmd.AddCommand(sysfuncCmd)
}

var sysfuncCmd = &cobra.Command{
	Use:   "sysfunc",
	Short: "Manage the system function catalog",
}

func sysfuncSetActiveCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:     use + " NAME",
		Short:   "Mark a system function as " + use + "d",
		Args:    cobra.ExactArgs(1),
		PreRunE: loadConfig,
		RunE: func(_ *cobra.Command, args []string) error {
			conn, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err
			}

			if err = sysfunc.SetActive(conn, args[0], active); err != nil {
				return err
			}

			log.Info().Str("function", args[0]).Bool("active", active).Msg("system function updated")

			return nil
		},
	}
}
