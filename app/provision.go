package app

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/complyhub/complyhub/internal/bootstrap"
	"github.com/complyhub/complyhub/internal/daemon"
)

var (
	errProvisionFlags = errors.New("--company and --username are required")

	provisionCompany  uint
	provisionUsername string
)

func init() { //nolint: gochecknoinits
	provisionCmd.Flags().UintVar(&provisionCompany, "company", 0, "Company id to provision")
	provisionCmd.Flags().StringVar(&provisionUsername, "username", "", "User of the company joining the admin group")

	rootCmd.AddCommand(provisionCmd)
}

var provisionCmd = &cobra.Command{
	Use:     "provision",
	Short:   "Give a company its access control role and admin group",
	PreRunE: loadConfig,
	RunE: func(_ *cobra.Command, _ []string) error {
		if provisionCompany == 0 || provisionUsername == "" {
			return errProvisionFlags
		}

		conn, err := daemon.OpenDB(&cfg)
		if err != nil {
			return err
		}

		provisioned, err := bootstrap.Provision(conn, provisionCompany, provisionUsername)
		if err != nil {
			return err
		}

		log.Info().
			Uint("company", provisionCompany).
			Str("user", provisionUsername).
			Str("role", provisioned.Role.Name).
			Str("group", provisioned.Group.Name).
			Int("granted", provisioned.Granted).
			Msg("company provisioned")

		return nil
	},
}
