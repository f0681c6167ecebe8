package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/complyhub/complyhub/internal/config"
)

var dumpJSON bool

func init() { //nolint: gochecknoinits
	configDumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump as JSON, the format of "+config.EnvConfigJSON)

	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configDumpCmd = &cobra.Command{
	Use:     "dump",
	Short:   "Print the effective configuration after defaults and overrides",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dump := config.DumpConfig
		if dumpJSON {
			dump = config.DumpConfigJSON
		}

		out, err := dump(&cfg)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

		return err
	},
}
