// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/complyhub/complyhub/internal/config"
	"github.com/complyhub/complyhub/internal/logger"
)

var (
	configPath string // Directory holding main.toml
	devMode    bool

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "complyhub",
		Short: "complyhub is the backend of a compliance and inspection tracking application",
		Long: `complyhub serves a JSON API over users, roles, groups and system functions
and guards every endpoint with privileges resolved from the caller's company.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory holding "+config.MainConfigFile)
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Enable dev mode")
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if devMode {
		cfg.DevMode = true
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
