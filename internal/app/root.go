// Package app provides the command-line interface for the acquisition engine.
package app

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"paperchase/internal/config"
)

var rootCmd = &cobra.Command{
	Use:               "paperchase",
	DisableAutoGenTag: true,
	Short:             "Tiered document acquisition",
	Long: `paperchase acquires a single document by racing many independent
retrieval sources across three priority tiers, accepting at most one
validated result and committing it atomically to the output path.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML configuration file")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(sourcesCmd)
	return rootCmd
}

// newLogger builds the CLI logger. Engine components receive it by
// reference; library users of the engine default to a nop logger instead.
func newLogger() *zap.Logger {
	if viper.GetBool("debug") {
		log, err := zap.NewDevelopment()
		if err == nil {
			return log
		}
	}
	log, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// loadConfig resolves the configuration from the --config flag or the
// PAPERCHASE_CONFIG environment variable.
func loadConfig() (*config.Config, error) {
	var opts []config.Option
	if path := viper.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}
	return config.Load(opts...)
}
