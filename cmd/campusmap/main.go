package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"campus-map/internal/common/config"
	"campus-map/internal/common/logging"
)

// ============================================================
// Campus Map
// ============================================================

func main() {
	var configFile string
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "campusmap",
		Short:         "Interactive campus floor map with room schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configFile)
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel, cfg.Environment)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", os.Getenv("CONFIG_FILE"), "Path to configuration file (yaml/json/toml)")

	cfgFn := func() *config.Config { return cfg }
	rootCmd.AddCommand(
		newServeCmd(cfgFn),
		newRenderCmd(cfgFn),
		newInspectCmd(cfgFn),
		newExtractCmd(cfgFn),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("campusmap failed")
	}
}
