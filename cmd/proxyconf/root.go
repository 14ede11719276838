package main

import (
	"fmt"
	"os"

	"proxyconf/internal/config"
	"proxyconf/internal/geoip"
	"proxyconf/internal/logger"
	"proxyconf/internal/store"

	"github.com/spf13/cobra"
)

var cfgFile string
var verbose bool
var logFile string

var rootCmd = &cobra.Command{
	Use:          "proxyconf",
	Short:        "Create, edit and share upstream proxy profiles",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose, logFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr (overwrites file)")
}

// openStore loads the config and opens a migrated profile store. The
// returned close func must be called when the command is done.
func openStore() (*config.Config, *store.Store, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	database, err := store.Connect(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.Migrate(database); err != nil {
		store.Close(database)
		return nil, nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Log.Debugf("Opened profile store at %s", cfg.Database.Path)

	return cfg, store.New(database), func() { store.Close(database) }, nil
}

// initGeoIP loads the configured databases, if any. Failures only cost the
// location column.
func initGeoIP(cfg *config.Config) func() {
	if cfg.GeoIP.ASNPath == "" && cfg.GeoIP.CountryPath == "" {
		return func() {}
	}
	if err := geoip.Init(cfg.GeoIP.ASNPath, cfg.GeoIP.CountryPath); err != nil {
		logger.Log.Warnf("GeoIP disabled: %v", err)
	}
	return geoip.Close
}
