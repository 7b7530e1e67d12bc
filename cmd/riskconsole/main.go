package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"riskconsole/config"
	"riskconsole/internal/logger"
)

const defaultConfigName = "riskconsole.yml"

var configArg string

func findConfigFile(configArg string) string {
	if configArg != "" {
		if _, err := os.Stat(configArg); err == nil {
			return configArg
		}
		log.Printf("Warning: config file not found at %s, trying default locations", configArg)
	}

	if _, err := os.Stat(defaultConfigName); err == nil {
		return defaultConfigName
	}

	if exePath, err := os.Executable(); err == nil {
		path := filepath.Join(filepath.Dir(exePath), defaultConfigName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadConfig reads the config file if one is found and fills defaults.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if path := findConfigFile(configArg); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}
	config.ApplyDefaults(cfg)

	lc := cfg.RiskConsole.Logging
	if err := logger.Init(logger.Config{Enabled: lc.Enabled, Level: lc.Level, File: lc.File, Console: lc.Console}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "riskconsole",
		Short:         "Incident risk scoring console for the SOC backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configArg, "config", "c", "", "path to "+defaultConfigName)

	root.AddCommand(newServeCmd(), newScoreCmd(), newWatchCmd(), newSettingsCmd(), newEntitiesCmd())
	return root
}

func main() {
	err := newRootCmd().Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
