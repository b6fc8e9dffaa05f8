package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crmdash/internal/app"
	"crmdash/internal/config"
	"crmdash/internal/logging"
	"crmdash/internal/recordstore"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "crmdash",
	Short: "CRM dashboard API: contacts, deal pipeline and activities",
	Long: `crmdash serves the CRM HTTP API on top of a record store
(memory, postgres, sqlite or a remote record API).`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to config.yaml")
}

// openApp loads config, builds the logger and opens the store.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		a.Log.Warn("[cli][close] store close failed", zap.Error(err))
	}
	_ = a.Log.Sync()
}

var errMemoryStore = errors.New("store.driver is memory: data is lost when the command exits, use postgres, sqlite or remote")

func isMemoryStore(a *app.App) bool {
	return a.Config.Store.Driver == "" || a.Config.Store.Driver == recordstore.DriverMemory
}

// withDemoData seeds a memory store so one-shot commands see the sample
// pipeline instead of an empty one. Persistent stores are left as is.
func withDemoData(ctx context.Context, a *app.App) error {
	if !isMemoryStore(a) {
		return nil
	}
	a.Log.Warn("[cli] memory store, using demo data")
	_, err := a.Seed(ctx)
	return err
}
