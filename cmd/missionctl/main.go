package main

import (
	"fmt"
	"os"

	"missioncontrol/internal/config"
	pkgconfig "missioncontrol/pkg/config"
	"missioncontrol/pkg/db"
	"missioncontrol/pkg/logger"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configEnv string
	configDir string
)

var rootCmd = &cobra.Command{
	Use:           "missionctl",
	Short:         "Operator tooling for Mission Control",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configEnv, "env", pkgconfig.GetConfigEnv(), "config environment (base.yaml overlay)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", pkgconfig.GetEnv("CONFIG_DIR", "config"), "directory holding the YAML config")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// env holds the config and logger shared by subcommands.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.LoadFrom(configEnv, configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	// keep connection chatter out of operator output
	log := logger.NewLogger(pkgconfig.LogConfig{Level: "warn"})
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) pool() (*pgxpool.Pool, error) {
	return db.NewConnection(e.cfg.DB, e.log)
}
