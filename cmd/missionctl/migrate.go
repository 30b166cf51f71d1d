package main

import (
	"fmt"

	"missioncontrol/pkg/db"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mg, err := newMigrator()
		if err != nil {
			return err
		}
		defer mg.Close()

		if err := mg.Up(); err != nil {
			return err
		}
		return printVersion(mg)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		if steps <= 0 {
			return fmt.Errorf("--steps must be positive")
		}
		mg, err := newMigrator()
		if err != nil {
			return err
		}
		defer mg.Close()

		if err := mg.Down(steps); err != nil {
			return err
		}
		return printVersion(mg)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mg, err := newMigrator()
		if err != nil {
			return err
		}
		defer mg.Close()
		return printVersion(mg)
	},
}

func init() {
	migrateDownCmd.Flags().Int("steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func newMigrator() (*db.Migrator, error) {
	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	return db.NewMigrator(e.cfg.DB, e.cfg.Migrations, e.log)
}

func printVersion(mg *db.Migrator) error {
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	state := color.GreenString("clean")
	if dirty {
		state = color.New(color.FgRed, color.Bold).Sprint("dirty")
	}
	fmt.Printf("schema version %s (%s)\n", color.CyanString("%d", version), state)
	return nil
}
