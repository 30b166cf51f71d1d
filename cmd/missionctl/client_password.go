package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"missioncontrol/internal/repository"
	"missioncontrol/internal/service/clientauth"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var clientPasswordCmd = &cobra.Command{
	Use:   "client-password",
	Short: "Manage the password gating a client dashboard",
}

var clientPasswordSetCmd = &cobra.Command{
	Use:   "set <slug>",
	Short: "Set the dashboard password for a client slug",
	Long: `Hash and store a new dashboard password for the project owning <slug>.

The password is read from --password, or from stdin when the flag is omitted:
  echo 's3cret' | missionctl client-password set acme`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := strings.ToLower(strings.TrimSpace(args[0]))
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password from stdin: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		e, err := loadEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := e.pool()
		if err != nil {
			return err
		}
		defer pool.Close()

		projects := repository.NewProjectRepository(pool, e.log)
		p, err := projects.GetBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("project %q: %w", slug, err)
		}

		auth := clientauth.NewService(projects, e.log)
		if err := auth.SetPassword(ctx, p.ID, password); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s password updated for %s (%s)\n", green("✓"), p.Name, slug)
		return nil
	},
}

func init() {
	clientPasswordSetCmd.Flags().String("password", "", "new password (read from stdin when empty)")
	clientPasswordCmd.AddCommand(clientPasswordSetCmd)
	rootCmd.AddCommand(clientPasswordCmd)
}
