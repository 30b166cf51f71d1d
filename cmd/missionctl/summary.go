package main

import (
	"fmt"
	"strings"
	"time"

	"missioncontrol/internal/health"
	"missioncontrol/internal/model"
	"missioncontrol/internal/repository"
	"missioncontrol/internal/summary"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Inspect project health summaries",
}

var summaryShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Print the health metrics and cached summary for a client slug",
	Long: `Print what the client dashboard would show for <slug>: the health
metrics over the dashboard event window, task progress, and the cached AI
summary with its freshness. No summary is generated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := strings.ToLower(strings.TrimSpace(args[0]))

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
		tasks := repository.NewTaskRepository(pool, e.log)
		modules := repository.NewModuleRepository(pool, tasks, e.log)
		events := repository.NewEventRepository(pool, e.log)

		p, err := projects.GetBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("project %q: %w", slug, err)
		}
		recent, err := events.ListRecent(ctx, p.ID, e.cfg.Dashboard.EventWindow)
		if err != nil {
			return err
		}
		mods, err := modules.ListWithTasks(ctx, p.ID)
		if err != nil {
			return err
		}

		var all []model.Task
		for _, m := range mods {
			all = append(all, m.Tasks...)
		}
		printSummary(p, health.Compute(recent, all), health.ModuleProgress(all), summary.Gate{TTL: e.cfg.AI.CacheTTL}, time.Now())
		return nil
	},
}

func init() {
	summaryCmd.AddCommand(summaryShowCmd)
	rootCmd.AddCommand(summaryCmd)
}

func printSummary(p *model.Project, m health.Metrics, progress health.Progress, gate summary.Gate, now time.Time) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("%s %s\n", cyan(p.Name), gray("("+string(p.Status)+")"))
	fmt.Printf("  errors:      %d\n", m.ErrorCount)
	fmt.Printf("  deploys:     %d\n", m.DeployCount)
	fmt.Printf("  uptime:      %s\n", orNA(m.UptimePercent, "%.1f%%"))
	fmt.Printf("  qa pass:     %s\n", orNA(m.QAPassRate, "%d%%"))
	fmt.Printf("  tasks:       %d/%d deployed (%d%%)\n", progress.Deployed, progress.Total, progress.Percent)

	if p.AISummary == nil || *p.AISummary == "" || p.AISummaryAt == nil {
		fmt.Printf("\n%s\n", color.YellowString("No summary generated yet"))
		return
	}
	state := color.GreenString("fresh")
	if !gate.Fresh(p, now) {
		state = color.YellowString("stale")
	}
	age := now.Sub(*p.AISummaryAt).Round(time.Minute)
	fmt.Printf("\n%s %s\n%s\n", state, gray(fmt.Sprintf("generated %s ago", age)), *p.AISummary)
}

func orNA[T int | float64](v *T, format string) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf(format, *v)
}
