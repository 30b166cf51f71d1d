package main

import (
	"encoding/json"
	"fmt"
	"strings"

	contractmq "missioncontrol/contracts/mq"
	"missioncontrol/internal/model"
	"missioncontrol/internal/repository"
	"missioncontrol/pkg/mq"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Work with integration events",
}

var eventSendCmd = &cobra.Command{
	Use:   "send <slug>",
	Short: "Publish a synthetic integration event for a client slug",
	Long: `Publish one integration event to the ingestion queue, as a provider
webhook would. Useful to check the worker end to end:

  missionctl event send acme --provider vercel --type deployment --severity success \
    --title "Production deploy ready" --meta url=https://acme.vercel.app`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := strings.ToLower(strings.TrimSpace(args[0]))
		provider, _ := cmd.Flags().GetString("provider")
		eventType, _ := cmd.Flags().GetString("type")
		severity, _ := cmd.Flags().GetString("severity")
		title, _ := cmd.Flags().GetString("title")
		meta, _ := cmd.Flags().GetStringToString("meta")
		externalID, _ := cmd.Flags().GetString("external-id")

		if _, err := model.ParseProvider(provider); err != nil {
			return err
		}
		if _, err := model.ParseSeverity(severity); err != nil {
			return err
		}
		if externalID == "" {
			externalID = "missionctl-" + uuid.NewString()
		}

		e, err := loadEnv()
		if err != nil {
			return err
		}
		pool, err := e.pool()
		if err != nil {
			return err
		}
		defer pool.Close()

		p, err := repository.NewProjectRepository(pool, e.log).GetBySlug(cmd.Context(), slug)
		if err != nil {
			return fmt.Errorf("project %q: %w", slug, err)
		}

		payload, err := buildEventPayload(p.ID, externalID, provider, eventType, severity, title, meta)
		if err != nil {
			return err
		}

		pub, err := mq.NewPublisher(e.cfg.MQ.URL)
		if err != nil {
			return err
		}
		defer pub.Close()
		if err := pub.Publish(contractmq.RoutingKeyIntegrationEvent, payload); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s published %s/%s for %s %s\n", green("✓"), provider, eventType, slug, color.HiBlackString(externalID))
		return nil
	},
}

func init() {
	f := eventSendCmd.Flags()
	f.String("provider", "github", "github, sentry, vercel or betteruptime")
	f.String("type", "deployment", "event type, e.g. deployment, uptime, error, push")
	f.String("severity", "info", "success, error, warning or info")
	f.String("title", "Test event from missionctl", "event title")
	f.String("external-id", "", "provider event id used for de-duplication (random when empty)")
	f.StringToString("meta", nil, "metadata key=value pairs")
	eventCmd.AddCommand(eventSendCmd)
	rootCmd.AddCommand(eventCmd)
}

func buildEventPayload(projectID, externalID, provider, eventType, severity, title string, meta map[string]string) (contractmq.IntegrationEventPayload, error) {
	p := contractmq.IntegrationEventPayload{
		ExternalID: externalID,
		ProjectID:  projectID,
		Provider:   provider,
		EventType:  eventType,
		Severity:   severity,
		Title:      title,
	}
	if len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			return p, err
		}
		p.Metadata = raw
	}
	return p, nil
}
