package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
)

var (
	flagLimit      int
	flagTargetType string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect and emit events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent events, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		evts, err := svc.Events.ListRecent(cmd.Context(), flagLimit)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), evts, func() error {
			rows := make([][]string, 0, len(evts))
			for _, e := range evts {
				object := ""
				if e.ActionObjectType != nil && e.ActionObjectID != nil {
					object = *e.ActionObjectType + ":" + *e.ActionObjectID
				}
				rows = append(rows, []string{
					e.CreatedAt.Format(time.RFC3339),
					e.Type(),
					e.ActorID,
					string(e.TargetType) + ":" + e.TargetID,
					object,
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"TIME", "TYPE", "ACTOR", "TARGET", "OBJECT"}, rows)
		})
	},
}

var eventsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the declared event types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		namespaces := reg.EventNamespaces()
		return output(cmd.OutOrStdout(), namespaces, func() error {
			var rows [][]string
			for _, ns := range namespaces {
				for _, t := range ns.Types {
					rows = append(rows, []string{t.ID(), t.Label})
				}
			}
			return printTable(cmd.OutOrStdout(), []string{"TYPE", "LABEL"}, rows)
		})
	},
}

var eventsEmitCmd = &cobra.Command{
	Use:   "emit <namespace.name> <target-id>",
	Short: "Record and publish an event, e.g. mailing.email_send",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		namespace, name, ok := strings.Cut(args[0], ".")
		if !ok {
			return fmt.Errorf("event type %q must be namespace.name", args[0])
		}
		event, err := svc.Events.Commit(cmd.Context(), services.EventCommit{
			Namespace: namespace,
			Name:      name,
			ActorID:   flagActor,
			Target:    models.ObjectRef{Type: models.ObjectType(flagTargetType), ID: args[1]},
		})
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), event, func() error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", event.ID, event.Type())
			return err
		})
	},
}

func init() {
	eventsListCmd.Flags().IntVar(&flagLimit, "limit", 50, "maximum number of events")
	eventsEmitCmd.Flags().StringVar(&flagTargetType, "target-type", string(models.ObjectTypeDocument), "object type of the target")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsTypesCmd)
	eventsCmd.AddCommand(eventsEmitCmd)
}
