package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
)

var (
	flagDocumentID string
	flagCabinets   []string
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Register documents and file them into cabinets",
}

var documentAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Register a document reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := flagDocumentID
		if id == "" {
			id = uuid.NewString()
		}
		doc := &models.Document{ID: id, Label: args[0]}
		if err := store.Documents.Create(cmd.Context(), doc); err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), doc, func() error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", doc.ID, doc.Label)
			return err
		})
	},
}

var documentFileCmd = &cobra.Command{
	Use:   "file <document-id>...",
	Short: "Add documents to every --cabinet",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := membershipRequest(args)
		if err := svc.Memberships.AddDocuments(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "filed %d document(s) into %d cabinet(s)\n", len(req.DocumentIDs), len(req.CabinetIDs))
		return nil
	},
}

var documentUnfileCmd = &cobra.Command{
	Use:   "unfile <document-id>...",
	Short: "Remove documents from every --cabinet",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := membershipRequest(args)
		if err := svc.Memberships.RemoveDocuments(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d document(s) from %d cabinet(s)\n", len(req.DocumentIDs), len(req.CabinetIDs))
		return nil
	},
}

var documentCabinetsCmd = &cobra.Command{
	Use:   "cabinets <document-id>",
	Short: "List the cabinets containing a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cabinets, err := svc.Memberships.ListDocumentCabinets(cmd.Context(), flagActor, args[0])
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), cabinets, func() error {
			rows := make([][]string, 0, len(cabinets))
			for _, c := range cabinets {
				rows = append(rows, []string{c.ID, c.Path})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "PATH"}, rows)
		})
	},
}

func init() {
	documentAddCmd.Flags().StringVar(&flagDocumentID, "id", "", "document ID (default: a new UUID)")
	for _, c := range []*cobra.Command{documentFileCmd, documentUnfileCmd} {
		c.Flags().StringSliceVar(&flagCabinets, "cabinet", nil, "target cabinet ID (repeatable)")
		_ = c.MarkFlagRequired("cabinet")
	}

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentFileCmd)
	documentCmd.AddCommand(documentUnfileCmd)
	documentCmd.AddCommand(documentCabinetsCmd)
}

func membershipRequest(documentIDs []string) *services.MembershipRequest {
	return &services.MembershipRequest{
		UserID:        flagActor,
		DocumentIDs:   documentIDs,
		CabinetIDs:    flagCabinets,
		DocumentField: "document",
	}
}
