package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cabinets/internal/domain/models"
	"cabinets/internal/domain/services"
)

var (
	flagParent string
	flagToRoot bool
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the cabinet forest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := svc.Cabinets.Tree(cmd.Context(), flagActor)
		if err != nil {
			return err
		}
		return output(cmd.OutOrStdout(), tree, func() error {
			if len(tree) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no cabinets")
				return nil
			}
			printTree(cmd.OutOrStdout(), tree, 0)
			return nil
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create <label>",
	Short: "Create a cabinet, under --parent when given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cabinet, err := svc.Cabinets.CreateCabinet(cmd.Context(), &services.CreateCabinetRequest{
			UserID:   flagActor,
			Label:    args[0],
			ParentID: optional(flagParent),
		})
		if err != nil {
			return err
		}
		return printCabinet(cmd, cabinet)
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <label>",
	Short: "Rename a cabinet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cabinet, err := svc.Cabinets.EditCabinet(cmd.Context(), &services.EditCabinetRequest{
			UserID: flagActor,
			ID:     args[0],
			Label:  args[1],
		})
		if err != nil {
			return err
		}
		return printCabinet(cmd, cabinet)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <id>",
	Short: "Move a cabinet under --parent, or make it a root with --root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (flagParent == "") == !flagToRoot {
			return fmt.Errorf("exactly one of --parent or --root is required")
		}
		cabinet, err := svc.Cabinets.MoveCabinet(cmd.Context(), &services.MoveCabinetRequest{
			UserID:   flagActor,
			ID:       args[0],
			ParentID: optional(flagParent),
		})
		if err != nil {
			return err
		}
		return printCabinet(cmd, cabinet)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a cabinet and its descendants; documents are kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.Cabinets.DeleteCabinet(cmd.Context(), flagActor, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&flagParent, "parent", "", "parent cabinet ID")
	moveCmd.Flags().StringVar(&flagParent, "parent", "", "new parent cabinet ID")
	moveCmd.Flags().BoolVar(&flagToRoot, "root", false, "make the cabinet a root")
}

func printCabinet(cmd *cobra.Command, cabinet *models.Cabinet) error {
	return output(cmd.OutOrStdout(), cabinet, func() error {
		path := cabinet.Path
		if path == "" {
			path = cabinet.Label
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", cabinet.ID, path)
		return err
	})
}
