package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cabinets/internal/domain/models"
)

var flagRevoke bool

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant or revoke permissions",
}

var grantPermissionCmd = &cobra.Command{
	Use:   "permission <user-id> <permission>",
	Short: "Grant a permission on every object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		perm := models.Permission(args[1])
		if flagRevoke {
			if err := svc.Access.RevokePermission(cmd.Context(), args[0], perm); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s from %s\n", perm, args[0])
			return nil
		}
		if err := svc.Access.GrantPermission(cmd.Context(), args[0], perm); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "granted %s to %s\n", perm, args[0])
		return nil
	},
}

var grantAccessCmd = &cobra.Command{
	Use:   "access <user-id> <cabinet-id> <permission>",
	Short: "Grant a permission on one cabinet and its descendants",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := &models.AccessEntry{
			UserID:     args[0],
			ObjectType: models.ObjectTypeCabinet,
			ObjectID:   args[1],
			Permission: models.Permission(args[2]),
		}
		if flagRevoke {
			if err := svc.Access.RevokeAccess(cmd.Context(), flagActor, entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s on %s from %s\n", entry.Permission, entry.ObjectID, entry.UserID)
			return nil
		}
		if err := svc.Access.GrantAccess(cmd.Context(), flagActor, entry); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "granted %s on %s to %s\n", entry.Permission, entry.ObjectID, entry.UserID)
		return nil
	},
}

var permissionsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the declared permissions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		namespaces := reg.Permissions()
		return output(cmd.OutOrStdout(), namespaces, func() error {
			var rows [][]string
			for _, ns := range namespaces {
				for _, p := range ns.Permissions {
					rows = append(rows, []string{ns.Namespace + "." + p.Name, p.Label})
				}
			}
			return printTable(cmd.OutOrStdout(), []string{"PERMISSION", "LABEL"}, rows)
		})
	},
}

func init() {
	grantCmd.PersistentFlags().BoolVar(&flagRevoke, "revoke", false, "revoke instead of grant")

	grantCmd.AddCommand(grantPermissionCmd)
	grantCmd.AddCommand(grantAccessCmd)
	grantCmd.AddCommand(permissionsCmd)
}
