package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p28/portal/internal/entitlement"
)

func newEntitlementsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entitlements",
		Short: "Inspect and link course entitlements",
	}
	cmd.AddCommand(newEntitlementsCheckCmd(a), newEntitlementsLinkCmd(a))
	return cmd
}

func newEntitlementsCheckCmd(a *app) *cobra.Command {
	var userID, courseID string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether a user can open a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, closeStores, err := openStores(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer closeStores()

			svc := entitlement.NewService(stores.Entitlements, a.logger)
			access := "denied"
			if svc.HasAccess(cmd.Context(), userID, courseID) {
				access = "granted"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s course %s: %s\n", userID, courseID, access)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&courseID, "course", "", "course id")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("course")
	return cmd
}

func newEntitlementsLinkCmd(a *app) *cobra.Command {
	var email, userID string
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Attach entitlements bought with an email to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			stores, closeStores, err := openStores(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer closeStores()

			svc := entitlement.NewService(stores.Entitlements, a.logger)
			if err := svc.Link(cmd.Context(), email, userID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "linked entitlements for %s to %s\n", entitlement.NormalizeEmail(email), userID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "purchase email")
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("user")
	return cmd
}
