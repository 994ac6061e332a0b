// Package cli holds the portal's cobra commands.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/p28/portal/internal/config"
	"github.com/p28/portal/internal/logging"
)

// app is the state shared by every subcommand once the root has loaded
// configuration.
type app struct {
	configPath string
	cfg        config.Config
	logger     *slog.Logger
}

// NewRootCmd builds the portal command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "portal",
		Short: "P28 course portal backend",
		Long: `portal serves the P28 course portal: public pages, the learner and admin
dashboards, and the JSON endpoints for attribution, tiers and entitlements.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newEntitlementsCmd(a),
		newVersionCmd(a),
	)
	return root
}

// ExecuteContext runs the command tree with ctx, which is cancelled on
// SIGINT/SIGTERM by main.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
