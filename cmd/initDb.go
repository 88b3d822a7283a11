package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"searchreview/internal/bootstrap"
	"searchreview/internal/bootstrap/logging"
	"searchreview/internal/errs"
	"searchreview/internal/usecase/review"
)

var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create or migrate the review store schema",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, _ *review.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "init schema")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "schema ready dsn=%s\n", app.Config.Database.DSN); err != nil {
			return errs.Wrap(err, "write output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)
}
