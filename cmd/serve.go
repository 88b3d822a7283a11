package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"searchreview/internal/bootstrap"
	"searchreview/internal/bootstrap/logging"
	"searchreview/internal/delivery/rest"
	"searchreview/internal/errs"
	"searchreview/internal/usecase/review"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review API server",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *review.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		migrate, _ := cmd.Flags().GetBool("migrate")
		if migrate {
			if err := app.InitSchema(ctx); err != nil {
				return errs.Wrap(err, "init schema")
			}
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := rest.NewServer(app.Config.HTTP, svc)
		if err := server.Run(ctx); err != nil {
			return errs.Wrap(err, "run http server")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", true, "Run schema migration before serving")
}
