package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"searchreview/internal/bootstrap"
	"searchreview/internal/bootstrap/logging"
	"searchreview/internal/errs"
	authinfra "searchreview/internal/infrastructure/auth"
	"searchreview/internal/usecase/review"
)

var reviewerCmd = &cobra.Command{
	Use:   "reviewer",
	Short: "Manage reviewer identities",
}

var reviewerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Provision a reviewer with a batch assignment",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *review.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		email, _ := cmd.Flags().GetString("email")
		batch, _ := cmd.Flags().GetString("batch")
		password, _ := cmd.Flags().GetString("password")

		hash, err := authinfra.HashPassword(password)
		if err != nil {
			return errs.Wrap(err, "hash password")
		}

		if err := svc.ProvisionReviewer(ctx, review.ProvisionReviewerInput{
			Email:         email,
			AssignedBatch: batch,
			PasswordHash:  hash,
		}); err != nil {
			return errs.Wrap(err, "provision reviewer")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "reviewer provisioned email=%s batch=%s\n", email, batch); err != nil {
			return errs.Wrap(err, "write output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(reviewerCmd)
	reviewerCmd.AddCommand(reviewerAddCmd)

	reviewerAddCmd.Flags().String("email", "", "Reviewer email")
	reviewerAddCmd.Flags().String("batch", "", "Assigned batch label")
	reviewerAddCmd.Flags().String("password", "", "Reviewer password")
	_ = reviewerAddCmd.MarkFlagRequired("email")
	_ = reviewerAddCmd.MarkFlagRequired("batch")
	_ = reviewerAddCmd.MarkFlagRequired("password")
}
