package review

import (
	"context"
	"errors"
	"strings"

	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/errs"
	"searchreview/internal/ports"
)

type ProvisionReviewerInput struct {
	Email         string
	AssignedBatch string
	PasswordHash  string
}

// ProvisionReviewer creates a reviewer identity or rotates its password hash.
// The batch assignment is immutable: re-provisioning an existing reviewer
// never moves it to another batch.
func (s *Service) ProvisionReviewer(ctx context.Context, input ProvisionReviewerInput) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("review repository is required")
	}

	email, err := domainreview.NormalizeEmail(input.Email)
	if err != nil {
		return err
	}
	batch := strings.TrimSpace(input.AssignedBatch)
	if batch == "" {
		return domainreview.ErrBatchRequired
	}
	if strings.TrimSpace(input.PasswordHash) == "" {
		return domainreview.ErrPasswordRequired
	}

	if err := s.repo.UpsertReviewer(ctx, ports.ReviewerIdentity{
		Email:         email,
		AssignedBatch: batch,
		PasswordHash:  input.PasswordHash,
		CreatedAt:     s.now().UTC(),
	}); err != nil {
		return errs.Wrap(err, "upsert reviewer identity")
	}
	return nil
}
