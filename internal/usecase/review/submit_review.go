package review

import (
	"context"
	"errors"

	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/errs"
	"searchreview/internal/ports"
)

// SubmitReview records one score for one (reviewer, item) pair. The pair is
// unique in the store; a repeat submission returns ErrDuplicateReview and the
// original record stands. On success the record is immediately visible to the
// unreviewed-set and dashboard reads.
func (s *Service) SubmitReview(ctx context.Context, input SubmitReviewInput) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("review repository is required")
	}

	email, err := domainreview.NormalizeEmail(input.ReviewerEmail)
	if err != nil {
		return err
	}
	ingestionID, err := domainreview.NormalizeIngestionID(input.IngestionID)
	if err != nil {
		return err
	}
	if err := domainreview.ValidateScore(input.Score); err != nil {
		return err
	}

	inserted, err := s.repo.CreateReview(ctx, ports.ReviewRecordCreate{
		ReviewerEmail: email,
		IngestionID:   ingestionID,
		Score:         input.Score,
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return errs.Wrap(err, "create review record")
	}
	if !inserted {
		return domainreview.ErrDuplicateReview
	}
	return nil
}
