package review

import (
	"context"
	"errors"

	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/errs"
)

// ResolveBatch maps a reviewer email to its assigned batch label.
// The value is a point-in-time snapshot; callers hold it for one request only.
func (s *Service) ResolveBatch(ctx context.Context, email string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return "", errors.New("review repository is required")
	}

	email, err := domainreview.NormalizeEmail(email)
	if err != nil {
		return "", err
	}

	identity, err := s.repo.GetReviewer(ctx, email)
	if err != nil {
		return "", err
	}
	return identity.AssignedBatch, nil
}
