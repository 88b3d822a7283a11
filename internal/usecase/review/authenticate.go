package review

import (
	"context"
	"errors"
	"strings"

	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/errs"
)

// Authenticate verifies reviewer credentials through the authenticator
// collaborator. It reports ok=false for both unknown reviewers and wrong
// passwords.
func (s *Service) Authenticate(ctx context.Context, email, password string) (bool, error) {
	if ctx == nil {
		return false, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return false, errs.Wrap(err, "check context")
	}
	if s.authn == nil {
		return false, errors.New("authenticator is required")
	}

	email, err := domainreview.NormalizeEmail(email)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(password) == "" {
		return false, domainreview.ErrPasswordRequired
	}

	ok, err := s.authn.Authenticate(ctx, email, password)
	if err != nil {
		return false, errs.Wrap(err, "authenticate reviewer")
	}
	return ok, nil
}
