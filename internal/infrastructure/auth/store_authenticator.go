package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/errs"
	"searchreview/internal/ports"
)

// StoreAuthenticator checks reviewer credentials against the bcrypt hash
// stored with the identity. An unknown reviewer and a wrong password both
// come back as ok=false so callers cannot probe for accounts.
type StoreAuthenticator struct {
	repo ports.ReviewRepository
}

var _ ports.Authenticator = (*StoreAuthenticator)(nil)

func NewStoreAuthenticator(repo ports.ReviewRepository) *StoreAuthenticator {
	return &StoreAuthenticator{repo: repo}
}

func (a *StoreAuthenticator) Authenticate(ctx context.Context, email, password string) (bool, error) {
	if ctx == nil {
		return false, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return false, errs.Wrap(err, "check context")
	}
	if email == "" || password == "" {
		return false, nil
	}

	identity, err := a.repo.GetReviewer(ctx, email)
	if err != nil {
		if errors.Is(err, domainreview.ErrReviewerNotFound) {
			return false, nil
		}
		return false, errs.Wrap(err, "load reviewer for auth")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, errs.Wrap(err, "compare password hash")
	}

	return true, nil
}

// HashPassword produces the stored form of a reviewer password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", domainreview.ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.Wrap(err, "hash password")
	}
	return string(hash), nil
}
