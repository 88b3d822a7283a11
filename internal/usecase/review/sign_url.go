package review

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"searchreview/internal/bootstrap/logging"
	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/errs"
)

// SignObjectURL returns a temporary URL for the object behind a review item.
// Signed URLs are cached for half their lifetime so a session re-requesting
// the same object reuses one URL; cache failures degrade to re-signing.
func (s *Service) SignObjectURL(ctx context.Context, input SignObjectURLInput) (SignedURLView, error) {
	if ctx == nil {
		return SignedURLView{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return SignedURLView{}, errs.Wrap(err, "check context")
	}
	if s.signer == nil {
		return SignedURLView{}, errors.New("object signer is required")
	}

	ingestionID, err := domainreview.NormalizeIngestionID(input.IngestionID)
	if err != nil {
		return SignedURLView{}, err
	}
	mediaKey := strings.TrimSpace(input.MediaKey)
	if mediaKey == "" {
		return SignedURLView{}, domainreview.ErrMediaKeyRequired
	}

	objectKey := domainreview.ObjectKey(ingestionID, mediaKey)
	cacheKey := "signed-url:" + objectKey

	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			logging.Warn(ctx, "signed url cache read failed", slog.Any("err", errs.Loggable(err)))
		} else if found {
			var view SignedURLView
			if err := json.Unmarshal([]byte(cached), &view); err == nil && view.URL != "" {
				return view, nil
			}
			logging.Warn(ctx, "signed url cache entry malformed", slog.String("key", cacheKey))
			if err := s.cache.Delete(ctx, cacheKey); err != nil {
				logging.Warn(ctx, "signed url cache purge failed", slog.Any("err", errs.Loggable(err)))
			}
		}
	}

	signed, err := s.signer.Sign(ctx, objectKey)
	if err != nil {
		return SignedURLView{}, errs.Wrap(err, "sign object url")
	}
	view := SignedURLView{URL: signed.URL, ExpiresIn: signed.ExpiresIn}

	if s.cache != nil {
		ttl := time.Duration(signed.ExpiresIn) * time.Second / 2
		if encoded, err := json.Marshal(view); err == nil && ttl > 0 {
			if err := s.cache.Set(ctx, cacheKey, string(encoded), ttl); err != nil {
				logging.Warn(ctx, "signed url cache write failed", slog.Any("err", errs.Loggable(err)))
			}
		}
	}

	return view, nil
}
