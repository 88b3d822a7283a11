package review

import (
	"context"
	"errors"

	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/errs"
	"searchreview/internal/ports"
)

// UnreviewedBatch returns the reviewer's assigned items that still lack a
// review record from that reviewer, newest-ingested first, capped at the
// configured batch limit. An empty slice means the session is complete.
func (s *Service) UnreviewedBatch(ctx context.Context, email string) ([]ItemView, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("review repository is required")
	}
	if s.uow == nil {
		return nil, errors.New("review unit of work is required")
	}

	email, err := domainreview.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var items []ports.ReviewItem
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		identity, err := s.repo.GetReviewer(txCtx, email)
		if err != nil {
			return err
		}

		items, err = s.repo.ListUnreviewedItems(txCtx, email, identity.AssignedBatch, s.limit)
		return err
	}); err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ItemView{
			ID:             item.ID,
			IngestionID:    item.IngestionID,
			MediaKey:       item.MediaKey,
			PinterestQuery: item.PinterestQuery,
		})
	}
	return views, nil
}
