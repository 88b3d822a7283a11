package ports

import (
	"context"
	"time"
)

// ReviewerIdentity is a provisioned reviewer with an immutable batch assignment.
type ReviewerIdentity struct {
	Email         string
	AssignedBatch string
	PasswordHash  string
	CreatedAt     time.Time
}

// ReviewItem is one image in the review pool.
type ReviewItem struct {
	ID             uint64
	IngestionID    string
	MediaKey       string
	AssignedBatch  string
	PinterestQuery string
}

// ReviewRecord is a single submitted score.
type ReviewRecord struct {
	ID            uint64
	ReviewerEmail string
	IngestionID   string
	Score         float64
	CreatedAt     time.Time
}

// ReviewRecordCreate is the write shape for a submission.
type ReviewRecordCreate struct {
	ReviewerEmail string
	IngestionID   string
	Score         float64
	CreatedAt     time.Time
}

// ReviewRepository is the query contract over the review store.
//
// All methods honor a transaction placed in context by a UnitOfWork and
// otherwise run against the base connection.
type ReviewRepository interface {
	// GetReviewer returns the identity for an email, or
	// domain review.ErrReviewerNotFound.
	GetReviewer(ctx context.Context, email string) (ReviewerIdentity, error)

	// UpsertReviewer creates or replaces a reviewer identity (provisioning).
	UpsertReviewer(ctx context.Context, identity ReviewerIdentity) error

	// ListUnreviewedItems returns items in batch with no review record from
	// email, newest first by item id, capped at limit.
	ListUnreviewedItems(ctx context.Context, email, batch string, limit int) ([]ReviewItem, error)

	// CreateItem inserts a pool item (ingestion support and tests).
	CreateItem(ctx context.Context, item ReviewItem) (ReviewItem, error)

	// CountItemsInBatch returns the size of a batch.
	CountItemsInBatch(ctx context.Context, batch string) (int64, error)

	// CountReviewsByReviewer returns how many records this reviewer has submitted.
	CountReviewsByReviewer(ctx context.Context, email string) (int64, error)

	// ListReviewsSince returns this reviewer's records with created_at >= since,
	// ordered by created_at ascending.
	ListReviewsSince(ctx context.Context, email string, since time.Time) ([]ReviewRecord, error)

	// CreateReview inserts a record unless one already exists for the
	// (reviewer_email, ingestion_id) pair. Returns false when the pair was
	// already present; the existing row is left untouched.
	CreateReview(ctx context.Context, input ReviewRecordCreate) (bool, error)
}
