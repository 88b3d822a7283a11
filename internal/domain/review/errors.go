package review

import "errors"

var (
	ErrEmailRequired       = errors.New("reviewer email is required")
	ErrIngestionIDRequired = errors.New("ingestion id is required")
	ErrMediaKeyRequired    = errors.New("media key is required")
	ErrPasswordRequired    = errors.New("password is required")
	ErrBatchRequired       = errors.New("assigned batch is required")
	ErrScoreOutOfRange     = errors.New("review score must be a finite value between 1 and 5")

	ErrReviewerNotFound = errors.New("reviewer not found")
	ErrDuplicateReview  = errors.New("review already submitted for this item")
)
