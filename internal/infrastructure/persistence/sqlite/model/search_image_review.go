package model

import "time"

// SearchImageReview carries the one-score-per-(reviewer, item) invariant in
// its composite unique index; inserts race on the index, never on app state.
type SearchImageReview struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ReviewerEmail string    `gorm:"column:reviewer_email;type:text;not null;uniqueIndex:idx_reviewer_ingestion"`
	IngestionID   string    `gorm:"column:ingestion_id;type:text;not null;uniqueIndex:idx_reviewer_ingestion"`
	Score         float64   `gorm:"column:score;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;index"`
}

func (SearchImageReview) TableName() string {
	return "search_image_reviews"
}
