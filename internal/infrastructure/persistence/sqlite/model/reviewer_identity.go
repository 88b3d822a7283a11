package model

import "time"

type ReviewerIdentity struct {
	Email         string    `gorm:"column:email;type:text;primaryKey"`
	AssignedBatch string    `gorm:"column:assigned_batch;type:text;not null"`
	PasswordHash  string    `gorm:"column:password_hash;type:text;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (ReviewerIdentity) TableName() string {
	return "reviewer_identities"
}
