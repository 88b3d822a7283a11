package model

import "time"

type SignedURLKV struct {
	Key       string    `gorm:"column:key;type:text;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (SignedURLKV) TableName() string {
	return "signed_url_kv"
}
