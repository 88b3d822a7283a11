package model

type SearchImage struct {
	ID             uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	IngestionID    string `gorm:"column:ingestion_id;type:text;not null;uniqueIndex"`
	MediaKey       string `gorm:"column:media_key;type:text;not null"`
	AssignedBatch  string `gorm:"column:assigned_batch;type:text;not null;index"`
	PinterestQuery string `gorm:"column:pinterest_query;type:text;not null"`
}

func (SearchImage) TableName() string {
	return "search_images"
}
