package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/errs"
	"searchreview/internal/infrastructure/persistence/sqlite/model"
	"searchreview/internal/ports"
)

type ReviewRepository struct {
	db *gorm.DB
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *ReviewRepository) GetReviewer(ctx context.Context, email string) (ports.ReviewerIdentity, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ReviewerIdentity{}, err
	}

	var row model.ReviewerIdentity
	if err := db.Where("email = ?", email).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ReviewerIdentity{}, domainreview.ErrReviewerNotFound
		}
		return ports.ReviewerIdentity{}, errs.Wrap(errs.WithStack(err), "query reviewer identity")
	}

	return ports.ReviewerIdentity{
		Email:         row.Email,
		AssignedBatch: row.AssignedBatch,
		PasswordHash:  row.PasswordHash,
		CreatedAt:     row.CreatedAt,
	}, nil
}

// UpsertReviewer inserts a reviewer or, when the email already exists, rotates
// the password hash. assigned_batch is immutable once set and is deliberately
// absent from the update list.
func (r *ReviewRepository) UpsertReviewer(ctx context.Context, identity ports.ReviewerIdentity) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.ReviewerIdentity{
		Email:         identity.Email,
		AssignedBatch: identity.AssignedBatch,
		PasswordHash:  identity.PasswordHash,
		CreatedAt:     identity.CreatedAt,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]any{
			"password_hash": row.PasswordHash,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(errs.WithStack(err), "upsert reviewer identity")
	}
	return nil
}

func (r *ReviewRepository) ListUnreviewedItems(ctx context.Context, email, batch string, limit int) ([]ports.ReviewItem, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	reviewed := db.Model(&model.SearchImageReview{}).
		Select("ingestion_id").
		Where("reviewer_email = ?", email)

	query := db.Model(&model.SearchImage{}).
		Where("assigned_batch = ?", batch).
		Where("ingestion_id NOT IN (?)", reviewed).
		Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.SearchImage
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(errs.WithStack(err), "query unreviewed items")
	}

	items := make([]ports.ReviewItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapItem(row))
	}
	return items, nil
}

func (r *ReviewRepository) CreateItem(ctx context.Context, item ports.ReviewItem) (ports.ReviewItem, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ReviewItem{}, err
	}

	row := model.SearchImage{
		IngestionID:    item.IngestionID,
		MediaKey:       item.MediaKey,
		AssignedBatch:  item.AssignedBatch,
		PinterestQuery: item.PinterestQuery,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.ReviewItem{}, errs.Wrap(errs.WithStack(err), "insert search image")
	}
	return mapItem(row), nil
}

func (r *ReviewRepository) CountItemsInBatch(ctx context.Context, batch string) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.SearchImage{}).
		Where("assigned_batch = ?", batch).
		Count(&count).Error; err != nil {
		return 0, errs.Wrap(errs.WithStack(err), "count batch items")
	}
	return count, nil
}

func (r *ReviewRepository) CountReviewsByReviewer(ctx context.Context, email string) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.SearchImageReview{}).
		Where("reviewer_email = ?", email).
		Count(&count).Error; err != nil {
		return 0, errs.Wrap(errs.WithStack(err), "count reviewer records")
	}
	return count, nil
}

func (r *ReviewRepository) ListReviewsSince(ctx context.Context, email string, since time.Time) ([]ports.ReviewRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.SearchImageReview
	if err := db.
		Where("reviewer_email = ? AND created_at >= ?", email, since).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(errs.WithStack(err), "query reviewer records")
	}

	records := make([]ports.ReviewRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ports.ReviewRecord{
			ID:            row.ID,
			ReviewerEmail: row.ReviewerEmail,
			IngestionID:   row.IngestionID,
			Score:         row.Score,
			CreatedAt:     row.CreatedAt,
		})
	}
	return records, nil
}

// CreateReview inserts at most one record per (reviewer_email, ingestion_id).
// The unique index absorbs concurrent duplicates; a losing insert reports
// inserted=false and leaves the winner's row untouched.
func (r *ReviewRepository) CreateReview(ctx context.Context, input ports.ReviewRecordCreate) (bool, error) {
	if ports.TxFromContext(ctx) != nil {
		db, err := r.dbFromContext(ctx)
		if err != nil {
			return false, err
		}

		row := model.SearchImageReview{
			ReviewerEmail: input.ReviewerEmail,
			IngestionID:   input.IngestionID,
			Score:         input.Score,
			CreatedAt:     input.CreatedAt,
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reviewer_email"}, {Name: "ingestion_id"}},
			DoNothing: true,
		}).Create(&row)
		if result.Error != nil {
			return false, errs.Wrap(errs.WithStack(result.Error), "insert review record")
		}
		return result.RowsAffected > 0, nil
	}

	inserted := false
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := ports.WithTxContext(ctx, tx)
		ok, err := r.CreateReview(txCtx, input)
		if err != nil {
			return err
		}
		inserted = ok
		return nil
	}); err != nil {
		return false, err
	}
	return inserted, nil
}

func mapItem(row model.SearchImage) ports.ReviewItem {
	return ports.ReviewItem{
		ID:             row.ID,
		IngestionID:    row.IngestionID,
		MediaKey:       row.MediaKey,
		AssignedBatch:  row.AssignedBatch,
		PinterestQuery: row.PinterestQuery,
	}
}
