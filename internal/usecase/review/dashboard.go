package review

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"searchreview/internal/bootstrap/logging"
	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/errs"
	"searchreview/internal/ports"
)

const dayFormat = "2006-01-02"

type dayBucket struct {
	count int
	sum   float64
}

// Dashboard reports today's throughput, the per-day trailing history, and the
// pending count for one reviewer. All store reads happen inside a single
// transaction so the three figures describe one snapshot.
func (s *Service) Dashboard(ctx context.Context, email string) (DashboardView, error) {
	if ctx == nil {
		return DashboardView{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return DashboardView{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return DashboardView{}, errors.New("review repository is required")
	}
	if s.uow == nil {
		return DashboardView{}, errors.New("review unit of work is required")
	}

	email, err := domainreview.NormalizeEmail(email)
	if err != nil {
		return DashboardView{}, err
	}

	localNow := s.now().In(s.location)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, s.location)
	windowStart := today.AddDate(0, 0, -(s.history - 1))

	var (
		totalItems    int64
		reviewedSoFar int64
		recent        []ports.ReviewRecord
	)
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		identity, err := s.repo.GetReviewer(txCtx, email)
		if err != nil {
			return err
		}

		totalItems, err = s.repo.CountItemsInBatch(txCtx, identity.AssignedBatch)
		if err != nil {
			return err
		}

		reviewedSoFar, err = s.repo.CountReviewsByReviewer(txCtx, email)
		if err != nil {
			return err
		}

		recent, err = s.repo.ListReviewsSince(txCtx, email, windowStart.UTC())
		return err
	}); err != nil {
		return DashboardView{}, err
	}

	buckets := make(map[string]*dayBucket, s.history)
	for _, record := range recent {
		day := record.CreatedAt.In(s.location).Format(dayFormat)
		bucket, ok := buckets[day]
		if !ok {
			bucket = &dayBucket{}
			buckets[day] = bucket
		}
		bucket.count++
		bucket.sum += record.Score
	}

	// Today is always present and zero-filled; history stays sparse.
	todayKey := today.Format(dayFormat)
	todayStats := TodayStats{}
	if bucket, ok := buckets[todayKey]; ok {
		todayStats = TodayStats{
			Reviews: bucket.count,
			Likes:   bucket.sum / float64(bucket.count),
		}
	}

	historical := make([]DayStats, 0, len(buckets))
	for offset := 0; offset < s.history; offset++ {
		day := today.AddDate(0, 0, -offset).Format(dayFormat)
		bucket, ok := buckets[day]
		if !ok {
			continue
		}
		historical = append(historical, DayStats{
			Date:    day,
			Reviews: bucket.count,
			Likes:   bucket.sum / float64(bucket.count),
		})
	}

	pending := totalItems - reviewedSoFar
	if pending < 0 {
		// Reviewed records outside the current batch; surface zero, not a
		// negative count.
		logging.Warn(ctx, "pending count clamped",
			slog.String("reviewer", email),
			slog.Int64("items", totalItems),
			slog.Int64("reviewed", reviewedSoFar),
		)
		pending = 0
	}

	return DashboardView{
		Today:      todayStats,
		Historical: historical,
		Pending:    pending,
	}, nil
}
