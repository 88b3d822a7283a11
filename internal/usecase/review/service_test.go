package review

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/infrastructure/persistence/sqlite/model"
	"searchreview/internal/infrastructure/persistence/sqlite/repository"
	"searchreview/internal/infrastructure/persistence/sqlite/uow"
	"searchreview/internal/ports"
)

// fixedNow is 20:30 IST on 2026-08-31; the local calendar date is 2026-08-31.
var fixedNow = time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)

type fakeSigner struct {
	calls int
}

func (f *fakeSigner) Sign(_ context.Context, objectKey string) (ports.SignedURL, error) {
	f.calls++
	return ports.SignedURL{
		URL:       "https://storage.example.com/bucket/" + objectKey + "?sig=abc",
		ExpiresIn: 86400,
	}, nil
}

type fakeAuthenticator struct {
	ok bool
}

func (f *fakeAuthenticator) Authenticate(context.Context, string, string) (bool, error) {
	return f.ok, nil
}

func setupService(t *testing.T) (*Service, *repository.ReviewRepository, *fakeSigner) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "review.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(
		&model.ReviewerIdentity{},
		&model.SearchImage{},
		&model.SearchImageReview{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	location, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	repo := repository.NewReviewRepository(db)
	signer := &fakeSigner{}
	svc := NewService(repo, uow.NewUnitOfWork(db), nil, signer, &fakeAuthenticator{ok: true}, Settings{
		Location:    location,
		BatchLimit:  300,
		HistoryDays: 10,
	})
	svc.now = func() time.Time { return fixedNow }

	return svc, repo, signer
}

func seedReviewer(t *testing.T, repo *repository.ReviewRepository, email, batch string) {
	t.Helper()

	if err := repo.UpsertReviewer(context.Background(), ports.ReviewerIdentity{
		Email:         email,
		AssignedBatch: batch,
		PasswordHash:  "x",
		CreatedAt:     fixedNow,
	}); err != nil {
		t.Fatalf("upsert reviewer: %v", err)
	}
}

func seedItem(t *testing.T, repo *repository.ReviewRepository, ingestionID, batch string) ports.ReviewItem {
	t.Helper()

	item, err := repo.CreateItem(context.Background(), ports.ReviewItem{
		IngestionID:    ingestionID,
		MediaKey:       ingestionID + ".jpg",
		AssignedBatch:  batch,
		PinterestQuery: "q",
	})
	if err != nil {
		t.Fatalf("create item %s: %v", ingestionID, err)
	}
	return item
}

func seedReviewAt(t *testing.T, repo *repository.ReviewRepository, email, ingestionID string, score float64, at time.Time) {
	t.Helper()

	inserted, err := repo.CreateReview(context.Background(), ports.ReviewRecordCreate{
		ReviewerEmail: email,
		IngestionID:   ingestionID,
		Score:         score,
		CreatedAt:     at,
	})
	if err != nil {
		t.Fatalf("create review %s: %v", ingestionID, err)
	}
	if !inserted {
		t.Fatalf("create review %s: duplicate", ingestionID)
	}
}

func TestReviewSessionScenario(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	seedReviewer(t, repo, "a@x.com", "7")
	first := seedItem(t, repo, "ing-10", "7")
	second := seedItem(t, repo, "ing-11", "7")
	third := seedItem(t, repo, "ing-12", "7")

	items, err := svc.UnreviewedBatch(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("UnreviewedBatch() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("UnreviewedBatch() len = %d", len(items))
	}
	wantOrder := []uint64{third.ID, second.ID, first.ID}
	for i, want := range wantOrder {
		if items[i].ID != want {
			t.Fatalf("items[%d].ID = %d, want %d", i, items[i].ID, want)
		}
	}

	dash, err := svc.Dashboard(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if dash.Pending != 3 {
		t.Fatalf("pending = %d, want 3", dash.Pending)
	}
	if dash.Today.Reviews != 0 || dash.Today.Likes != 0 {
		t.Fatalf("today = %+v, want zero-filled", dash.Today)
	}

	if err := svc.SubmitReview(ctx, SubmitReviewInput{
		ReviewerEmail: "a@x.com",
		IngestionID:   third.IngestionID,
		Score:         4.0,
	}); err != nil {
		t.Fatalf("SubmitReview() error = %v", err)
	}

	items, err = svc.UnreviewedBatch(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("UnreviewedBatch() after submit error = %v", err)
	}
	if len(items) != 2 || items[0].ID != second.ID || items[1].ID != first.ID {
		t.Fatalf("UnreviewedBatch() after submit = %+v", items)
	}

	dash, err = svc.Dashboard(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Dashboard() after submit error = %v", err)
	}
	if dash.Pending != 2 {
		t.Fatalf("pending after submit = %d, want 2", dash.Pending)
	}
	if dash.Today.Reviews != 1 || dash.Today.Likes != 4.0 {
		t.Fatalf("today after submit = %+v, want {1 4}", dash.Today)
	}
}

func TestUnreviewedBatchUnknownReviewer(t *testing.T) {
	svc, _, _ := setupService(t)

	if _, err := svc.UnreviewedBatch(context.Background(), "nobody@x.com"); !errors.Is(err, domainreview.ErrReviewerNotFound) {
		t.Fatalf("UnreviewedBatch() error = %v", err)
	}
}

func TestUnreviewedBatchEmptyIsSessionComplete(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	seedReviewer(t, repo, "a@x.com", "7")
	item := seedItem(t, repo, "ing-1", "7")
	seedReviewAt(t, repo, "a@x.com", item.IngestionID, 3, fixedNow)

	items, err := svc.UnreviewedBatch(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("UnreviewedBatch() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("UnreviewedBatch() len = %d, want 0", len(items))
	}
}

func TestDashboardUnknownReviewer(t *testing.T) {
	svc, _, _ := setupService(t)

	if _, err := svc.Dashboard(context.Background(), "nobody@x.com"); !errors.Is(err, domainreview.ErrReviewerNotFound) {
		t.Fatalf("Dashboard() error = %v, want reviewer not found", err)
	}
}

func TestDashboardRequiresEmail(t *testing.T) {
	svc, _, _ := setupService(t)

	if _, err := svc.Dashboard(context.Background(), "  "); !errors.Is(err, domainreview.ErrEmailRequired) {
		t.Fatalf("Dashboard() error = %v", err)
	}
}

func TestDashboardHistoricalWindow(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	seedReviewer(t, repo, "a@x.com", "7")

	// 20:30 IST today, 01:00 IST today (previous UTC day), three days ago,
	// nine days ago (window edge), and eleven days ago (outside).
	seedReviewAt(t, repo, "a@x.com", "ing-a", 4, fixedNow)
	seedReviewAt(t, repo, "a@x.com", "ing-b", 2, time.Date(2026, 8, 30, 19, 30, 0, 0, time.UTC))
	seedReviewAt(t, repo, "a@x.com", "ing-c", 5, fixedNow.AddDate(0, 0, -3))
	seedReviewAt(t, repo, "a@x.com", "ing-d", 1, fixedNow.AddDate(0, 0, -9))
	seedReviewAt(t, repo, "a@x.com", "ing-e", 3, fixedNow.AddDate(0, 0, -11))

	dash, err := svc.Dashboard(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	if dash.Today.Reviews != 2 || dash.Today.Likes != 3.0 {
		t.Fatalf("today = %+v, want {2 3} (UTC record lands on local today)", dash.Today)
	}

	wantDates := []string{"2026-08-31", "2026-08-28", "2026-08-22"}
	if len(dash.Historical) != len(wantDates) {
		t.Fatalf("historical len = %d, rows = %+v", len(dash.Historical), dash.Historical)
	}
	for i, want := range wantDates {
		if dash.Historical[i].Date != want {
			t.Fatalf("historical[%d].Date = %s, want %s", i, dash.Historical[i].Date, want)
		}
	}
	for i := 1; i < len(dash.Historical); i++ {
		if dash.Historical[i-1].Date <= dash.Historical[i].Date {
			t.Fatalf("historical not strictly date descending: %+v", dash.Historical)
		}
	}
}

func TestDashboardPendingClampsAtZero(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	// Reviews reference items from an older batch; the batch itself is empty.
	seedReviewer(t, repo, "a@x.com", "7")
	seedReviewAt(t, repo, "a@x.com", "stale-1", 3, fixedNow)
	seedReviewAt(t, repo, "a@x.com", "stale-2", 3, fixedNow)

	dash, err := svc.Dashboard(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if dash.Pending != 0 {
		t.Fatalf("pending = %d, want clamped 0", dash.Pending)
	}
}

func TestSubmitReviewDuplicate(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	seedReviewer(t, repo, "a@x.com", "7")
	item := seedItem(t, repo, "ing-1", "7")

	input := SubmitReviewInput{ReviewerEmail: "a@x.com", IngestionID: item.IngestionID, Score: 4}
	if err := svc.SubmitReview(ctx, input); err != nil {
		t.Fatalf("first SubmitReview() error = %v", err)
	}
	if err := svc.SubmitReview(ctx, input); !errors.Is(err, domainreview.ErrDuplicateReview) {
		t.Fatalf("second SubmitReview() error = %v, want duplicate", err)
	}

	count, err := repo.CountReviewsByReviewer(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("CountReviewsByReviewer() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("review count = %d, want 1", count)
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input SubmitReviewInput
		want  error
	}{
		{"missing email", SubmitReviewInput{IngestionID: "ing-1", Score: 3}, domainreview.ErrEmailRequired},
		{"missing ingestion id", SubmitReviewInput{ReviewerEmail: "a@x.com", Score: 3}, domainreview.ErrIngestionIDRequired},
		{"score too low", SubmitReviewInput{ReviewerEmail: "a@x.com", IngestionID: "ing-1", Score: 0.5}, domainreview.ErrScoreOutOfRange},
		{"score too high", SubmitReviewInput{ReviewerEmail: "a@x.com", IngestionID: "ing-1", Score: 6}, domainreview.ErrScoreOutOfRange},
	}
	for _, tc := range cases {
		if err := svc.SubmitReview(ctx, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: SubmitReview() error = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestResolveBatch(t *testing.T) {
	svc, repo, _ := setupService(t)
	ctx := context.Background()

	seedReviewer(t, repo, "a@x.com", "7")

	batch, err := svc.ResolveBatch(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("ResolveBatch() error = %v", err)
	}
	if batch != "7" {
		t.Fatalf("ResolveBatch() = %q", batch)
	}

	if _, err := svc.ResolveBatch(ctx, "nobody@x.com"); !errors.Is(err, domainreview.ErrReviewerNotFound) {
		t.Fatalf("ResolveBatch(unknown) error = %v", err)
	}
}

type memoryCache struct {
	entries map[string]string
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	value, found := c.entries[key]
	return value, found, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func TestSignObjectURLPurgesMalformedCacheEntry(t *testing.T) {
	svc, _, signer := setupService(t)
	ctx := context.Background()

	cache := newMemoryCache()
	svc.cache = cache
	cache.entries["signed-url:ing-1/a.jpg"] = "{not json"

	view, err := svc.SignObjectURL(ctx, SignObjectURLInput{IngestionID: "ing-1", MediaKey: "a.jpg"})
	if err != nil {
		t.Fatalf("SignObjectURL() error = %v", err)
	}
	if view.URL == "" {
		t.Fatalf("SignObjectURL() = %+v", view)
	}
	if signer.calls != 1 {
		t.Fatalf("signer calls = %d, want re-sign past malformed entry", signer.calls)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != "signed-url:ing-1/a.jpg" {
		t.Fatalf("deleted keys = %v, want malformed entry purged", cache.deleted)
	}

	// The fresh view replaces the purged entry and serves the next call.
	if _, err := svc.SignObjectURL(ctx, SignObjectURLInput{IngestionID: "ing-1", MediaKey: "a.jpg"}); err != nil {
		t.Fatalf("second SignObjectURL() error = %v", err)
	}
	if signer.calls != 1 {
		t.Fatalf("signer calls = %d, want cache hit", signer.calls)
	}
}

func TestSignObjectURL(t *testing.T) {
	svc, _, signer := setupService(t)
	ctx := context.Background()

	view, err := svc.SignObjectURL(ctx, SignObjectURLInput{IngestionID: "ing-1", MediaKey: "a.jpg"})
	if err != nil {
		t.Fatalf("SignObjectURL() error = %v", err)
	}
	if view.URL == "" || view.ExpiresIn != 86400 {
		t.Fatalf("SignObjectURL() = %+v", view)
	}
	if signer.calls != 1 {
		t.Fatalf("signer calls = %d", signer.calls)
	}

	if _, err := svc.SignObjectURL(ctx, SignObjectURLInput{IngestionID: "ing-1"}); !errors.Is(err, domainreview.ErrMediaKeyRequired) {
		t.Fatalf("SignObjectURL(no media key) error = %v", err)
	}
}

func TestAuthenticateValidation(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.Authenticate(ctx, "", "pw"); !errors.Is(err, domainreview.ErrEmailRequired) {
		t.Fatalf("Authenticate(no email) error = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "a@x.com", ""); !errors.Is(err, domainreview.ErrPasswordRequired) {
		t.Fatalf("Authenticate(no password) error = %v", err)
	}

	ok, err := svc.Authenticate(ctx, "a@x.com", "pw")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if !ok {
		t.Fatalf("Authenticate() = false")
	}
}
