package review

import (
	"time"

	"searchreview/internal/ports"
)

const (
	defaultBatchLimit  = 300
	defaultHistoryDays = 10
)

// Settings carries the review policy knobs resolved at bootstrap.
type Settings struct {
	// Location is the fixed zone for calendar-day bucketing.
	Location    *time.Location
	BatchLimit  int
	HistoryDays int
}

type Service struct {
	repo     ports.ReviewRepository
	uow      ports.UnitOfWork
	cache    ports.Cache
	signer   ports.ObjectSigner
	authn    ports.Authenticator
	location *time.Location
	limit    int
	history  int
	now      func() time.Time
}

// NewService wires the review usecases with their collaborators.
func NewService(
	repo ports.ReviewRepository,
	uow ports.UnitOfWork,
	cache ports.Cache,
	signer ports.ObjectSigner,
	authn ports.Authenticator,
	settings Settings,
) *Service {
	location := settings.Location
	if location == nil {
		location = time.UTC
	}
	limit := settings.BatchLimit
	if limit <= 0 {
		limit = defaultBatchLimit
	}
	history := settings.HistoryDays
	if history <= 0 {
		history = defaultHistoryDays
	}

	return &Service{
		repo:     repo,
		uow:      uow,
		cache:    cache,
		signer:   signer,
		authn:    authn,
		location: location,
		limit:    limit,
		history:  history,
		now:      time.Now,
	}
}

// ItemView is the client-facing shape of one unreviewed item.
type ItemView struct {
	ID             uint64 `json:"id"`
	IngestionID    string `json:"ingestion_id"`
	MediaKey       string `json:"media_key"`
	PinterestQuery string `json:"pinterest_query"`
}

type TodayStats struct {
	Reviews int     `json:"reviews"`
	Likes   float64 `json:"likes"`
}

type DayStats struct {
	Date    string  `json:"date"`
	Reviews int     `json:"reviews"`
	Likes   float64 `json:"likes"`
}

type DashboardView struct {
	Today      TodayStats `json:"today"`
	Historical []DayStats `json:"historical"`
	Pending    int64      `json:"pending"`
}

type SubmitReviewInput struct {
	ReviewerEmail string
	IngestionID   string
	Score         float64
}

type SignObjectURLInput struct {
	IngestionID string
	MediaKey    string
}

type SignedURLView struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}
