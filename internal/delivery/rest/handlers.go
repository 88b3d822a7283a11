package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"searchreview/internal/bootstrap/logging"
	domainreview "searchreview/internal/domain/review"
	"searchreview/internal/errs"
	usecasereview "searchreview/internal/usecase/review"
)

type Handler struct {
	svc *usecasereview.Service
}

func NewHandler(svc *usecasereview.Service) *Handler {
	return &Handler{svc: svc}
}

// NewRouter builds the API router. Route names follow the original frontend
// contract: products, dashboard, submit-review, gen-s3-url, auth.
func NewRouter(svc *usecasereview.Service) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.getProducts)
		r.Get("/dashboard", h.getDashboard)
		r.Post("/submit-review", h.postSubmitReview)
		r.Post("/gen-s3-url", h.postGenerateURL)
		r.Post("/auth", h.postAuth)
	})

	return r
}

func (h *Handler) getProducts(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	items, err := h.svc.UnreviewedBatch(r.Context(), email)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	dash, err := h.svc.Dashboard(r.Context(), email)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dash)
}

type submitReviewRequest struct {
	ReviewerEmail string  `json:"reviewer_email"`
	IngestionID   string  `json:"ingestion_id"`
	Score         float64 `json:"score"`
}

func (h *Handler) postSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.SubmitReview(r.Context(), usecasereview.SubmitReviewInput{
		ReviewerEmail: req.ReviewerEmail,
		IngestionID:   req.IngestionID,
		Score:         req.Score,
	}); err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"accepted": true})
}

type generateURLRequest struct {
	IngestionID string `json:"ingestion_id"`
	MediaKey    string `json:"media_key"`
}

func (h *Handler) postGenerateURL(w http.ResponseWriter, r *http.Request) {
	var req generateURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	signed, err := h.svc.SignObjectURL(r.Context(), usecasereview.SignObjectURLInput{
		IngestionID: req.IngestionID,
		MediaKey:    req.MediaKey,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, signed)
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) postAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ok, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true})
}

// renderError maps the error taxonomy onto status codes. Anything outside the
// taxonomy is a store or internal failure: logged, then surfaced as a generic
// 500 so a failed read never looks like an empty result.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domainreview.ErrEmailRequired),
		errors.Is(err, domainreview.ErrIngestionIDRequired),
		errors.Is(err, domainreview.ErrMediaKeyRequired),
		errors.Is(err, domainreview.ErrPasswordRequired),
		errors.Is(err, domainreview.ErrScoreOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainreview.ErrReviewerNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, domainreview.ErrDuplicateReview):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logging.Error(r.Context(), "request failed", slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusInternalServerError, "request failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
