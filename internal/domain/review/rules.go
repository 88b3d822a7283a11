package review

import (
	"math"
	"strings"
)

// Score bounds for a single review, inclusive.
const (
	ScoreMin = 1.0
	ScoreMax = 5.0
)

// NormalizeEmail trims the reviewer email and rejects empty input.
// Emails are compared exactly as stored; no case folding happens here.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", ErrEmailRequired
	}
	return trimmed, nil
}

// NormalizeIngestionID trims the external item identifier and rejects empty input.
func NormalizeIngestionID(ingestionID string) (string, error) {
	trimmed := strings.TrimSpace(ingestionID)
	if trimmed == "" {
		return "", ErrIngestionIDRequired
	}
	return trimmed, nil
}

// ValidateScore enforces that a score is finite and within [ScoreMin, ScoreMax].
func ValidateScore(score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return ErrScoreOutOfRange
	}
	if score < ScoreMin || score > ScoreMax {
		return ErrScoreOutOfRange
	}
	return nil
}

// ObjectKey composes the storage object key for a review item.
func ObjectKey(ingestionID, mediaKey string) string {
	return ingestionID + "/" + mediaKey
}
