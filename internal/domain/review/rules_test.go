package review

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	got, err := NormalizeEmail("  a@x.com  ")
	if err != nil {
		t.Fatalf("NormalizeEmail() error = %v", err)
	}
	if got != "a@x.com" {
		t.Fatalf("NormalizeEmail() = %q", got)
	}

	if _, err := NormalizeEmail("   "); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("NormalizeEmail(blank) error = %v", err)
	}
}

func TestNormalizeIngestionID(t *testing.T) {
	got, err := NormalizeIngestionID(" ing-42 ")
	if err != nil {
		t.Fatalf("NormalizeIngestionID() error = %v", err)
	}
	if got != "ing-42" {
		t.Fatalf("NormalizeIngestionID() = %q", got)
	}

	if _, err := NormalizeIngestionID(""); !errors.Is(err, ErrIngestionIDRequired) {
		t.Fatalf("NormalizeIngestionID(empty) error = %v", err)
	}
}

func TestValidateScore(t *testing.T) {
	for _, score := range []float64{1, 3.25, 5} {
		if err := ValidateScore(score); err != nil {
			t.Fatalf("ValidateScore(%v) error = %v", score, err)
		}
	}

	for _, score := range []float64{0.99, 5.01, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := ValidateScore(score); !errors.Is(err, ErrScoreOutOfRange) {
			t.Fatalf("ValidateScore(%v) error = %v", score, err)
		}
	}
}

func TestObjectKey(t *testing.T) {
	if got := ObjectKey("ing-1", "img.jpg"); got != "ing-1/img.jpg" {
		t.Fatalf("ObjectKey() = %q", got)
	}
}
