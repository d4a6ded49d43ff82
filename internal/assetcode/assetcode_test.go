package assetcode

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

var fullPattern = regexp.MustCompile(`^AST-ELE-LAP-\d{6}-\d{4}(-\d{2})?$`)
var barePattern = regexp.MustCompile(`^AST-\d{14}-\d{4}(-\d{2})?$`)

func TestGenerateWithCategoryCodes(t *testing.T) {
	code := Generate("AST", "ELE", "LAP", nil)
	if !fullPattern.MatchString(code) {
		t.Fatalf("unexpected code format: %q", code)
	}
}

func TestGenerateWithoutCategoryCodes(t *testing.T) {
	code := Generate("AST", "", "", nil)
	if !barePattern.MatchString(code) {
		t.Fatalf("unexpected code format: %q", code)
	}

	// A missing subcategory alone also falls back to the long form.
	code = Generate("AST", "ELE", "", nil)
	if !barePattern.MatchString(code) {
		t.Fatalf("unexpected code format: %q", code)
	}
}

func TestGenerateTimestampDigits(t *testing.T) {
	at := time.Date(2026, 8, 31, 14, 30, 59, 0, time.UTC)
	code := generateAt(at, "AST", "ELE", "LAP", nil)
	if !strings.HasPrefix(code, "AST-ELE-LAP-143059-") {
		t.Fatalf("expected last six timestamp digits 143059, got %q", code)
	}

	code = generateAt(at, "AST", "", "", nil)
	if !strings.HasPrefix(code, "AST-20260831143059-") {
		t.Fatalf("expected full timestamp, got %q", code)
	}
}

// Uniqueness is "very likely", not guaranteed: the collision fallback
// appends one random suffix and does not loop. This test only asserts
// that feeding each generated code back into the existing set never
// yields an immediate repeat within the run.
func TestGenerateFeedbackNeverRepeats(t *testing.T) {
	existing := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := Generate("AST", "ELE", "LAP", existing)
		if existing[code] {
			t.Fatalf("generated duplicate code %q on iteration %d", code, i)
		}
		existing[code] = true
	}
}

func TestGenerateCollisionSuffix(t *testing.T) {
	at := time.Date(2026, 8, 31, 14, 30, 59, 0, time.UTC)

	// Saturate the 4-digit suffix space for this timestamp so the
	// first candidate always collides.
	existing := make(map[string]bool)
	for n := 1000; n <= 9999; n++ {
		existing["AST-ELE-LAP-143059-"+strconv.Itoa(n)] = true
	}

	code := generateAt(at, "AST", "ELE", "LAP", existing)
	if !regexp.MustCompile(`^AST-ELE-LAP-143059-\d{4}-\d{2}$`).MatchString(code) {
		t.Fatalf("expected a 2-digit collision suffix, got %q", code)
	}
}

func TestDefaultCode(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Electronics", "ELE"},
		{"Laptops", "LAP"},
		{"IT", "IT"},
		{"", ""},
		{"  Furniture ", "FUR"},
	}
	for _, tc := range cases {
		if got := DefaultCode(tc.name); got != tc.want {
			t.Fatalf("DefaultCode(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
