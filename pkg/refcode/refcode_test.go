package refcode

import (
	"regexp"
	"testing"
	"time"
)

var codeRE = regexp.MustCompile(`^.{1,3}-\d{6}-[0-9a-f]{8}$`)

func TestGenerateFormat(t *testing.T) {
	code := Generate("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	if !codeRE.MatchString(code) {
		t.Fatalf("code %q does not match expected shape", code)
	}
	if code[:3] != "f47" {
		t.Errorf("prefix = %q, want first three characters of the seed", code[:3])
	}
}

func TestGenerateDateStamp(t *testing.T) {
	at := time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)
	code := generateAt("subject-1", at)
	if got := code[4:10]; got != "260309" {
		t.Errorf("date stamp = %q, want 260309", got)
	}
}

func TestGenerateShortSeedUsedInFull(t *testing.T) {
	code := Generate("ab")
	if code[:3] != "ab-" {
		t.Errorf("short seed should be used whole, got %q", code)
	}
}

func TestGenerateUniqueSuffixes(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := Generate("sub")
		if seen[code] {
			t.Fatalf("duplicate code after %d generations: %s", i, code)
		}
		seen[code] = true
	}
}
