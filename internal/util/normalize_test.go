package util

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Morning Meeting", "morning meeting"},
		{"strips punctuation", "Ship it! (finally)", "ship it finally"},
		{"collapses whitespace", "weekly   status\treport", "weekly status report"},
		{"trims edges", "  dentist appointment  ", "dentist appointment"},
		{"curly quotes removed", "don’t “forget” this", "dont forget this"},
		{"empty stays empty", "", ""},
		{"only punctuation", "!?.,", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.input); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTaskFingerprintDeterministic(t *testing.T) {
	due := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

	fp1, err := TaskFingerprint("Morning Meeting", &due)
	if err != nil {
		t.Fatalf("TaskFingerprint: %v", err)
	}
	fp2, err := TaskFingerprint("Morning Meeting", &due)
	if err != nil {
		t.Fatalf("TaskFingerprint: %v", err)
	}
	if fp1 != fp2 {
		t.Errorf("same input produced different fingerprints: %s vs %s", fp1, fp2)
	}
	if len(fp1) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(fp1))
	}
}

func TestTaskFingerprintNormalizationInvariance(t *testing.T) {
	due := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

	fp1, err := TaskFingerprint("Morning Meeting!", &due)
	if err != nil {
		t.Fatalf("TaskFingerprint: %v", err)
	}
	fp2, err := TaskFingerprint("  morning   meeting  ", &due)
	if err != nil {
		t.Fatalf("TaskFingerprint: %v", err)
	}
	if fp1 != fp2 {
		t.Errorf("normalization-equivalent titles produced different fingerprints")
	}
}

func TestTaskFingerprintDueSensitivity(t *testing.T) {
	morning := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)
	evening := time.Date(2024, 3, 15, 18, 0, 0, 0, time.Local)

	fpMorning, _ := TaskFingerprint("review", &morning)
	fpEvening, _ := TaskFingerprint("review", &evening)
	fpNone, _ := TaskFingerprint("review", nil)

	if fpMorning == fpEvening {
		t.Errorf("different due times produced the same fingerprint")
	}
	if fpMorning == fpNone || fpEvening == fpNone {
		t.Errorf("timed and undated tasks produced the same fingerprint")
	}

	fpOther, _ := TaskFingerprint("retro", &morning)
	if fpOther == fpMorning {
		t.Errorf("different titles with the same due produced the same fingerprint")
	}
}

func TestTaskFingerprintAllDayEqualsExplicitMidnight(t *testing.T) {
	allDay := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)

	fp1, _ := TaskFingerprint("review", &allDay)
	fp2, _ := TaskFingerprint("review", &midnight)
	if fp1 != fp2 {
		t.Errorf("all-day and explicit midnight due produced different fingerprints")
	}
}

func TestTaskFingerprintEmptyTitle(t *testing.T) {
	if _, err := TaskFingerprint("", nil); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("empty title error = %v, want ErrEmptyTitle", err)
	}
}
