package version

import (
	"strings"
	"testing"
)

func TestCalculateBuildID(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{
			name:     "epoch date",
			date:     "2026-01-01",
			expected: 0,
		},
		{
			name:     "next day after epoch",
			date:     "2026-01-02",
			expected: 1,
		},
		{
			name:     "one year later",
			date:     "2027-01-01",
			expected: 365,
		},
		{
			name:     "date with a leap year included",
			date:     "2032-01-01",
			expected: 2191,
		},
		{
			name:      "invalid format",
			date:      "invalid",
			wantError: true,
		},
		{
			name:      "empty date",
			date:      "",
			wantError: true,
		},
		{
			name:      "before epoch",
			date:      "2025-12-31",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := BuildDate
			defer func() { BuildDate = old }()

			BuildDate = tt.date

			got, err := CalculateBuildID()

			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil (id=%d)", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.expected {
				t.Errorf("CalculateBuildID() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestInfoReportsUncalculatedLocalBuilds(t *testing.T) {
	old := BuildDate
	defer func() { BuildDate = old }()
	BuildDate = ""

	info := Info()
	if info.Calculated {
		t.Error("local build without a date reported a calculated ID")
	}
	if info.Error == "" {
		t.Error("uncalculated info carries no reason")
	}
	if info.Version == "" {
		t.Error("version string is empty")
	}
}

func TestStringCarriesTheBuildNumber(t *testing.T) {
	oldDate, oldCommit := BuildDate, Commit
	defer func() { BuildDate, Commit = oldDate, oldCommit }()
	BuildDate = "2026-01-02"
	Commit = "abc1234"

	s := String()
	if !strings.Contains(s, "build 1") {
		t.Errorf("String() = %q, want the build number", s)
	}
	if !strings.Contains(s, "abc1234") {
		t.Errorf("String() = %q, want the commit", s)
	}
}
