package version

import (
	"fmt"
	"time"
)

// Overridden at build time via
// -ldflags "-X delve-server/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    string
	BuildDate string // YYYY-MM-DD (UTC)
)

var buildEpoch = time.Date(
	2026, time.January, 1,
	0, 0, 0, 0,
	time.UTC,
)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	Version    string
	BuildID    int
	BuildDate  string
	Commit     string
	Calculated bool
	Error      string `json:",omitempty"`
}

// CalculateBuildID numbers the build by its day offset from the
// project epoch, so IDs sort chronologically across branches.
func CalculateBuildID() (int, error) {
	if BuildDate == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", BuildDate, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", BuildDate, err)
	}

	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", BuildDate)
	}

	// Using hours avoids DST issues; epoch and build date are both UTC.
	days := int(t.Sub(buildEpoch).Hours() / 24)
	return days, nil
}

// Info returns structured version information. Safe to call at any
// time; local builds report an uncalculated ID.
func Info() VersionInfo {
	id, err := CalculateBuildID()

	info := VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    Commit,
	}

	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String returns a human-readable build string.
func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("delve-server %s (build unknown: %s)", info.Version, info.Error)
	}

	return fmt.Sprintf(
		"delve-server %s build %d (%s) commit[%s]",
		info.Version,
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
