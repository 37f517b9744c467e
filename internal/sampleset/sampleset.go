// Package sampleset holds the fixed, versioned sample data the loader writes.
//
// A Set is passed explicitly to the loader rather than living in package
// state, so tests and alternative environments can load their own data.
// Built-in sets are literal constants rebuilt on every call; additional sets
// can be read from YAML files.
package sampleset

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/octofit/tracker/seed/internal/database"
)

// DateLayout is the calendar date format used by sample data.
const DateLayout = "2006-01-02"

// ErrInvalid marks a sample set that cannot be loaded.
var ErrInvalid = errors.New("invalid sample set")

// Set is one versioned fixture
type Set struct {
	Name          string            `yaml:"name"`
	Version       string            `yaml:"version"`
	ReferenceDate string            `yaml:"reference_date,omitempty"` // default date for undated records
	Accounts      []AccountSeed     `yaml:"accounts"`
	Teams         []TeamSeed        `yaml:"teams"`
	Activities    []ActivitySeed    `yaml:"activities"`
	Leaderboard   []LeaderboardSeed `yaml:"leaderboard"`
	Workouts      []WorkoutSeed     `yaml:"workouts"`
}

// AccountSeed describes one account. ID is optional; the loader generates one.
type AccountSeed struct {
	ID       string `yaml:"id,omitempty"`
	Username string `yaml:"username,omitempty"`
	Email    string `yaml:"email"`
	Name     string `yaml:"name,omitempty"`
	Age      int    `yaml:"age,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Key is the name activities use to reference the account.
func (a AccountSeed) Key() string {
	if a.Username != "" {
		return a.Username
	}
	return a.Name
}

// TeamSeed describes one team. Members are assigned by the loader.
type TeamSeed struct {
	ID   string `yaml:"id,omitempty"`
	Name string `yaml:"name"`
}

// ActivitySeed references its owner by account key.
type ActivitySeed struct {
	Account  string `yaml:"account"`
	Kind     string `yaml:"type"`
	Duration int    `yaml:"duration"`
	Date     string `yaml:"date,omitempty"`
}

// LeaderboardSeed carries points only; the team is chosen round-robin.
type LeaderboardSeed struct {
	Points int    `yaml:"points"`
	Date   string `yaml:"date,omitempty"`
}

// WorkoutSeed leaves Duration nil to have it derived from the plan name.
type WorkoutSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Duration    *int   `yaml:"duration,omitempty"`
}

// Validate checks the set before anything is written. Duplicate emails are
// reported as database.ErrDuplicate so callers see the same error kind the
// store's unique index would raise.
func (s *Set) Validate() error {
	var errs []error

	seen := make(map[string]int, len(s.Accounts))
	for i, a := range s.Accounts {
		email := normalizeEmail(a.Email)
		if email == "" {
			errs = append(errs, fmt.Errorf("%w: accounts[%d] has no email", ErrInvalid, i))
			continue
		}
		if first, ok := seen[email]; ok {
			errs = append(errs, fmt.Errorf("%w: email %q at accounts[%d] and accounts[%d]", database.ErrDuplicate, a.Email, first, i))
			continue
		}
		seen[email] = i
		if a.Key() == "" {
			errs = append(errs, fmt.Errorf("%w: accounts[%d] needs a username or name", ErrInvalid, i))
		}
	}

	if _, err := parseOptionalDate(s.ReferenceDate); err != nil {
		errs = append(errs, fmt.Errorf("%w: reference_date: %v", ErrInvalid, err))
	}
	for i, a := range s.Activities {
		if a.Duration < 0 {
			errs = append(errs, fmt.Errorf("%w: activities[%d] has negative duration", ErrInvalid, i))
		}
		if _, err := parseOptionalDate(a.Date); err != nil {
			errs = append(errs, fmt.Errorf("%w: activities[%d].date: %v", ErrInvalid, i, err))
		}
	}
	for i, l := range s.Leaderboard {
		if _, err := parseOptionalDate(l.Date); err != nil {
			errs = append(errs, fmt.Errorf("%w: leaderboard[%d].date: %v", ErrInvalid, i, err))
		}
	}
	for i, w := range s.Workouts {
		if w.Duration != nil && *w.Duration < 0 {
			errs = append(errs, fmt.Errorf("%w: workouts[%d] has negative duration", ErrInvalid, i))
		}
	}

	return errors.Join(errs...)
}

// Date parses a sample date; the zero time means "not set".
func Date(s string) (time.Time, error) {
	return parseOptionalDate(s)
}

// Total is the number of records in the set across all collections.
func (s *Set) Total() int {
	return len(s.Accounts) + len(s.Teams) + len(s.Activities) + len(s.Leaderboard) + len(s.Workouts)
}

// String identifies the set in logs
func (s *Set) String() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + "@" + s.Version
}

func parseOptionalDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func intPtr(v int) *int { return &v }
