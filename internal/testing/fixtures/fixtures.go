package fixtures

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/octofit/tracker/seed/internal/model"
	"github.com/octofit/tracker/seed/internal/sampleset"
)

// ReferenceTime is the clock reading used by deterministic loads.
var ReferenceTime = time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC)

// ============================================================================
// Sample Set Fixtures
// ============================================================================

// SetOpts customizes sample set creation
type SetOpts struct {
	Accounts    int
	Teams       int
	Leaderboard int
	Workouts    int
	Passwords   bool
	// Unresolved appends activities that reference unknown accounts.
	Unresolved []string
	// Duplicate gives the account at Duplicate[1] the email of Duplicate[0].
	Duplicate []int
}

// WithAccounts sets the number of accounts (one activity each)
func WithAccounts(n int) func(*SetOpts) { return func(o *SetOpts) { o.Accounts = n } }

// WithTeams sets the number of teams
func WithTeams(n int) func(*SetOpts) { return func(o *SetOpts) { o.Teams = n } }

// WithLeaderboard sets the number of leaderboard entries
func WithLeaderboard(n int) func(*SetOpts) { return func(o *SetOpts) { o.Leaderboard = n } }

// WithWorkouts sets the number of workouts
func WithWorkouts(n int) func(*SetOpts) { return func(o *SetOpts) { o.Workouts = n } }

// WithPasswords gives every account a password
func WithPasswords() func(*SetOpts) { return func(o *SetOpts) { o.Passwords = true } }

// WithUnresolvedActivities adds activities owned by accounts that do not exist
func WithUnresolvedActivities(keys ...string) func(*SetOpts) {
	return func(o *SetOpts) { o.Unresolved = append(o.Unresolved, keys...) }
}

// WithDuplicateEmail copies the email of account first onto account second
func WithDuplicateEmail(first, second int) func(*SetOpts) {
	return func(o *SetOpts) { o.Duplicate = []int{first, second} }
}

// SampleSet builds a valid set: 5 accounts, 2 teams, one activity per
// account, 5 leaderboard entries and 5 workouts unless overridden.
func SampleSet(opts ...func(*SetOpts)) *sampleset.Set {
	o := &SetOpts{Accounts: 5, Teams: 2, Leaderboard: 5, Workouts: 5}
	for _, fn := range opts {
		fn(o)
	}

	set := &sampleset.Set{Name: "fixture", Version: "test", ReferenceDate: "2025-04-09"}
	for i := 0; i < o.Accounts; i++ {
		a := sampleset.AccountSeed{
			Username: fmt.Sprintf("user%02d", i),
			Name:     fmt.Sprintf("User %02d", i),
			Email:    fmt.Sprintf("user%02d@test.local", i),
			Age:      20 + i,
		}
		if o.Passwords {
			a.Password = fmt.Sprintf("pass%02d", i)
		}
		set.Accounts = append(set.Accounts, a)

		kind := model.ActivityKinds[i%len(model.ActivityKinds)]
		set.Activities = append(set.Activities, sampleset.ActivitySeed{
			Account:  a.Username,
			Kind:     string(kind),
			Duration: 15 * (i + 1),
		})
	}
	if len(o.Duplicate) == 2 {
		set.Accounts[o.Duplicate[1]].Email = set.Accounts[o.Duplicate[0]].Email
	}
	for _, key := range o.Unresolved {
		set.Activities = append(set.Activities, sampleset.ActivitySeed{Account: key, Kind: "Running", Duration: 10})
	}
	for i := 0; i < o.Teams; i++ {
		set.Teams = append(set.Teams, sampleset.TeamSeed{Name: fmt.Sprintf("Team %d", i)})
	}
	for i := 0; i < o.Leaderboard; i++ {
		set.Leaderboard = append(set.Leaderboard, sampleset.LeaderboardSeed{Points: 100 - i})
	}
	for i := 0; i < o.Workouts; i++ {
		kind := model.ActivityKinds[i%len(model.ActivityKinds)]
		set.Workouts = append(set.Workouts, sampleset.WorkoutSeed{
			Name:        fmt.Sprintf("%s Plan %d", kind, i),
			Description: "generated",
		})
	}
	return set
}

// ============================================================================
// Deterministic Dependencies
// ============================================================================

// SequentialIDs returns an ID generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// FixedClock returns a clock stuck at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
