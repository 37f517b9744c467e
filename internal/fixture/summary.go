package fixture

import (
	"fmt"
	"time"

	"github.com/octofit/tracker/seed/internal/model"
)

// Summary reports what a load wrote
type Summary struct {
	SampleSet  string           `json:"sample_set"`
	Inserted   map[string]int   `json:"inserted"`
	Skipped    []SkippedEntry   `json:"skipped,omitempty"`
	Teams      []TeamAssignment `json:"teams"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

// SkippedEntry is a sample record left out because its reference did not resolve.
type SkippedEntry struct {
	Collection string `json:"collection"`
	Position   int    `json:"position"`
	Reference  string `json:"reference"`
	Reason     string `json:"reason"`
}

// Err returns the skip as an ErrUnresolvedReference error.
func (e SkippedEntry) Err() error {
	return fmt.Errorf("%w: %s[%d] -> %q: %s", ErrUnresolvedReference, e.Collection, e.Position, e.Reference, e.Reason)
}

// TeamAssignment lists the accounts placed in a team
type TeamAssignment struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`    // account keys
	MemberIDs []string `json:"member_ids"` // account identifiers
}

func newSummary(sampleSet string, started time.Time) *Summary {
	inserted := make(map[string]int, len(model.Collections))
	for _, c := range model.Collections {
		inserted[c] = 0
	}
	return &Summary{
		SampleSet: sampleSet,
		Inserted:  inserted,
		StartedAt: started,
	}
}

// SkippedIn counts skipped entries of one collection
func (s *Summary) SkippedIn(collection string) int {
	n := 0
	for _, e := range s.Skipped {
		if e.Collection == collection {
			n++
		}
	}
	return n
}

// Total is the number of documents inserted across all collections
func (s *Summary) Total() int {
	total := 0
	for _, n := range s.Inserted {
		total += n
	}
	return total
}

// Duration is the wall time of the load
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Team returns the assignment for a team name
func (s *Summary) Team(name string) (TeamAssignment, bool) {
	for _, t := range s.Teams {
		if t.Name == name {
			return t, true
		}
	}
	return TeamAssignment{}, false
}
