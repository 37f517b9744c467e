package fixture

import "strings"

// DurationRule maps a keyword found in a workout name to its length in minutes.
type DurationRule struct {
	Keyword string
	Minutes int
}

// DurationPolicy derives a workout duration from its name. Rules are tried
// in order; the first keyword contained in the name (case-insensitive) wins.
type DurationPolicy struct {
	Rules   []DurationRule
	Default int
}

// WorkoutDurationPolicy applies to workouts whose sample data has no duration.
var WorkoutDurationPolicy = DurationPolicy{
	Rules: []DurationRule{
		{Keyword: "Cycling", Minutes: 60},
		{Keyword: "Crossfit", Minutes: 120},
		{Keyword: "Running", Minutes: 90},
		{Keyword: "Strength", Minutes: 30},
	},
	Default: 75,
}

// Minutes returns the duration for a workout called name.
func (p DurationPolicy) Minutes(name string) int {
	lower := strings.ToLower(name)
	for _, r := range p.Rules {
		if strings.Contains(lower, strings.ToLower(r.Keyword)) {
			return r.Minutes
		}
	}
	return p.Default
}
