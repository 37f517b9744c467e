package sampleset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultName is the set loaded when none is configured.
const DefaultName = "octofit"

// ErrUnknownSet is returned by Resolve for names that are neither built in nor a file.
var ErrUnknownSet = errors.New("unknown sample set")

var builtins = map[string]func() *Set{
	"octofit": Octofit,
	"mhigh":   MHigh,
	"demo":    Demo,
}

// Names lists the built-in sets
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the built-in set called nameOrPath, or reads it as a YAML file.
func Resolve(nameOrPath string) (*Set, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultName
	}
	if build, ok := builtins[nameOrPath]; ok {
		return build(), nil
	}

	ext := strings.ToLower(filepath.Ext(nameOrPath))
	if ext == ".yaml" || ext == ".yml" {
		return LoadFile(nameOrPath)
	}
	if _, err := os.Stat(nameOrPath); err == nil {
		return LoadFile(nameOrPath)
	}
	return nil, fmt.Errorf("%w: %q (built-in sets: %s)", ErrUnknownSet, nameOrPath, strings.Join(Names(), ", "))
}

// Octofit is the direct-driver fixture: usernames, school emails and
// passwords, with accounts spread over two teams.
func Octofit() *Set {
	return &Set{
		Name:          "octofit",
		Version:       "2025.04.1",
		ReferenceDate: "2025-04-09",
		Accounts: []AccountSeed{
			{Username: "thundergod", Email: "thundergod@mhigh.edu", Age: 16, Password: "thunderpass123"},
			{Username: "metalgeek", Email: "metalgeek@mhigh.edu", Age: 17, Password: "metalpass456"},
			{Username: "zerocool", Email: "zerocool@mhigh.edu", Age: 15, Password: "zeropass789"},
			{Username: "crashoverride", Email: "crashoverride@mhigh.edu", Age: 18, Password: "crashpass101"},
			{Username: "sleeptoken", Email: "sleeptoken@mhigh.edu", Age: 14, Password: "sleeppass202"},
		},
		Teams: []TeamSeed{
			{Name: "Blue Team"},
			{Name: "Gold Team"},
		},
		Activities: []ActivitySeed{
			{Account: "thundergod", Kind: "Cycling", Duration: 60},
			{Account: "metalgeek", Kind: "Crossfit", Duration: 120},
			{Account: "zerocool", Kind: "Running", Duration: 90},
			{Account: "crashoverride", Kind: "Strength", Duration: 30},
			{Account: "sleeptoken", Kind: "Swimming", Duration: 75},
		},
		Leaderboard: []LeaderboardSeed{
			{Points: 100},
			{Points: 90},
			{Points: 95},
			{Points: 85},
			{Points: 80},
		},
		Workouts: []WorkoutSeed{
			{Name: "Cycling Training", Description: "Training for a road cycling event", Duration: intPtr(60)},
			{Name: "Crossfit", Description: "Training for a crossfit competition", Duration: intPtr(120)},
			{Name: "Running Training", Description: "Training for a marathon", Duration: intPtr(90)},
			{Name: "Strength Training", Description: "Training for strength", Duration: intPtr(30)},
			{Name: "Swimming Training", Description: "Training for a swimming competition", Duration: intPtr(75)},
		},
	}
}

// MHigh is the mapped-model fixture: display names and ages, no usernames,
// dated activities and one leaderboard row per team.
func MHigh() *Set {
	return &Set{
		Name:          "mhigh",
		Version:       "2025.04.1",
		ReferenceDate: "2025-04-09",
		Accounts: []AccountSeed{
			{Email: "thundergod@mhigh.edu", Name: "Thor", Age: 30},
			{Email: "metalgeek@mhigh.edu", Name: "Tony Stark", Age: 35},
			{Email: "zerocool@mhigh.edu", Name: "Steve Rogers", Age: 32},
			{Email: "crashoverride@mhigh.edu", Name: "Natasha Romanoff", Age: 28},
			{Email: "sleeptoken@mhigh.edu", Name: "Bruce Banner", Age: 40},
		},
		Teams: []TeamSeed{
			{Name: "Blue Team"},
			{Name: "Gold Team"},
		},
		Activities: []ActivitySeed{
			{Account: "Thor", Kind: "Cycling", Duration: 60, Date: "2025-04-09"},
			{Account: "Tony Stark", Kind: "Crossfit", Duration: 120, Date: "2025-04-08"},
			{Account: "Steve Rogers", Kind: "Running", Duration: 90, Date: "2025-04-07"},
			{Account: "Natasha Romanoff", Kind: "Strength", Duration: 30, Date: "2025-04-06"},
			{Account: "Bruce Banner", Kind: "Swimming", Duration: 75, Date: "2025-04-05"},
		},
		Leaderboard: []LeaderboardSeed{
			{Points: 100},
			{Points: 90},
		},
		Workouts: []WorkoutSeed{
			{Name: "Cycling Training", Description: "Road cycling event training", Duration: intPtr(60)},
			{Name: "Crossfit", Description: "Crossfit competition training", Duration: intPtr(120)},
			{Name: "Running Training", Description: "Marathon training", Duration: intPtr(90)},
			{Name: "Strength Training", Description: "Strength improvement training", Duration: intPtr(30)},
			{Name: "Swimming Training", Description: "Swimming competition training", Duration: intPtr(75)},
		},
	}
}

// Demo is a small fixture whose workouts carry no durations, so every plan
// goes through the keyword policy.
func Demo() *Set {
	return &Set{
		Name:          "demo",
		Version:       "1",
		ReferenceDate: "2025-01-06",
		Accounts: []AccountSeed{
			{Username: "alice", Name: "Alice", Email: "alice@example.com", Age: 29},
			{Username: "bob", Name: "Bob", Email: "bob@example.com", Age: 34},
			{Username: "carol", Name: "Carol", Email: "carol@example.com", Age: 41},
			{Username: "dave", Name: "Dave", Email: "dave@example.com", Age: 23},
			{Username: "erin", Name: "Erin", Email: "erin@example.com", Age: 37},
		},
		Teams: []TeamSeed{
			{Name: "Red"},
			{Name: "Blue"},
		},
		Activities: []ActivitySeed{
			{Account: "alice", Kind: "Running", Duration: 45},
			{Account: "bob", Kind: "Cycling", Duration: 60},
			{Account: "carol", Kind: "Swimming", Duration: 30},
			{Account: "dave", Kind: "Strength", Duration: 40},
			{Account: "erin", Kind: "Crossfit", Duration: 50},
		},
		Leaderboard: []LeaderboardSeed{
			{Points: 120},
			{Points: 110},
			{Points: 95},
			{Points: 90},
			{Points: 70},
		},
		Workouts: []WorkoutSeed{
			{Name: "Cycling Intervals", Description: "Hill repeats on the bike"},
			{Name: "Crossfit Session", Description: "Full body WOD"},
			{Name: "Running Tempo", Description: "Steady tempo run"},
			{Name: "Strength Circuit", Description: "Compound lifts circuit"},
			{Name: "Pool Drills", Description: "Technique work in the pool"},
		},
	}
}
