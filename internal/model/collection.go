package model

// Collection names of the persisted layout.
const (
	CollectionAccounts    = "accounts"
	CollectionTeams       = "teams"
	CollectionActivities  = "activities"
	CollectionLeaderboard = "leaderboard"
	CollectionWorkouts    = "workouts"
)

// Collections lists every collection in creation order. Reverse it to drop.
var Collections = []string{
	CollectionAccounts,
	CollectionTeams,
	CollectionActivities,
	CollectionLeaderboard,
	CollectionWorkouts,
}

// Field names referenced by store operations.
const (
	FieldEmail   = "email"
	FieldMembers = "members"
)

// Document is a record that can be written to any store backend.
type Document interface {
	DocumentID() string
	Fields() map[string]any
}
