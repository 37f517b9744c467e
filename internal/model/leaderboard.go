package model

import "time"

// LeaderboardEntry credits points to a team
type LeaderboardEntry struct {
	ID     string    `json:"id" bson:"_id"`
	TeamID string    `json:"team_id" bson:"team_id"`
	Points int       `json:"points" bson:"points"`
	Date   time.Time `json:"date" bson:"date"`
}

func (l LeaderboardEntry) DocumentID() string { return l.ID }

func (l LeaderboardEntry) Fields() map[string]any {
	return map[string]any{
		"id":      l.ID,
		"team_id": l.TeamID,
		"points":  l.Points,
		"date":    l.Date,
	}
}
