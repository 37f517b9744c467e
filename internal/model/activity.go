package model

import (
	"strings"
	"time"
)

// ActivityKind names the sport of an activity
type ActivityKind string

const (
	ActivityCycling  ActivityKind = "Cycling"
	ActivityCrossfit ActivityKind = "Crossfit"
	ActivityRunning  ActivityKind = "Running"
	ActivityStrength ActivityKind = "Strength"
	ActivitySwimming ActivityKind = "Swimming"
)

// ActivityKinds lists the known kinds in a stable order
var ActivityKinds = []ActivityKind{
	ActivityCycling,
	ActivityCrossfit,
	ActivityRunning,
	ActivityStrength,
	ActivitySwimming,
}

// ParseActivityKind matches a kind case-insensitively.
func ParseActivityKind(s string) (ActivityKind, bool) {
	for _, k := range ActivityKinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, true
		}
	}
	return "", false
}

// Activity is one logged session of an account
type Activity struct {
	ID        string       `json:"id" bson:"_id"`
	AccountID string       `json:"account_id" bson:"account_id"`
	Kind      ActivityKind `json:"type" bson:"type"`
	Duration  int          `json:"duration" bson:"duration"` // minutes
	Date      time.Time    `json:"date" bson:"date"`
}

func (a Activity) DocumentID() string { return a.ID }

func (a Activity) Fields() map[string]any {
	return map[string]any{
		"id":         a.ID,
		"account_id": a.AccountID,
		"type":       string(a.Kind),
		"duration":   a.Duration,
		"date":       a.Date,
	}
}

// CalendarDate truncates t to midnight UTC of its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
