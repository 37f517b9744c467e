package ormstore

import (
	"time"

	"github.com/octofit/tracker/seed/internal/model"
)

// AccountRow is the relational form of model.Account
type AccountRow struct {
	ID           string `gorm:"primaryKey"`
	Username     string
	Email        string `gorm:"not null"`
	Name         string `gorm:"size:100"`
	Age          int
	PasswordHash string
}

func (AccountRow) TableName() string { return model.CollectionAccounts }

// TeamRow is the relational form of model.Team. Members live in team_members.
type TeamRow struct {
	ID   string `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null"`
}

func (TeamRow) TableName() string { return model.CollectionTeams }

// TeamMemberRow links an account to a team. The composite key gives the
// members relation set semantics.
type TeamMemberRow struct {
	TeamID    string      `gorm:"primaryKey"`
	AccountID string      `gorm:"primaryKey"`
	Team      *TeamRow    `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Account   *AccountRow `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

func (TeamMemberRow) TableName() string { return "team_members" }

// ActivityRow is the relational form of model.Activity
type ActivityRow struct {
	ID        string      `gorm:"primaryKey"`
	AccountID string      `gorm:"not null;index"`
	Account   *AccountRow `gorm:"foreignKey:AccountID"`
	Kind      string      `gorm:"column:type;size:100"`
	Duration  int
	Date      time.Time
}

func (ActivityRow) TableName() string { return model.CollectionActivities }

// LeaderboardRow is the relational form of model.LeaderboardEntry
type LeaderboardRow struct {
	ID     string   `gorm:"primaryKey"`
	TeamID string   `gorm:"not null;index"`
	Team   *TeamRow `gorm:"foreignKey:TeamID"`
	Points int
	Date   time.Time
}

func (LeaderboardRow) TableName() string { return model.CollectionLeaderboard }

// WorkoutRow is the relational form of model.Workout
type WorkoutRow struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"size:100"`
	Description string
	Duration    int
}

func (WorkoutRow) TableName() string { return model.CollectionWorkouts }

// tables maps a collection to the models that back it, parent first.
var tables = map[string][]interface{}{
	model.CollectionAccounts:    {&AccountRow{}},
	model.CollectionTeams:       {&TeamRow{}, &TeamMemberRow{}},
	model.CollectionActivities:  {&ActivityRow{}},
	model.CollectionLeaderboard: {&LeaderboardRow{}},
	model.CollectionWorkouts:    {&WorkoutRow{}},
}
