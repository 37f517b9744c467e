// Package ormstore implements the loader's Store on a relational database
// through GORM, using the pure-Go SQLite driver. Each collection is a table;
// team membership is the team_members join table, and references are
// enforced as foreign keys.
package ormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/octofit/tracker/seed/internal/database"
	"github.com/octofit/tracker/seed/internal/model"
)

const insertBatchSize = 100

// Config holds ORM backend settings
type Config struct {
	DSN      string // SQLite DSN, e.g. "octofit.db?_pragma=foreign_keys(1)"
	LogLevel string // silent, error, warn, info
}

// Store writes collections as tables through GORM
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database named by cfg.DSN
func Open(cfg Config) (*Store, error) {
	dsn := withForeignKeys(cfg.DSN)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrConnection, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrConnection, err)
	}
	if strings.Contains(dsn, ":memory:") {
		// every new connection would see its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("%w: ping failed: %v", database.ErrConnection, err)
	}
	return New(db), nil
}

// withForeignKeys turns on foreign key enforcement for every pooled
// connection unless the DSN already sets it.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// New wraps an existing GORM handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DropCollection drops the backing tables, join tables first
func (s *Store) DropCollection(ctx context.Context, name string) error {
	models, err := modelsFor(name)
	if err != nil {
		return err
	}
	m := s.db.WithContext(ctx).Migrator()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.DropTable(models[i]); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// CreateCollection creates the backing tables. Creating an existing table fails.
func (s *Store) CreateCollection(ctx context.Context, name string) error {
	models, err := modelsFor(name)
	if err != nil {
		return err
	}
	m := s.db.WithContext(ctx).Migrator()
	for _, v := range models {
		if m.HasTable(v) {
			return fmt.Errorf("%w: table for %s already exists", database.ErrQuery, name)
		}
		if err := m.CreateTable(v); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// InsertMany converts docs to rows and inserts them in one transaction
func (s *Store) InsertMany(ctx context.Context, name string, docs []model.Document) ([]string, error) {
	if _, err := modelsFor(name); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		if d.DocumentID() == "" {
			return nil, fmt.Errorf("%w: %s document %d has no id", database.ErrQuery, name, i)
		}
		ids[i] = d.DocumentID()
	}

	rows, members, err := toRows(name, docs)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return err
		}
		if len(members) > 0 {
			return tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&members).Error
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return ids, nil
}

// AppendToSet supports the team membership relation only
func (s *Store) AppendToSet(ctx context.Context, name, id, field, value string) error {
	if name != model.CollectionTeams || field != model.FieldMembers {
		return fmt.Errorf("%w: %s.%s is not a set field", database.ErrQuery, name, field)
	}

	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&TeamRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return mapError(err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", name, id, database.ErrNotFound)
	}

	row := TeamMemberRow{TeamID: id, AccountID: value}
	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	return mapError(err)
}

// EnsureIndex creates <table>_<field> if it does not exist
func (s *Store) EnsureIndex(ctx context.Context, name, field string, unique bool) error {
	if _, err := modelsFor(name); err != nil {
		return err
	}

	stmt := "CREATE INDEX IF NOT EXISTS ? ON ? (?)"
	if unique {
		stmt = "CREATE UNIQUE INDEX IF NOT EXISTS ? ON ? (?)"
	}
	err := s.db.WithContext(ctx).Exec(stmt,
		clause.Table{Name: name + "_" + field},
		clause.Table{Name: name},
		clause.Column{Name: field},
	).Error
	return mapError(err)
}

// Count returns the number of rows in the collection's table
func (s *Store) Count(ctx context.Context, name string) (int64, error) {
	models, err := modelsFor(name)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(models[0]).Count(&n).Error; err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// Members returns the account IDs linked to a team, sorted
func (s *Store) Members(ctx context.Context, teamID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&TeamMemberRow{}).
		Where("team_id = ?", teamID).
		Order("account_id").
		Pluck("account_id", &ids).Error
	if err != nil {
		return nil, mapError(err)
	}
	return ids, nil
}

func modelsFor(name string) ([]interface{}, error) {
	models, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown collection %q", database.ErrQuery, name)
	}
	return models, nil
}

// toRows returns a pointer to a typed row slice plus any team links.
func toRows(name string, docs []model.Document) (interface{}, []TeamMemberRow, error) {
	var members []TeamMemberRow
	switch name {
	case model.CollectionAccounts:
		rows := make([]AccountRow, 0, len(docs))
		for _, d := range docs {
			a, ok := d.(model.Account)
			if !ok {
				return nil, nil, wrongType(name, d)
			}
			rows = append(rows, AccountRow{ID: a.ID, Username: a.Username, Email: a.Email, Name: a.Name, Age: a.Age, PasswordHash: a.PasswordHash})
		}
		return &rows, nil, nil
	case model.CollectionTeams:
		rows := make([]TeamRow, 0, len(docs))
		for _, d := range docs {
			t, ok := d.(model.Team)
			if !ok {
				return nil, nil, wrongType(name, d)
			}
			rows = append(rows, TeamRow{ID: t.ID, Name: t.Name})
			for _, m := range t.Members {
				members = append(members, TeamMemberRow{TeamID: t.ID, AccountID: m})
			}
		}
		return &rows, members, nil
	case model.CollectionActivities:
		rows := make([]ActivityRow, 0, len(docs))
		for _, d := range docs {
			a, ok := d.(model.Activity)
			if !ok {
				return nil, nil, wrongType(name, d)
			}
			rows = append(rows, ActivityRow{ID: a.ID, AccountID: a.AccountID, Kind: string(a.Kind), Duration: a.Duration, Date: a.Date})
		}
		return &rows, nil, nil
	case model.CollectionLeaderboard:
		rows := make([]LeaderboardRow, 0, len(docs))
		for _, d := range docs {
			e, ok := d.(model.LeaderboardEntry)
			if !ok {
				return nil, nil, wrongType(name, d)
			}
			rows = append(rows, LeaderboardRow{ID: e.ID, TeamID: e.TeamID, Points: e.Points, Date: e.Date})
		}
		return &rows, nil, nil
	case model.CollectionWorkouts:
		rows := make([]WorkoutRow, 0, len(docs))
		for _, d := range docs {
			w, ok := d.(model.Workout)
			if !ok {
				return nil, nil, wrongType(name, d)
			}
			rows = append(rows, WorkoutRow{ID: w.ID, Name: w.Name, Description: w.Description, Duration: w.Duration})
		}
		return &rows, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown collection %q", database.ErrQuery, name)
}

func wrongType(name string, d model.Document) error {
	return fmt.Errorf("%w: %T cannot be stored in %s", database.ErrQuery, d, name)
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey), database.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", database.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", database.ErrNotFound, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", database.ErrConnection, err)
	default:
		return fmt.Errorf("%w: %v", database.ErrQuery, err)
	}
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}
