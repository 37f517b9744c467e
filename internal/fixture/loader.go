// Package fixture resets the tracker collections and fills them with a
// sample set, resolving cross references through identifiers assigned at
// load time.
//
// # Load Order
//
//  1. validate the sample set in memory (duplicate emails fail here)
//  2. drop every collection, then recreate them empty
//  3. declare the unique index on accounts.email
//  4. insert accounts, remembering key -> ID
//  5. insert teams with no members
//  6. place account i in team i mod len(teams)
//  7. insert activities, skipping those whose account is unknown
//  8. insert leaderboard entries, team i mod len(teams)
//  9. insert workouts, deriving missing durations from WorkoutDurationPolicy
//
// Any store error aborts the run. Collections written before the failing
// step stay written; the run is not transactional.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/octofit/tracker/seed/internal/database"
	"github.com/octofit/tracker/seed/internal/model"
	"github.com/octofit/tracker/seed/internal/sampleset"
)

var (
	// ErrUnresolvedReference marks a sample record whose account or team could not be found.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrCountMismatch is returned by Verify when a collection holds a different
	// number of documents than the load reported.
	ErrCountMismatch = errors.New("document count mismatch")
)

// LoaderConfig holds dependencies for the loader
type LoaderConfig struct {
	Store      Store
	Logger     *slog.Logger
	NewID      func() string    // defaults to uuid.NewString
	Now        func() time.Time // defaults to time.Now
	BcryptCost int              // defaults to bcrypt.DefaultCost
}

// Loader performs reset-and-load runs against one store
type Loader struct {
	store      Store
	logger     *slog.Logger
	newID      func() string
	now        func() time.Time
	bcryptCost int
}

// NewLoader creates a new loader
func NewLoader(cfg LoaderConfig) *Loader {
	l := &Loader{
		store:      cfg.Store,
		logger:     cfg.Logger,
		newID:      cfg.NewID,
		now:        cfg.Now,
		bcryptCost: cfg.BcryptCost,
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.newID == nil {
		l.newID = uuid.NewString
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.bcryptCost == 0 {
		l.bcryptCost = bcrypt.DefaultCost
	}
	return l
}

// ResetAndLoad destructively replaces all five collections with the contents of set.
func (l *Loader) ResetAndLoad(ctx context.Context, set *sampleset.Set) (*Summary, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: no sample set", sampleset.ErrInvalid)
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("validate sample set %s: %w", set, err)
	}

	refDate, err := l.referenceDate(set)
	if err != nil {
		return nil, err
	}

	summary := newSummary(set.String(), l.now())
	l.logger.Info("loading sample set",
		slog.String("sample_set", set.String()),
		slog.Int("records", set.Total()),
	)

	if err := l.reset(ctx); err != nil {
		return nil, err
	}
	if err := l.store.EnsureIndex(ctx, model.CollectionAccounts, model.FieldEmail, true); err != nil {
		return nil, fmt.Errorf("create index %s.%s: %w", model.CollectionAccounts, model.FieldEmail, err)
	}

	accounts, keyToID, err := l.loadAccounts(ctx, set, summary)
	if err != nil {
		return nil, err
	}
	teams, err := l.loadTeams(ctx, set, summary)
	if err != nil {
		return nil, err
	}
	if err := l.assignMembers(ctx, accounts, teams, summary); err != nil {
		return nil, err
	}
	if err := l.loadActivities(ctx, set, keyToID, refDate, summary); err != nil {
		return nil, err
	}
	if err := l.loadLeaderboard(ctx, set, teams, refDate, summary); err != nil {
		return nil, err
	}
	if err := l.loadWorkouts(ctx, set, summary); err != nil {
		return nil, err
	}

	summary.FinishedAt = l.now()
	l.logger.Info("sample set loaded",
		slog.String("sample_set", summary.SampleSet),
		slog.Int("inserted", summary.Total()),
		slog.Int("skipped", len(summary.Skipped)),
		slog.Duration("duration", summary.Duration()),
	)
	return summary, nil
}

// Verify compares the store's document counts with a summary.
func (l *Loader) Verify(ctx context.Context, summary *Summary) error {
	var errs []error
	for _, c := range model.Collections {
		n, err := l.store.Count(ctx, c)
		if err != nil {
			return fmt.Errorf("count %s: %w", c, err)
		}
		if int(n) != summary.Inserted[c] {
			errs = append(errs, fmt.Errorf("%w: %s has %d documents, loaded %d", ErrCountMismatch, c, n, summary.Inserted[c]))
		}
	}
	return errors.Join(errs...)
}

// reset drops in reverse creation order so stores with foreign keys can
// remove referencing collections first.
func (l *Loader) reset(ctx context.Context) error {
	if r, ok := l.store.(Resetter); ok {
		if err := r.ResetCollections(ctx, model.Collections); err != nil {
			return fmt.Errorf("reset collections: %w", err)
		}
		l.logger.Info("collections reset", slog.Int("collections", len(model.Collections)), slog.Bool("atomic", true))
		return nil
	}

	for i := len(model.Collections) - 1; i >= 0; i-- {
		name := model.Collections[i]
		if err := l.store.DropCollection(ctx, name); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	for _, name := range model.Collections {
		if err := l.store.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	l.logger.Info("collections reset", slog.Int("collections", len(model.Collections)))
	return nil
}

func (l *Loader) loadAccounts(ctx context.Context, set *sampleset.Set, summary *Summary) ([]model.Account, map[string]string, error) {
	accounts := make([]model.Account, 0, len(set.Accounts))
	docs := make([]model.Document, 0, len(set.Accounts))
	for _, seed := range set.Accounts {
		a := model.Account{
			ID:       seed.ID,
			Username: seed.Username,
			Email:    seed.Email,
			Name:     seed.Name,
			Age:      seed.Age,
		}
		if a.ID == "" {
			a.ID = l.newID()
		}
		if seed.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), l.bcryptCost)
			if err != nil {
				return nil, nil, fmt.Errorf("hash password for %s: %w", seed.Key(), err)
			}
			a.PasswordHash = string(hash)
		}
		accounts = append(accounts, a)
		docs = append(docs, a)
	}

	ids, err := l.insert(ctx, model.CollectionAccounts, docs)
	if err != nil {
		return nil, nil, err
	}

	keyToID := make(map[string]string, len(accounts))
	for i := range accounts {
		accounts[i].ID = ids[i]
		key := accounts[i].Key()
		if _, dup := keyToID[key]; dup {
			l.logger.Warn("account key used twice, references resolve to the first",
				slog.String("key", key), slog.Int("position", i))
			continue
		}
		keyToID[key] = ids[i]
	}
	summary.Inserted[model.CollectionAccounts] = len(ids)
	return accounts, keyToID, nil
}

func (l *Loader) loadTeams(ctx context.Context, set *sampleset.Set, summary *Summary) ([]model.Team, error) {
	teams := make([]model.Team, 0, len(set.Teams))
	docs := make([]model.Document, 0, len(set.Teams))
	for _, seed := range set.Teams {
		t := model.Team{ID: seed.ID, Name: seed.Name, Members: []string{}}
		if t.ID == "" {
			t.ID = l.newID()
		}
		teams = append(teams, t)
		docs = append(docs, t)
	}

	ids, err := l.insert(ctx, model.CollectionTeams, docs)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		teams[i].ID = ids[i]
	}
	summary.Inserted[model.CollectionTeams] = len(ids)
	return teams, nil
}

// assignMembers places the account at position i into team i mod len(teams).
func (l *Loader) assignMembers(ctx context.Context, accounts []model.Account, teams []model.Team, summary *Summary) error {
	assignments := make([]TeamAssignment, len(teams))
	for i, t := range teams {
		assignments[i] = TeamAssignment{ID: t.ID, Name: t.Name, Members: []string{}, MemberIDs: []string{}}
	}

	if len(teams) == 0 {
		if len(accounts) > 0 {
			l.logger.Warn("no teams in sample set, accounts left unassigned", slog.Int("accounts", len(accounts)))
		}
		summary.Teams = assignments
		return nil
	}

	for i, a := range accounts {
		idx := i % len(teams)
		if err := l.store.AppendToSet(ctx, model.CollectionTeams, teams[idx].ID, model.FieldMembers, a.ID); err != nil {
			return fmt.Errorf("add %s to team %s: %w", a.Key(), teams[idx].Name, err)
		}
		assignments[idx].Members = append(assignments[idx].Members, a.Key())
		assignments[idx].MemberIDs = append(assignments[idx].MemberIDs, a.ID)
	}
	summary.Teams = assignments
	return nil
}

func (l *Loader) loadActivities(ctx context.Context, set *sampleset.Set, keyToID map[string]string, refDate time.Time, summary *Summary) error {
	docs := make([]model.Document, 0, len(set.Activities))
	for i, seed := range set.Activities {
		accountID, ok := keyToID[seed.Account]
		if !ok {
			l.skip(summary, SkippedEntry{
				Collection: model.CollectionActivities,
				Position:   i,
				Reference:  seed.Account,
				Reason:     "account not in sample set",
			})
			continue
		}

		kind := model.ActivityKind(seed.Kind)
		if known, ok := model.ParseActivityKind(seed.Kind); ok {
			kind = known
		}
		date, _ := sampleset.Date(seed.Date) // validated
		if date.IsZero() {
			date = refDate
		}
		docs = append(docs, model.Activity{
			ID:        l.newID(),
			AccountID: accountID,
			Kind:      kind,
			Duration:  seed.Duration,
			Date:      date,
		})
	}

	ids, err := l.insert(ctx, model.CollectionActivities, docs)
	if err != nil {
		return err
	}
	summary.Inserted[model.CollectionActivities] = len(ids)
	return nil
}

// loadLeaderboard assigns entry i to team i mod len(teams), independent of
// which team any account landed in.
func (l *Loader) loadLeaderboard(ctx context.Context, set *sampleset.Set, teams []model.Team, refDate time.Time, summary *Summary) error {
	docs := make([]model.Document, 0, len(set.Leaderboard))
	for i, seed := range set.Leaderboard {
		if len(teams) == 0 {
			l.skip(summary, SkippedEntry{
				Collection: model.CollectionLeaderboard,
				Position:   i,
				Reason:     "sample set has no teams",
			})
			continue
		}

		date, _ := sampleset.Date(seed.Date) // validated
		if date.IsZero() {
			date = refDate
		}
		docs = append(docs, model.LeaderboardEntry{
			ID:     l.newID(),
			TeamID: teams[i%len(teams)].ID,
			Points: seed.Points,
			Date:   date,
		})
	}

	ids, err := l.insert(ctx, model.CollectionLeaderboard, docs)
	if err != nil {
		return err
	}
	summary.Inserted[model.CollectionLeaderboard] = len(ids)
	return nil
}

func (l *Loader) loadWorkouts(ctx context.Context, set *sampleset.Set, summary *Summary) error {
	docs := make([]model.Document, 0, len(set.Workouts))
	for _, seed := range set.Workouts {
		duration := WorkoutDurationPolicy.Minutes(seed.Name)
		if seed.Duration != nil {
			duration = *seed.Duration
		}
		docs = append(docs, model.Workout{
			ID:          l.newID(),
			Name:        seed.Name,
			Description: seed.Description,
			Duration:    duration,
		})
	}

	ids, err := l.insert(ctx, model.CollectionWorkouts, docs)
	if err != nil {
		return err
	}
	summary.Inserted[model.CollectionWorkouts] = len(ids)
	return nil
}

func (l *Loader) insert(ctx context.Context, collection string, docs []model.Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	ids, err := l.store.InsertMany(ctx, collection, docs)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", collection, err)
	}
	if len(ids) != len(docs) {
		return nil, fmt.Errorf("insert %s: %w: store returned %d ids for %d documents", collection, database.ErrQuery, len(ids), len(docs))
	}
	l.logger.Info("inserted documents", slog.String("collection", collection), slog.Int("count", len(ids)))
	return ids, nil
}

func (l *Loader) skip(summary *Summary, entry SkippedEntry) {
	summary.Skipped = append(summary.Skipped, entry)
	l.logger.Warn("skipping sample record",
		slog.String("collection", entry.Collection),
		slog.Int("position", entry.Position),
		slog.String("reference", entry.Reference),
		slog.String("reason", entry.Reason),
	)
}

func (l *Loader) referenceDate(set *sampleset.Set) (time.Time, error) {
	d, err := sampleset.Date(set.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: reference_date: %v", sampleset.ErrInvalid, err)
	}
	if d.IsZero() {
		return model.CalendarDate(l.now()), nil
	}
	return d, nil
}
