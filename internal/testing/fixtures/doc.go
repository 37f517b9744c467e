// Package fixtures provides sample-set factories and deterministic
// dependencies for loader tests.
//
// # Sample Sets
//
// Build a set with defaults and override what the test cares about:
//
//	set := fixtures.SampleSet(fixtures.WithAccounts(7), fixtures.WithTeams(3))
//	set := fixtures.SampleSet(fixtures.WithDuplicateEmail(0, 4))
//
// # Deterministic Loads
//
//	loader := fixture.NewLoader(fixture.LoaderConfig{
//	    Store:      memstore.New(),
//	    Logger:     fixtures.DiscardLogger(),
//	    NewID:      fixtures.SequentialIDs("id"),
//	    Now:        fixtures.FixedClock(fixtures.ReferenceTime),
//	    BcryptCost: bcrypt.MinCost,
//	})
package fixtures
