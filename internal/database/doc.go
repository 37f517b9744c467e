// Package database connects to SurrealDB and runs SurrealQL.
//
// # Connection Management
//
// Connect to SurrealDB:
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    Namespace: "octofit",
//	    Database:  "octofit_db",
//	    User:      "root",
//	    Password:  "root",
//	})
//	if err := db.Connect(ctx); err != nil {
//	    // errors.Is(err, database.ErrConnection)
//	}
//	defer db.Close()
//
// # Atomic Batches
//
// Statements that must land together (dropping a table and redefining it,
// for instance) go through AtomicBatch, which wraps them in a single
// BEGIN/COMMIT TRANSACTION block at execution time.
package database
