// Package testdb provides SurrealDB test database utilities.
//
// Each test gets an isolated namespace that is removed when the test ends:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    store := surreal.New(tdb.DB)
//	    ...
//	}
//
// Connection settings come from TEST_DB_HOST, TEST_DB_PORT, TEST_DB_USER and
// TEST_DB_PASSWORD. Tests are skipped when the server is unreachable.
//
// # Timeout Context
//
//	ctx := tdb.Ctx() // 10 second timeout
package testdb
