// Package helpers provides test utility functions for the seed tool.
//
// # Store Assertions
//
// Check a finished load against the store it wrote to:
//
//	helpers.AssertCounts(t, store, summary)
//	helpers.AssertPartition(t, summary)
//
// # Database Assertions
//
// Check SurrealDB records directly:
//
//	helpers.AssertRecordExists(t, db, "teams", teamID)
//	helpers.AssertRecordNotExists(t, db, "accounts", "accounts:ghost")
//
// # Pointer Helpers
//
//	duration := helpers.IntPtr(45)
package helpers
