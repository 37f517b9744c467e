// Package model defines the fitness-tracking records written by the seed tool.
//
// # Domain Entities
//
//   - Account: a person, unique by email
//   - Team: a named group holding a set of Account IDs
//   - Activity: one logged session owned by an Account
//   - LeaderboardEntry: points credited to a Team
//   - Workout: a suggested training plan, independent of the others
//
// # Document Form
//
// Every entity implements Document. Fields returns the schemaless document
// written to SurrealDB and the in-memory store; the bson tags describe the
// same layout for MongoDB. Foreign references are stored as plain ID strings
// (account_id, team_id, members) rather than embedded documents.
package model
