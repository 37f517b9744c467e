// Package config loads and validates configuration for the seed tool.
//
// # Configuration Loading
//
// Values are layered with koanf, later layers winning:
//
//	cfg, err := config.Load(path) // defaults, .env, YAML file, OCTOFIT_* env
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - DatabaseConfig: SurrealDB connection settings
//   - MongoConfig: MongoDB URI and database
//   - ORMConfig: SQLite DSN for the relational backend
//   - LoaderConfig: backend, sample set, timeout and bcrypt cost
//   - MetricsConfig: Pushgateway target
//   - LogConfig: slog level and handler format
//
// # Environment Variables
//
// Every key can be overridden with an OCTOFIT_ variable; the first
// underscore after the prefix separates the section:
//
//	OCTOFIT_CONFIG              - YAML file to load
//	OCTOFIT_DATABASE_HOST       - SurrealDB host (default: localhost)
//	OCTOFIT_DATABASE_PORT       - SurrealDB port (default: 8000)
//	OCTOFIT_MONGO_URI           - MongoDB URI
//	OCTOFIT_ORM_DSN             - SQLite DSN
//	OCTOFIT_LOADER_BACKEND      - surreal, mongo, orm or memory
//	OCTOFIT_LOADER_SAMPLE_SET   - built-in set name or YAML path
//	OCTOFIT_LOADER_TIMEOUT      - overall run timeout (default: 2m)
//	OCTOFIT_METRICS_PUSHGATEWAY_URL - push metrics after the run
//	OCTOFIT_LOG_LEVEL           - debug, info, warn, error
package config
