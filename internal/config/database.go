package config

// DefaultDatabaseURL is the zero-configuration local mode backend.
// Containerized deployments override it with a postgres URL.
const DefaultDatabaseURL = "sqlite://./data/app.db"

type DatabaseConfig struct {
	URL         string
	AutoMigrate bool
}

func loadDatabase() DatabaseConfig {
	return DatabaseConfig{
		URL:         getenv("DATABASE_URL", DefaultDatabaseURL),
		AutoMigrate: boolenv("AUTO_MIGRATE", true),
	}
}
