package config

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

func Load() Config {
	ensureEnvLoaded()
	return Config{
		Server:   loadServer(),
		Database: loadDatabase(),
		Auth:     loadAuth(),
	}
}
