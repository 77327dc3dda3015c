package config

import "time"

type AuthConfig struct {
	SecretKey string
	TokenTTL  time.Duration
}

func loadAuth() AuthConfig {
	return AuthConfig{
		SecretKey: getenv("SECRET_KEY", "supersecretkey"),
		TokenTTL:  durationEnvMinutes("ACCESS_TOKEN_EXPIRE_MINUTES", 30*time.Minute),
	}
}
