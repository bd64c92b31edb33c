package app

import (
	"time"

	"github.com/joho/godotenv"

	cmnenv "schooldesk/server/common/env"
)

type Config struct {
	Env            string
	Port           string
	BackendBaseURL string
	HTTPTimeout    time.Duration
	TokenFile      string
}

func LoadConfig() Config {
	_ = godotenv.Load()
	return Config{
		Env:            cmnenv.String("APP_ENV", "dev"),
		Port:           cmnenv.String("PORT", "8080"),
		BackendBaseURL: cmnenv.String("BACKEND_BASE_URL", "http://localhost:5000/api"),
		HTTPTimeout:    cmnenv.DurationMillis("BACKEND_HTTP_TIMEOUT_MS", 10*time.Second),
		TokenFile:      cmnenv.String("TOKEN_FILE", "./data/schooldesk_token.json"),
	}
}
