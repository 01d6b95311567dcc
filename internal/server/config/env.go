package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "BLOCKSEARCH_"

// parseEnv loads a .env file from the working directory when present and
// then overlays every BLOCKSEARCH_* variable that is set. Variables already
// present in the process environment win over .env entries.
func parseEnv(config *Config) {
	_ = godotenv.Load()
	applyEnv(config, os.LookupEnv)
}

func applyEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("GRPC_HEALTH_ADDR", &config.GRPCHealthAddr)
	str("SECRET_KEY", &config.SecretKey)
	str("COOKIE_NAME", &config.CookieName)
	str("LOG_LEVEL", &config.LogLevel)
	str("USER_BACKEND", &config.UserBackend)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("TABULAR_BACKEND", &config.TabularBackend)
	str("SPREADSHEET_ID", &config.SpreadsheetID)
	str("GOOGLE_CREDENTIALS_FILE", &config.GoogleCredentialsFile)
	str("GOOGLE_CREDENTIALS_JSON", &config.GoogleCredentialsJSON)
	str("WORKBOOK_STORAGE", &config.WorkbookStorage)
	str("WORKBOOK_PATH", &config.WorkbookPath)
	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := lookup(envPrefix + "SESSION_VALIDITY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.SessionValidityDuration = d
	}

	if v, ok := lookup(envPrefix + "COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.CookieSecure = b
	}
}
