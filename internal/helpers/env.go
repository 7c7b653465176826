package helpers

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LoadEnv reads a .env file (or the given files) into the process environment.
func LoadEnv(files ...string) {
	err := godotenv.Load(files...)
	if err != nil {
		// Not fatal, just log the error and continue
		log.Debugln("Couldn't load .env file:", err)
	}
}

// RequireEnv returns a required variable or an error naming it.
func RequireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", errors.Errorf("%s not set", key)
	}
	return value, nil
}

// GetEnvOrDefault returns the variable, or def when it is unset.
func GetEnvOrDefault(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

// GetEnvInt parses an integer variable, falling back to def when unset.
func GetEnvInt(key string, def int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", key)
	}
	return n, nil
}

// GetEnvDuration parses a duration variable such as "12h", falling back to def when unset.
func GetEnvDuration(key string, def time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", key)
	}
	return d, nil
}
