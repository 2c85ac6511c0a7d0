// Package config loads application configuration from environment variables.
package config

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. The protocol budgets (settle interval, attempt
// counts, backoff unit) default to the production values and only need to be
// set when tuning a deployment.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes

	SettleInterval   time.Duration // pause after append before verifying
	VerifyAttempts   int           // verification probe attempt budget
	SaveAttempts     int           // write cycle budget
	BackoffUnit      time.Duration // linear backoff base unit
	VerifyTailWindow int           // recent rows scanned per verify read
	SnapshotTTL      time.Duration // snapshot cache entry lifetime
	AMQPURL          string        // broker URL for confirmation events
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),

		SettleInterval:   parseDur(getenv("SETTLE_INTERVAL", "10s")),
		VerifyAttempts:   atoi(getenv("VERIFY_ATTEMPTS", "10")),
		SaveAttempts:     atoi(getenv("SAVE_ATTEMPTS", "10")),
		BackoffUnit:      parseDur(getenv("RETRY_BACKOFF_UNIT", "1s")),
		VerifyTailWindow: atoi(getenv("VERIFY_TAIL_WINDOW", "5")),
		SnapshotTTL:      parseDur(getenv("SNAPSHOT_TTL", "30s")),
		AMQPURL:          getenv("RABBITMQ_URL", getenv("AMQP_URL", "")),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
