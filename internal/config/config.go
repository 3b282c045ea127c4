package config // package config loads application configuration from environment variables

import (
    "log"  // log is used to report configuration errors and halt execution
    "os"   // os provides access to environment variables
    "time" // time parses the provider timeout duration
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The directory provider credential is
// required: without it no venue search can ever succeed, so startup
// fails fast instead of surfacing the error on the first query.
type Config struct {
    Env           string        // application environment (e.g. "dev", "prod")
    Port          string        // HTTP port to listen on
    DBUser        string        // database username
    DBPass        string        // database password (optional)
    DBHost        string        // database host address
    DBPort        string        // database port number
    DBName        string        // database name
    JWTSecret     string        // secret used to verify JWTs issued by the auth service
    PlacesAPIKey  string        // directory provider API key (required)
    PlacesBaseURL string        // directory provider base URL (overridable for tests)
    PlacesTimeout time.Duration // per-request timeout for provider calls
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:           must("APP_ENV"),
        Port:          must("APP_PORT"),
        DBUser:        must("DB_USER"),
        DBPass:        os.Getenv("DB_PASS"), // empty allowed
        DBHost:        must("DB_HOST"),
        DBPort:        must("DB_PORT"),
        DBName:        must("DB_NAME"),
        JWTSecret:     must("JWT_SECRET"),
        PlacesAPIKey:  must("PLACES_API_KEY"),
        PlacesBaseURL: getenv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
        PlacesTimeout: envDur("PLACES_TIMEOUT", 10*time.Second),
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

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}
