package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits the CORS origin list
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The secret key and database handle derived from
// these values are established once at startup, treated as read-only
// afterwards and passed into component constructors rather than read from
// ambient globals.
type Config struct {
	Env          string   // application environment (e.g. "dev", "prod")
	Port         string   // HTTP port to listen on
	DBUser       string   // database username
	DBPass       string   // database password (optional)
	DBHost       string   // database host address
	DBPort       string   // database port number
	DBName       string   // database name
	JWTSecret    string   // secret used to sign access tokens
	AccessTTLMin int      // access token time-to-live in minutes
	BcryptCost   int      // bcrypt cost for password hashing
	CORSOrigins  []string // allowed cross-origin callers
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "3000"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:   envInt("BCRYPT_COST", 10),
		CORSOrigins:  splitOrigins(envStr("CORS_ORIGINS", "http://localhost:5173")),
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

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

// splitOrigins parses a comma separated origin allow-list.
func splitOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
