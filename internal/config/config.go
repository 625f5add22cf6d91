// Package config loads application configuration from environment
// variables.  A .env file in the working directory is loaded first when
// present; variables already set in the process environment win.
package config

import (
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

// Config holds the core runtime configuration.
type Config struct {
    Env               string        // application environment (dev, prod)
    Port              string        // HTTP port to listen on
    DBUser            string        // database username
    DBPass            string        // database password (optional)
    DBHost            string        // database host address
    DBPort            string        // database port number
    DBName            string        // schema name, normally "sakila"
    DBMaxOpenConns    int           // pool size shared by all requests
    DBOpTimeout       time.Duration // upper bound for one logical operation
    JWTSecret         string        // secret used to sign staff access tokens
    AccessTTLMin      int           // access token lifetime in minutes
    StaffUser         string        // staff login name
    StaffPasswordHash string        // bcrypt hash of the staff password
}

// Load reads .env (if any) and the environment.  Missing required keys
// are reported together in one error.
func Load() (Config, error) {
    _ = godotenv.Load()

    var missing []string
    must := func(key string) string {
        v, ok := os.LookupEnv(key)
        if !ok || strings.TrimSpace(v) == "" {
            missing = append(missing, key)
        }
        return strings.TrimSpace(v)
    }

    cfg := Config{
        Env:               must("APP_ENV"),
        Port:              must("APP_PORT"),
        DBUser:            must("DB_USER"),
        DBPass:            os.Getenv("DB_PASS"),
        DBHost:            must("DB_HOST"),
        DBPort:            must("DB_PORT"),
        DBName:            must("DB_NAME"),
        DBMaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
        DBOpTimeout:       envDur("DB_OP_TIMEOUT", 5*time.Second),
        JWTSecret:         must("JWT_SECRET"),
        AccessTTLMin:      envInt("ACCESS_TOKEN_TTL_MIN", 60),
        StaffUser:         envStr("STAFF_USER", ""),
        StaffPasswordHash: envStr("STAFF_PASSWORD_HASH", ""),
    }
    if len(missing) > 0 {
        return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
    }
    if _, err := strconv.Atoi(cfg.DBPort); err != nil {
        return Config{}, fmt.Errorf("invalid int for DB_PORT: %q", cfg.DBPort)
    }
    if cfg.DBMaxOpenConns < 1 {
        cfg.DBMaxOpenConns = 1
    }
    if cfg.DBOpTimeout <= 0 {
        cfg.DBOpTimeout = 5 * time.Second
    }
    if cfg.AccessTTLMin < 1 {
        cfg.AccessTTLMin = 60
    }
    return cfg, nil
}
