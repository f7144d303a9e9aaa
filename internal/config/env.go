package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	// StoreDriver selects the document backend: "file" or "mysql".
	StoreDriver string
	DataFile    string
	MySQLDSN    string

	CORSOrigins []string
	JWTSecret   string

	// SweepInterval runs the lifecycle sweep in the background when > 0.
	SweepInterval time.Duration
}

// LoadEnv reads configuration from the environment, after loading an
// optional .env file from the working directory.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to load .env: %v", err)
	}

	return Env{
		AppAddr:       getenv("APP_ADDR", ":8080"),
		GinMode:       getenv("GIN_MODE", ""),
		StoreDriver:   strings.ToLower(getenv("STORE_DRIVER", "file")),
		DataFile:      getenv("DATA_FILE", "data/db.json"),
		MySQLDSN:      getenv("MYSQL_DSN", ""),
		CORSOrigins:   splitList(getenv("CORS_ALLOWED_ORIGINS", "")),
		JWTSecret:     getenv("AUTH_JWT_SECRET", ""),
		SweepInterval: getenvDuration("LIFECYCLE_SWEEP_INTERVAL", 0),
	}
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("warning: invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
