package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	HTTPPort    string
	MongoDBURL  string
	RedisURL    string
	NATSURL     string
	JWTSecret   string

	// Revision scheduling parameters. These feed revision.Config so the
	// interval table is configuration, not literals in the scheduler.
	RevisionIntervalDays []int
	RevisionPlateauDays  int
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}
	config := Config{
		Environment:          getEnv("ENVIRONMENT", "development"),
		HTTPPort:             getEnv("HTTPPORT", "5000"),
		MongoDBURL:           getEnv("MONGODBURL", "mongodb://localhost:27017"),
		RedisURL:             getEnv("REDISURL", "localhost:6379"),
		NATSURL:              getEnv("NATSURL", "nats://localhost:4222"),
		JWTSecret:            getEnv("JWTSECRET", "dev-secret-change-me"),
		RevisionIntervalDays: getEnvIntList("REVISIONINTERVALS", []int{1, 3, 7, 14, 30, 60}),
		RevisionPlateauDays:  getEnvInt("REVISIONPLATEAUDAYS", 90),
	}
	return config
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Ignoring non-numeric %s=%q", key, value)
	}
	return defaultValue
}

// getEnvIntList parses a comma-separated list, e.g. "1,3,7,14,30,60".
func getEnvIntList(key string, defaultValue []int) []int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			log.Printf("Ignoring malformed %s=%q", key, value)
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
