package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "DEEPWALK_"

// ApplyEnv overrides fields from DEEPWALK_* variables. Values that do not
// parse leave the field unchanged.
func (j *Job) ApplyEnv() {
	j.Input = getEnv("INPUT", j.Input)
	j.Format = getEnv("FORMAT", j.Format)
	j.Undirected = getEnvBool("UNDIRECTED", j.Undirected)
	j.Unchecked = getEnvBool("UNCHECKED", j.Unchecked)
	j.ChunkSize = getEnvInt("CHUNK_SIZE", j.ChunkSize)
	j.ParseWorkers = getEnvInt("PARSE_WORKERS", j.ParseWorkers)

	j.PostgresURL = getEnv("POSTGRES_URL", j.PostgresURL)
	j.PostgresQuery = getEnv("POSTGRES_QUERY", j.PostgresQuery)

	j.NumPaths = getEnvInt("NUM_PATHS", j.NumPaths)
	j.PathLength = getEnvInt("PATH_LENGTH", j.PathLength)
	j.Alpha = getEnvFloat("ALPHA", j.Alpha)
	j.Workers = getEnvInt("WORKERS", j.Workers)
	j.Seed = getEnvUint64("SEED", j.Seed)

	j.Output = getEnv("OUTPUT", j.Output)
	j.SendTimeout = getEnvDuration("SEND_TIMEOUT", j.SendTimeout)
	j.Stream = getEnvBool("STREAM", j.Stream)
	j.MetricsAddr = getEnv("METRICS_ADDR", j.MetricsAddr)
	j.LogLevel = getEnv("LOG_LEVEL", j.LogLevel)
	j.S3.Region = getEnv("S3_REGION", j.S3.Region)
	j.S3.Endpoint = getEnv("S3_ENDPOINT", j.S3.Endpoint)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvUint64(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.ParseUint(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		val = strings.ToLower(val)
		return val == "true" || val == "1" || val == "yes" || val == "on"
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		// Try parsing as seconds
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
