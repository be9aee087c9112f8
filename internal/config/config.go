package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr        string
	Storage         string
	DatabaseDSN     string
	BoltPath        string
	MaxRequestBytes int64
}

func Load() Config {
	maxBytes, err := strconv.ParseInt(getEnv("BP_MAX_REQUEST_BYTES", "1048576"), 10, 64)
	if err != nil {
		maxBytes = 1 << 20
	}
	return Config{
		HTTPAddr:        getEnv("BP_HTTP_ADDR", ":8080"),
		Storage:         getEnv("BP_STORAGE", "sqlite"),
		DatabaseDSN:     getEnv("BP_DB_DSN", "file:bptracker.db?cache=shared&mode=rwc"),
		BoltPath:        getEnv("BP_BOLT_PATH", "bptracker.bolt"),
		MaxRequestBytes: maxBytes,
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
