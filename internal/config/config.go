package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config collects every runtime setting of the LocalFinder server.
type Config struct {
	Port     string
	LogLevel string
	// PublicURL is the externally visible origin used in share links.
	PublicURL string

	// Base URL of the places REST API, including the /api prefix.
	PlacesAPIURL   string
	RequestTimeout time.Duration

	// DatabaseURL selects Postgres for persisted state; otherwise SQLite at DBPath.
	DBPath      string
	DatabaseURL string
	// RedisURL enables the shared response cache; empty keeps it in memory.
	RedisURL string

	Geolocator    string // ipapi | static | none
	GeolocatorURL string
	DefaultLat    float64
	DefaultLon    float64

	DefaultQuery       string
	PageSize           int
	SearchRadiusMeters int
}

// Load reads configuration from the environment, after an optional .env file.
// The second return value reports whether a .env file was loaded.
func Load() (*Config, bool) {
	loaded := godotenv.Load() == nil

	cfg := &Config{
		Port:               Get("PORT", "8080"),
		LogLevel:           Get("LOG_LEVEL", "info"),
		PlacesAPIURL:       strings.TrimRight(Get("PLACES_API_URL", "http://localhost:3001/api"), "/"),
		RequestTimeout:     time.Duration(GetInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		DBPath:             Get("DB_PATH", "data/localfinder.db"),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		Geolocator:         strings.ToLower(Get("GEOLOCATOR", "ipapi")),
		GeolocatorURL:      Get("GEOLOCATOR_URL", "http://ip-api.com/json/"),
		DefaultLat:         GetFloat("DEFAULT_LAT", 14.5995),
		DefaultLon:         GetFloat("DEFAULT_LON", 120.9842),
		DefaultQuery:       Get("DEFAULT_QUERY", "restaurants"),
		PageSize:           GetInt("PAGE_SIZE", 10),
		SearchRadiusMeters: GetInt("SEARCH_RADIUS_METERS", 5000),
	}

	cfg.PublicURL = strings.TrimRight(Get("PUBLIC_URL", "http://localhost:"+cfg.Port), "/")

	return cfg, loaded
}

func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func GetFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
