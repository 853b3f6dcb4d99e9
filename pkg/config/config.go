package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	// Content settings. An empty ContentPath means the embedded assets.
	ContentPath  = ""
	ManifestFile = "manifest.yml"

	// Site settings
	SiteURL    = "https://localhost:8080"
	SiteAuthor = ""
	SiteName   = "Portfolio"

	// Audit settings
	AuditRulesPath    = ""
	AuditHistoryLimit = 20
	AuditRatePerMin   = 6
	PageLoadTimeout   = 60 * time.Second

	// Loader settings
	LoadConcurrency = 20

	// Server settings
	ServerPort = "8080"

	// Logging
	LogLevel  = "info"
	LogFormat = "json"

	// Storage settings
	PostgresURL   = ""
	RedisAddr     = ""
	RedisPassword = ""
	RedisDB       = 0
)

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found or error loading it.")
	}

	ContentPath = getEnv("CONTENT_PATH", "")
	ManifestFile = getEnv("MANIFEST_FILE", "manifest.yml")

	SiteURL = getEnv("SITE_URL", "https://localhost:8080")
	SiteAuthor = getEnv("SITE_AUTHOR", "")
	SiteName = getEnv("SITE_NAME", "Portfolio")

	AuditRulesPath = getEnv("AUDIT_RULES_PATH", "")
	AuditHistoryLimit = getEnvAsInt("AUDIT_HISTORY_LIMIT", 20)
	AuditRatePerMin = getEnvAsInt("AUDIT_RATE_PER_MINUTE", 6)
	PageLoadTimeout = time.Duration(getEnvAsInt("PAGE_LOAD_TIMEOUT_SECONDS", 60)) * time.Second

	// CACHE_CONCURRENCY is the old name of the setting.
	LoadConcurrency = getEnvAsInt("LOAD_CONCURRENCY", getEnvAsInt("CACHE_CONCURRENCY", 20))

	ServerPort = getEnv("SERVER_PORT", "8080")
	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFormat = getEnv("LOG_FORMAT", "json")

	PostgresURL = getEnv("POSTGRES_URL", "")
	RedisAddr = getEnv("REDIS_ADDR", "")
	RedisPassword = getEnv("REDIS_PASSWORD", "")
	RedisDB = getEnvAsInt("REDIS_DB", 0)
}

// SiteHost returns the host part of SiteURL, or "" if it does not parse.
func SiteHost() string {
	u, err := url.Parse(SiteURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// ArticleURL returns the public URL of the article published under slug.
func ArticleURL(slug string) string {
	base, err := url.Parse(SiteURL)
	if err != nil {
		return "/blog/" + slug
	}
	return base.JoinPath("blog", slug).String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
