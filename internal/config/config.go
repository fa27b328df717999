package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultPublicPricesURL = "https://sfl.world/api/v1/prices"

type Config struct {
	HTTPAddr string

	CacheSeconds    int
	PrivateAPIBase  string
	PrivateAPIToken string
	PublicPricesURL string
	FeedTimeoutMs   int

	ItemCatalogPath      string
	SecondaryCatalogPath string
	CatalogDBPath        string
	OutputDir            string

	LogLevel  string
	LogFormat string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr: listenAddr(),

		CacheSeconds:    getEnvInt("SFL_WORLD_CACHE_SECONDS", 900),
		PrivateAPIBase:  strings.TrimSpace(getEnv("SUNFLOWER_API_BASE", "")),
		PrivateAPIToken: strings.TrimSpace(getEnv("SUNFLOWER_API_TOKEN", "")),
		PublicPricesURL: strings.TrimSpace(getEnv("SFL_WORLD_PRICES_URL", "")),
		FeedTimeoutMs:   getEnvInt("FEED_TIMEOUT_MS", 0),

		ItemCatalogPath:      getEnv("ITEM_CATALOG_PATH", ""),
		SecondaryCatalogPath: getEnv("SECONDARY_CATALOG_PATH", ""),
		CatalogDBPath:        getEnv("CATALOG_DB_PATH", ""),
		OutputDir:            getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
	if cfg.PublicPricesURL == "" {
		cfg.PublicPricesURL = DefaultPublicPricesURL
	}
	if cfg.CacheSeconds < 0 {
		cfg.CacheSeconds = 0
	}
	if cfg.FeedTimeoutMs < 0 {
		cfg.FeedTimeoutMs = 0
	}

	return cfg, nil
}

// CacheTTL is the price book lifetime. Zero disables caching.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheSeconds) * time.Second
}

func (c Config) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutMs) * time.Millisecond
}

func (c Config) Validate() error {
	if c.PrivateAPIBase != "" {
		if err := checkURL("SUNFLOWER_API_BASE", c.PrivateAPIBase); err != nil {
			return err
		}
	}
	return checkURL("SFL_WORLD_PRICES_URL", c.PublicPricesURL)
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", name)
	}
	return nil
}

func listenAddr() string {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		return port
	}
	return getEnv("HTTP_ADDR", ":8080")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
