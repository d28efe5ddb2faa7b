package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Port        string `koanf:"port"`
	GinMode     string `koanf:"gin_mode"`
	LogLevel    string `koanf:"log_level"`
	DBUrl       string `koanf:"database_url"`
	DBMaxConns  int32  `koanf:"db_max_conns"`
	DBMinConns  int32  `koanf:"db_min_conns"`
	FrontendURL string `koanf:"frontend_url"`
	// Clerk issues RS256 session tokens; keys are published as a JWKS document.
	ClerkIssuer  string `koanf:"clerk_issuer"`
	ClerkJWKSURL string `koanf:"clerk_jwks_url"`
	// Redis/Upstash Configuration
	UpstashRedisURL      string `koanf:"upstash_redis_url"`
	UpstashRedisPassword string `koanf:"upstash_redis_password"`
	// Rate Limiting Configuration
	RateLimitWindowSeconds          int `koanf:"rate_limit_window_seconds"`
	RateLimitGlobalThreshold        int `koanf:"rate_limit_global_threshold"`
	RateLimitPublicProfileThreshold int `koanf:"rate_limit_public_profile_threshold"`
	// Marketplace
	UnlockCreditCost int `koanf:"unlock_credit_cost"`
	// Batch jobs push their metrics here when set.
	PushgatewayURL string `koanf:"pushgateway_url"`
}

// Defaults returns the configuration used when neither a config file nor
// the environment sets a key.
func Defaults() Config {
	return Config{
		Port:                            "8080",
		GinMode:                         "debug",
		LogLevel:                        "info",
		DBMaxConns:                      25,
		DBMinConns:                      5,
		FrontendURL:                     "http://localhost:3000",
		RateLimitWindowSeconds:          60,
		RateLimitGlobalThreshold:        100,
		RateLimitPublicProfileThreshold: 30,
		UnlockCreditCost:                1,
	}
}

// LoadConfig layers defaults, an optional YAML file (CONFIG_FILE) and the
// environment, lowest precedence first.
func LoadConfig() (*Config, error) {
	// Only effective locally; a missing .env in production is fine.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// DATABASE_URL -> database_url, matching the koanf tags above.
	envProvider := env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Trailing slashes would produce double slashes when paths are appended.
	cfg.ClerkIssuer = strings.TrimRight(cfg.ClerkIssuer, "/")
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	cfg.PushgatewayURL = strings.TrimRight(cfg.PushgatewayURL, "/")
	if cfg.ClerkJWKSURL == "" && cfg.ClerkIssuer != "" {
		cfg.ClerkJWKSURL = cfg.ClerkIssuer + "/.well-known/jwks.json"
	}
	if cfg.UnlockCreditCost < 1 {
		cfg.UnlockCreditCost = 1
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return &cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
