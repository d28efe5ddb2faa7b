package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"board-champions-backend/config"

	. "github.com/smartystreets/goconvey/convey"
)

// clearEnv unsets keys for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	Convey("Given only a database url in the environment", t, func() {
		clearEnv(t, "PORT", "UNLOCK_CREDIT_COST", "CONFIG_FILE", "RATE_LIMIT_PUBLIC_PROFILE_THRESHOLD")
		t.Setenv("DATABASE_URL", "postgres://localhost/board")

		cfg, err := config.LoadConfig()

		Convey("Then the defaults are used", func() {
			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, "8080")
			So(cfg.UnlockCreditCost, ShouldEqual, 1)
			So(cfg.RateLimitPublicProfileThreshold, ShouldEqual, 30)
			So(cfg.DBUrl, ShouldEqual, "postgres://localhost/board")
		})
	})
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		t.Setenv("PORT", "9090")
		t.Setenv("UNLOCK_CREDIT_COST", "3")
		t.Setenv("CLERK_ISSUER", "https://clerk.example.com/")
		t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091/")

		cfg, err := config.LoadConfig()

		Convey("Then the overrides win and the JWKS url is derived", func() {
			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, "9090")
			So(cfg.UnlockCreditCost, ShouldEqual, 3)
			So(cfg.ClerkIssuer, ShouldEqual, "https://clerk.example.com")
			So(cfg.ClerkJWKSURL, ShouldEqual, "https://clerk.example.com/.well-known/jwks.json")
			So(cfg.PushgatewayURL, ShouldEqual, "http://pushgateway:9091")
		})
	})
}

func TestLoadConfigFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		clearEnv(t, "PORT", "UNLOCK_CREDIT_COST", "LOG_LEVEL")
		path := filepath.Join(t.TempDir(), "config.yaml")
		err := os.WriteFile(path, []byte("port: \"7070\"\nunlock_credit_cost: 0\nlog_level: debug\n"), 0o600)
		So(err, ShouldBeNil)
		t.Setenv("CONFIG_FILE", path)

		cfg, err := config.LoadConfig()

		Convey("Then file values apply and invalid costs are clamped", func() {
			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, "7070")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.UnlockCreditCost, ShouldEqual, 1)
		})
	})
}
