package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/mcoot/battingstats/internal/config"
)

var configEnvVars = []string{
	"BSTATS_CONFIG",
	"BSTATS_ADDR",
	"BSTATS_LOG_LEVEL",
	"BSTATS_STORAGE_TYPE",
	"BSTATS_SESSION_BACKEND",
	"BSTATS_SESSION_TTL",
	"BSTATS_JWT_SECRET",
	"BSTATS_AUTO_REGISTER",
	"BSTATS_MISSING_RECORD_POLICY",
}

func clearConfigEnvVars() {
	for _, key := range configEnvVars {
		_ = os.Unsetenv(key)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StorageType, convey.ShouldEqual, config.StorageMemory)
				convey.So(cfg.SessionBackend, convey.ShouldEqual, config.SessionMemory)
				convey.So(cfg.SessionTTL, convey.ShouldEqual, 24*time.Hour)
				convey.So(cfg.AutoRegister, convey.ShouldBeTrue)
				convey.So(cfg.MissingRecordPolicy, convey.ShouldEqual, "ignore")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BSTATS_ADDR", ":9090")
			_ = os.Setenv("BSTATS_STORAGE_TYPE", "sqlite")
			_ = os.Setenv("BSTATS_SESSION_TTL", "2h")
			_ = os.Setenv("BSTATS_AUTO_REGISTER", "false")
			_ = os.Setenv("BSTATS_MISSING_RECORD_POLICY", "report")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StorageType, convey.ShouldEqual, config.StorageSQLite)
				convey.So(cfg.SessionTTL, convey.ShouldEqual, 2*time.Hour)
				convey.So(cfg.AutoRegister, convey.ShouldBeFalse)
				convey.So(cfg.MissingRecordPolicy, convey.ShouldEqual, "report")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeConfigFile(t, `
addr: ":7070"
log_level: debug
storage_type: redis
redis_url: "redis://cache:6379/1"
session_ttl: 30m
`)
			_ = os.Setenv("BSTATS_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.StorageType, convey.ShouldEqual, config.StorageRedis)
				convey.So(cfg.RedisURL, convey.ShouldEqual, "redis://cache:6379/1")
				convey.So(cfg.SessionTTL, convey.ShouldEqual, 30*time.Minute)
			})
		})

		convey.Convey("When env vars and a YAML file both set a key", func() {
			path := writeConfigFile(t, "addr: \":7070\"\n")
			_ = os.Setenv("BSTATS_CONFIG", path)
			_ = os.Setenv("BSTATS_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the env var wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("BSTATS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an env var holds an invalid value", func() {
			_ = os.Setenv("BSTATS_STORAGE_TYPE", "cassandra")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
