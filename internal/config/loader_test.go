package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/logquest/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"LOGQUEST_CONFIG",
	"LOGQUEST_LOG_LEVEL",
	"LOGQUEST_BACKEND",
	"LOGQUEST_FILE_PATH",
	"LOGQUEST_SQLITE_PATH",
	"LOGQUEST_REDIS_ADDR",
	"LOGQUEST_REDIS_DB",
	"LOGQUEST_REDIS_PREFIX",
	"LOGQUEST_STORAGE_LIMIT_BYTES",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "logquest.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LOGQUEST_BACKEND", "sqlite")
			_ = os.Setenv("LOGQUEST_SQLITE_PATH", "/var/lib/logquest/progress.db")
			_ = os.Setenv("LOGQUEST_STORAGE_LIMIT_BYTES", "2048")
			_ = os.Setenv("LOGQUEST_LOG_LEVEL", "debug")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Backend, convey.ShouldEqual, "sqlite")
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/var/lib/logquest/progress.db")
				convey.So(cfg.StorageLimitBytes, convey.ShouldEqual, 2048)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.FilePath, convey.ShouldEqual, "logquest.json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			_ = os.Setenv("LOGQUEST_CONFIG", createTempConfigFile(t, `
backend: redis
redis_addr: "cache:6380"
redis_db: 3
redis_prefix: "kid1:"
`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Backend, convey.ShouldEqual, "redis")
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "cache:6380")
				convey.So(cfg.RedisDB, convey.ShouldEqual, 3)
				convey.So(cfg.RedisPrefix, convey.ShouldEqual, "kid1:")
				convey.So(cfg.StorageLimitBytes, convey.ShouldEqual, 102400) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			_ = os.Setenv("LOGQUEST_CONFIG", createTempConfigFile(t, `
backend: file
file_path: "/tmp/from-file.json"
log_level: warn
`))
			_ = os.Setenv("LOGQUEST_FILE_PATH", "/tmp/from-env.json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.FilePath, convey.ShouldEqual, "/tmp/from-env.json") // Overridden by env
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")               // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("LOGQUEST_CONFIG", createTempConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("LOGQUEST_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown backend", func() {
			_ = os.Setenv("LOGQUEST_BACKEND", "floppy")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "floppy")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("LOGQUEST_STORAGE_LIMIT_BYTES", "lots")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
