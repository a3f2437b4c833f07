package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/confscore/internal/config"
	"github.com/okian/confscore/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"CONFSCORE_CONFIG", "CONFSCORE_ADDR", "CONFSCORE_QUEUE_SIZE", "CONFSCORE_WORKER_COUNT",
	"CONFSCORE_STORE_SIZE", "CONFSCORE_SHARD_COUNT", "CONFSCORE_DEFAULT_SCORER",
	"CONFSCORE_ROW_WORKERS", "CONFSCORE_MAX_ROWS", "CONFSCORE_MAX_CLASSES",
	"CONFSCORE_JOB_TIMEOUT_MS", "CONFSCORE_LOG_LEVEL",
}

// clearConfigEnv unsets every config variable for the rest of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "confscore.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnv(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should match New", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("CONFSCORE_ADDR", ":8080")
			t.Setenv("CONFSCORE_QUEUE_SIZE", "500")
			t.Setenv("CONFSCORE_WORKER_COUNT", "16")
			t.Setenv("CONFSCORE_DEFAULT_SCORER", scoring.NameGap)
			t.Setenv("CONFSCORE_JOB_TIMEOUT_MS", "250")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.DefaultScorer, convey.ShouldEqual, scoring.NameGap)
				convey.So(cfg.JobTimeoutMS, convey.ShouldEqual, 250)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			t.Setenv("CONFSCORE_CONFIG", writeConfig(t, `
addr: ":9090"
queue_size: 300
worker_count: 24
store_size: 600
row_workers: 4
max_rows: 50
`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should be applied over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24)
				convey.So(cfg.StoreSize, convey.ShouldEqual, 600)
				convey.So(cfg.RowWorkers, convey.ShouldEqual, 4)
				convey.So(cfg.MaxRows, convey.ShouldEqual, 50)
				convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
				convey.So(cfg.DefaultScorer, convey.ShouldEqual, scoring.NameBoltzman)
			})
		})

		convey.Convey("When both file and environment set a key", func() {
			t.Setenv("CONFSCORE_CONFIG", writeConfig(t, "addr: \":9090\"\nworker_count: 24\n"))
			t.Setenv("CONFSCORE_WORKER_COUNT", "32")

			cfg, err := config.Load(ctx)

			convey.Convey("Then the environment should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			t.Setenv("CONFSCORE_CONFIG", writeConfig(t, "addr: [unclosed\n"))
			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file does not exist", func() {
			t.Setenv("CONFSCORE_CONFIG", "/non/existent/file.yaml")
			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a numeric variable is not a number", func() {
			t.Setenv("CONFSCORE_QUEUE_SIZE", "lots")
			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When addr is set empty", func() {
			t.Setenv("CONFSCORE_ADDR", "")
			_, err := config.Load(ctx)

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the default scorer is unknown", func() {
			t.Setenv("CONFSCORE_DEFAULT_SCORER", "softmax")
			_, err := config.Load(ctx)

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
