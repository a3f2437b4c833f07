package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/confscore/internal/config"
	"github.com/okian/confscore/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.StoreSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.DefaultScorer, convey.ShouldEqual, scoring.NameBoltzman)
			convey.So(cfg.RowWorkers, convey.ShouldEqual, 1)
			convey.So(cfg.JobTimeout(), convey.ShouldEqual, 30*time.Second)
		})

		convey.Convey("And they should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid field", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = "" },
			"zero queue":         func(c *config.Config) { c.QueueSize = 0 },
			"zero workers":       func(c *config.Config) { c.WorkerCount = 0 },
			"zero store":         func(c *config.Config) { c.StoreSize = 0 },
			"zero shards":        func(c *config.Config) { c.ShardCount = 0 },
			"zero row workers":   func(c *config.Config) { c.RowWorkers = 0 },
			"negative max rows":  func(c *config.Config) { c.MaxRows = -1 },
			"zero job timeout":   func(c *config.Config) { c.JobTimeoutMS = 0 },
			"unknown scorer":     func(c *config.Config) { c.DefaultScorer = "softmax" },
			"negative max class": func(c *config.Config) { c.MaxClasses = -5 },
		}

		convey.Convey("Then each should fail with ErrInvalidConfig", func() {
			for name, mutate := range cases {
				cfg := config.New(context.Background())
				mutate(cfg)
				err := cfg.Validate()
				convey.So(name+": "+errString(err), convey.ShouldContainSubstring, "invalid config")
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			}
		})
	})
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
