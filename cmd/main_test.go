package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/confscore/internal/config"
	"github.com/okian/confscore/internal/domain/model"
	"github.com/okian/confscore/pkg/logger"
	"github.com/okian/confscore/pkg/matrix"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given configuration loaded from the environment", t, func() {
		t.Setenv("CONFSCORE_WORKER_COUNT", "2")
		t.Setenv("CONFSCORE_QUEUE_SIZE", "16")
		t.Setenv("CONFSCORE_MAX_ROWS", "2")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)

		svc := newService(cfg, logger.Nop())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		ts := httptest.NewServer(newMux(ctx, cfg, svc))
		defer ts.Close()

		convey.Convey("When posting a prediction matrix", func() {
			resp, err := http.Post(ts.URL+"/confidence", "application/json",
				strings.NewReader(`{"pred":[[1,2,3],[3,2,1]]}`))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it should be scored", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When posting more rows than max_rows", func() {
			resp, err := http.Post(ts.URL+"/confidence", "application/json",
				strings.NewReader(`{"pred":[[1,2],[2,1],[1,1]]}`))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it should be rejected", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
			})
		})

		convey.Convey("When requesting the OpenAPI document", func() {
			resp, err := http.Get(ts.URL + "/openapi.yaml")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it should be served", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When the gap margin overflows float64", func() {
			resp, err := http.Post(ts.URL+"/confidence", "application/json",
				strings.NewReader(`{"scorer":"gap","pred":[[-1.7976931348623157e308,1.7976931348623157e308]]}`))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it should be rejected", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusBadRequest)
			})
		})

		convey.Convey("When the service metrics updater runs until cancelled", func() {
			short, stop := context.WithTimeout(ctx, 20*time.Millisecond)
			defer stop()

			convey.So(func() {
				updateServiceMetrics(svc)
				startServiceMetricsUpdater(short, svc)
			}, convey.ShouldNotPanic)
		})
	})
}

func TestRunFailsOnInvalidConfig(t *testing.T) {
	convey.Convey("Given an empty listen address", t, func() {
		t.Setenv("CONFSCORE_ADDR", "")

		convey.Convey("Then run should return the config error", func() {
			err := run(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestStartServiceSurvivesSignal(t *testing.T) {
	convey.Convey("Given a service started from a signal context", t, func() {
		t.Setenv("CONFSCORE_WORKER_COUNT", "2")
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		sigCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		svc := newService(cfg, logger.Nop())
		convey.So(startService(sigCtx, svc), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When the signal fires before a job is processed", func() {
			cancel()
			pred, err := matrix.FromRows([][]float64{{1, 2, 0.5}})
			convey.So(err, convey.ShouldBeNil)
			id, _, err := svc.Submit(context.Background(), model.Job{ID: "after-signal", Pred: pred})
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the workers still complete it", func() {
				var rec model.JobRecord
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					rec, err = svc.Job(context.Background(), id)
					if err == nil && rec.Finished() {
						break
					}
					time.Sleep(5 * time.Millisecond)
				}
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.Status, convey.ShouldEqual, model.StatusDone)
				convey.So(rec.Result.Labels, convey.ShouldResemble, []int{2})
			})
		})
	})
}
