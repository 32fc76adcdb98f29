package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aouyang1/go-healthforecast/pipeline"
	"github.com/aouyang1/go-healthforecast/scheduler"
)

const dailyJob = "daily"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daily pipeline on a schedule and serve health and metrics endpoints",
	Long: `serve runs prepare, aggregate and forecast in sequence on the configured cron schedule.
A day without processed tables skips prepare and forecasts the newest cleaned input.

Endpoints:
  GET  /healthz           last run of every job
  GET  /metrics           Prometheus metrics
  GET  /jobs/{name}       last run of a job
  POST /jobs/{name}/run   run a job now`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p, closeStore, err := openPipeline(reg)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck

	sched := scheduler.New(time.UTC)
	if err := sched.Add(dailyJob, cfg.Server.Schedule, dailyRun(p)); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(sched, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Start()
	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		sched.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	sched.Stop()
	return srv.Shutdown(shutdownCtx)
}

func dailyRun(p *pipeline.Pipeline) scheduler.JobFunc {
	return func(ctx context.Context) error {
		if _, err := p.NormalizeAll(ctx); err != nil && !errors.Is(err, pipeline.ErrInputNotFound) {
			return err
		}
		if _, err := p.Prepare(ctx, time.Now()); err != nil && !errors.Is(err, pipeline.ErrInputNotFound) {
			return err
		}
		if _, err := p.Aggregate(ctx); err != nil {
			return err
		}
		_, err := p.Forecast(ctx)
		return err
	}
}

type jobStatus struct {
	Schedule string         `json:"schedule"`
	Last     *scheduler.Run `json:"last,omitempty"`
}

func newRouter(sched *scheduler.Scheduler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		jobs := make(map[string]jobStatus)
		for name, spec := range sched.Jobs() {
			st := jobStatus{Schedule: spec}
			if last, ok := sched.Last(name); ok {
				st.Last = &last
			}
			jobs[name] = st
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "jobs": jobs})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/jobs/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		spec, ok := sched.Jobs()[name]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": scheduler.ErrJobNotFound.Error()})
			return
		}
		st := jobStatus{Schedule: spec}
		if last, ok := sched.Last(name); ok {
			st.Last = &last
		}
		writeJSON(w, http.StatusOK, st)
	})

	r.Post("/jobs/{name}/run", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		err := sched.RunNow(req.Context(), name)
		if errors.Is(err, scheduler.ErrJobNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		last, _ := sched.Last(name)
		status := http.StatusOK
		if err != nil {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, last)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := printJSON(w, v); err != nil {
		slog.Warn("unable to write response", "error", err.Error())
	}
}
