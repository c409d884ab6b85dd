package cmd

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"travelscraper/offerworker/logger"
	"travelscraper/offerworker/services/scheduler"
)

const shutdownTimeout = 10 * time.Second

func newScheduleCmd(root *rootOptions) *cobra.Command {
	var (
		pf     profileFlags
		runNow bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run collections and cleanups on their cron schedules",
		Long: `schedule keeps running, triggering a collection on SCRAPE_CRON and a run
history cleanup on CLEANUP_CRON. With Redis configured, a shared lock keeps
two instances from collecting at the same time. Metrics are served on
METRICS_ADDR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, appOptions{logLevel: root.logLevel, logOut: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer a.close()

			prof, err := pf.build(cmd, a.cfg.ProfilePath)
			if err != nil {
				return err
			}

			w := a.worker(a.cfg.StrictNormalize)
			sched, err := scheduler.New(scheduler.Options{
				ScrapeSpec:  a.cfg.ScrapeCron,
				CleanupSpec: a.cfg.CleanupCron,
				Collect: func(ctx context.Context) error {
					_, err := w.Collect(ctx, prof)
					return err
				},
				Cleanup: func(ctx context.Context) error {
					_, err := w.Cleanup(ctx, a.cfg.RunRetention)
					return err
				},
				Locker: a.locker(),
				Logger: a.log,
			})
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.Handle("/metrics", a.metrics.Handler())
			mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
				rw.WriteHeader(http.StatusOK)
			})
			srv := &http.Server{
				Addr:              a.cfg.MetricsAddr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					a.log.Error().Err(err).Str("addr", srv.Addr).Msg("Metrics server stopped")
				}
			}()

			a.log.Info().
				Str("scrape_cron", a.cfg.ScrapeCron).
				Str("cleanup_cron", a.cfg.CleanupCron).
				Str("metrics_addr", a.cfg.MetricsAddr).
				Str("profile", prof.String()).
				Msg("Scheduler started")
			runScheduled(ctx, sched, runNow, a.log)

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	pf.register(cmd)
	cmd.Flags().BoolVar(&runNow, "run-now", false, "collect once right after start")
	return cmd
}

// runScheduled runs the schedules until ctx is done. It returns once the
// cron jobs and the startup collection have finished.
func runScheduled(ctx context.Context, sched *scheduler.Scheduler, runNow bool, log *logger.Logger) {
	sched.Start(ctx)

	var wg sync.WaitGroup
	if runNow {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.RunCollect(ctx)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	sched.Stop()
	wg.Wait()
}
