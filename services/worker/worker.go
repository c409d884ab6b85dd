package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"travelscraper/offerworker/internal/obs"
	"travelscraper/offerworker/internal/pipeline"
	"travelscraper/offerworker/internal/profile"
	"travelscraper/offerworker/logger"
	"travelscraper/offerworker/services/publisher"
	"travelscraper/offerworker/services/store"
)

// Summary reports one collection run
type Summary struct {
	RunID     string        `json:"run_id"`
	Found     int           `json:"found"`
	Saved     int           `json:"saved"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Skipped   int           `json:"skipped"`
	Samples   int           `json:"samples"`
	Published int           `json:"published"`
	Duration  time.Duration `json:"duration_ns"`
}

// Options carries the worker collaborators
type Options struct {
	Pipeline  *pipeline.Pipeline
	Store     store.Store
	Publisher publisher.Publisher
	Logger    *logger.Logger
	Metrics   *obs.Metrics
}

// Worker runs collections: scrape, merge into the catalog, announce
type Worker struct {
	pipeline  *pipeline.Pipeline
	store     store.Store
	merger    *store.Merger
	publisher publisher.Publisher
	logger    *logger.Logger
	metrics   *obs.Metrics
	now       func() time.Time
}

// NewWorker creates a worker
func NewWorker(opts Options) *Worker {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	pub := opts.Publisher
	if pub == nil {
		pub = publisher.NopPublisher{}
	}
	return &Worker{
		pipeline:  opts.Pipeline,
		store:     opts.Store,
		merger:    store.NewMerger(opts.Store, log, opts.Metrics),
		publisher: pub,
		logger:    log.ForComponent("worker"),
		metrics:   opts.Metrics,
		now:       time.Now,
	}
}

// Collect runs the pipeline for a profile and stores the results. Publish
// and history failures are logged; only pipeline and merge failures are
// returned.
func (w *Worker) Collect(ctx context.Context, prof profile.SearchProfile) (Summary, error) {
	started := w.now()
	summary := Summary{RunID: uuid.NewString()}
	log := w.logger.WithField("run_id", summary.RunID)

	log.Info().Str("profile", prof.String()).Msg("Starting collection")

	results, err := w.pipeline.Run(ctx, prof)
	summary.Found = len(results)
	summary.Samples = pipeline.CountSamples(results)
	if err != nil {
		return w.fail(ctx, log, summary, started, err)
	}

	stats, err := w.merger.Save(ctx, results)
	if err != nil {
		return w.fail(ctx, log, summary, started, err)
	}
	summary.Saved = stats.Saved()
	summary.Created = stats.Created
	summary.Updated = stats.Updated
	summary.Skipped = stats.Skipped

	published, err := publisher.PublishOffers(ctx, w.publisher, summary.RunID, stats.Merged, started)
	summary.Published = published
	if err != nil {
		log.Error().Err(err).Int("published", published).Msg("Failed to publish offers")
	}
	if err := w.publisher.TrimStreams(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to trim streams")
	}

	summary.Duration = w.now().Sub(started)
	w.record(ctx, log, summary, started, store.RunStatusOK)

	log.Info().
		Int("found", summary.Found).
		Int("saved", summary.Saved).
		Int("skipped", summary.Skipped).
		Int("samples", summary.Samples).
		Int("published", summary.Published).
		Dur("duration", summary.Duration).
		Msg("Collection finished")

	return summary, nil
}

func (w *Worker) fail(ctx context.Context, log *logger.Logger, summary Summary, started time.Time, err error) (Summary, error) {
	summary.Duration = w.now().Sub(started)
	log.Error().Err(err).Int("found", summary.Found).Msg("Collection failed")
	w.record(ctx, log, summary, started, store.RunStatusFailed)
	return summary, err
}

func (w *Worker) record(ctx context.Context, log *logger.Logger, summary Summary, started time.Time, status string) {
	finished := started.Add(summary.Duration)
	w.metrics.RunFinished(status, float64(finished.Unix()))

	// history is written even when the run context was cancelled
	recordCtx := context.WithoutCancel(ctx)
	err := w.store.RecordRun(recordCtx, store.Run{
		ID:         summary.RunID,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		Status:     status,
		Found:      summary.Found,
		Saved:      summary.Saved,
		Skipped:    summary.Skipped,
		Samples:    summary.Samples,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to record run")
	}
}

// Cleanup deletes run history older than retention
func (w *Worker) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := w.now().Add(-retention)
	deleted, err := w.store.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		w.logger.Error().Err(err).Msg("Run history cleanup failed")
		return 0, err
	}
	w.logger.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("Run history cleaned up")
	return deleted, nil
}
