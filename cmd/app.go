package cmd

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"travelscraper/offerworker/config"
	"travelscraper/offerworker/helpers"
	"travelscraper/offerworker/internal/crawler"
	"travelscraper/offerworker/internal/normalizer"
	"travelscraper/offerworker/internal/obs"
	"travelscraper/offerworker/internal/pipeline"
	"travelscraper/offerworker/logger"
	scrapeerrors "travelscraper/offerworker/pkg/errors"
	"travelscraper/offerworker/services/cache"
	"travelscraper/offerworker/services/lock"
	"travelscraper/offerworker/services/publisher"
	"travelscraper/offerworker/services/store"
	"travelscraper/offerworker/services/worker"
)

const runLockKey = "offerworker:run_lock"

// app holds the services a command runs with
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	metrics   *obs.Metrics
	store     store.Store
	publisher publisher.Publisher
	cache     cache.CacheService
	redis     *redis.Client
}

type appOptions struct {
	logLevel string
	// dryRun keeps results in memory and publishes nothing
	dryRun bool
	logOut io.Writer
}

// newApp loads the configuration and connects the services
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg := config.LoadConfig()
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, scrapeerrors.NewConfiguration("invalid configuration", err)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Environment: cfg.Environment, Output: opts.logOut})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: obs.NewMetrics(reg),
	}

	if cfg.DatabaseURL == "" || opts.dryRun {
		log.Warn().Bool("dry_run", opts.dryRun).Msg("Using in-memory store, offers are not persisted")
		a.store = store.NewMemory()
	} else {
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		a.store = pg
		log.Info().Msg("Connected to PostgreSQL")
	}

	if cfg.RedisAddr == "" || opts.dryRun {
		a.publisher = publisher.NopPublisher{}
	} else {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		pub := publisher.NewRedisPublisherWithClient(a.redis, publisher.RedisOptions{
			StreamPrefix:    cfg.RedisStream,
			StreamCount:     cfg.RedisStreamCount,
			StreamMaxLength: cfg.RedisStreamMaxLength,
		})
		if err := pub.Ping(ctx); err != nil {
			a.close()
			return nil, err
		}
		a.publisher = pub
		log.Info().
			Str("addr", cfg.RedisAddr).
			Int("db", cfg.RedisDB).
			Str("stream", cfg.RedisStream).
			Msg("Connected to Redis")
	}

	a.cache = cache.NewMemoryCache()
	if cfg.MemcacheAddr != "" {
		mc := cache.NewMemcacheService(cfg.MemcacheAddr, 0)
		if err := mc.Ping(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unreachable, keeping rate limit blocks in memory")
		} else {
			a.cache = mc
			log.Info().Str("addr", cfg.MemcacheAddr).Msg("Using memcache for rate limit blocks")
		}
	}

	return a, nil
}

// worker wires fetcher, adapters, normalizer and pipeline into a worker
func (a *app) worker(strict bool) *worker.Worker {
	fetcher := helpers.NewFetcher(helpers.FetcherOptions{
		Timeout:       a.cfg.FetchTimeout,
		RatePerSecond: a.cfg.FetchRatePerSecond,
		Logger:        a.log,
	})
	crawlers := crawler.CreateCrawlers(a.cfg, fetcher, a.cache, a.log, a.metrics)
	norm := normalizer.New(strict, a.log, a.metrics)
	if strict {
		a.log.Warn().Msg("Strict normalization: mismatching offers are rejected instead of corrected")
	}

	return worker.NewWorker(worker.Options{
		Pipeline:  pipeline.New(crawlers, norm, a.log),
		Store:     a.store,
		Publisher: a.publisher,
		Logger:    a.log,
		Metrics:   a.metrics,
	})
}

// locker returns the shared Redis lock when Redis is configured
func (a *app) locker() lock.Locker {
	if a.redis != nil {
		return lock.NewRedisLocker(a.redis, runLockKey, a.cfg.RunLockTTL)
	}
	return lock.NewLocalLocker()
}

func (a *app) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to close publisher")
		}
	} else if a.redis != nil {
		a.redis.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to close store")
		}
	}
}
