package runner

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kvload/internal/stats"
)

type Runner struct {
	Cfg Config

	logger      *zap.Logger
	newExecutor ExecutorFactory
}

type Option func(*Runner)

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithExecutorFactory replaces the default HTTP executor, mostly for tests.
func WithExecutorFactory(f ExecutorFactory) Option {
	return func(r *Runner) {
		if f != nil {
			r.newExecutor = f
		}
	}
}

func NewRunner(cfg Config, opts ...Option) *Runner {
	r := &Runner{
		Cfg:    cfg,
		logger: zap.NewNop(),
	}
	r.newExecutor = func(int) Executor {
		return NewHTTPExecutor(r.Cfg)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates the config, drives Threads workers until each passes its
// deadline, and aggregates their stats. Configuration errors are returned
// before any worker starts; request failures never surface as errors.
//
// Cancelling ctx stops workers at their next iteration boundary. The join
// itself has no timeout.
func (r *Runner) Run(ctx context.Context) (*stats.Report, error) {
	if err := r.Cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := r.logger.With(zap.String("run_id", runID))
	log.Info("run starting",
		zap.Int("threads", r.Cfg.Threads),
		zap.Duration("duration", r.Cfg.Duration),
		zap.Stringer("workload", r.Cfg.Workload),
		zap.String("target", r.Cfg.BaseURL()),
	)

	workers := make([]*stats.WorkerStats, r.Cfg.Threads)
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < r.Cfg.Threads; i++ {
		exec := r.newExecutor(i)
		w := newWorker(i, r.Cfg, exec, log)

		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			if c, ok := exec.(io.Closer); ok {
				defer c.Close()
			}
			workers[slot] = w.run(ctx, r.Cfg.Duration)
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	report := stats.Aggregate(workers, elapsed)
	report.RunID = runID

	log.Info("run finished",
		zap.Duration("elapsed", elapsed),
		zap.Uint64("total_requests", report.TotalRequests),
		zap.Uint64("failures", report.Failures),
		zap.Int64("throughput_per_sec", report.ThroughputPerSec),
		zap.Float64("avg_latency_ms", report.AverageLatencyMs),
	)
	if !report.HasData {
		log.Warn("no successful requests")
	}
	return &report, nil
}
