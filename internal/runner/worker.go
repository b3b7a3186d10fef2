package runner

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"kvload/internal/stats"
	"kvload/internal/workload"
)

// worker runs the closed request loop. Everything it mutates is private to
// it until run returns.
type worker struct {
	id      int
	policy  workload.Policy
	exec    Executor
	rng     *rand.Rand
	limiter *rate.Limiter
	stats   *stats.WorkerStats
	logger  *zap.Logger
}

func newWorker(id int, cfg Config, exec Executor, logger *zap.Logger) *worker {
	w := &worker{
		id:     id,
		policy: workload.NewPolicy(cfg.Workload, cfg.Generator()),
		exec:   exec,
		rng:    workload.NewRNG(cfg.Seed, id),
		stats:  stats.NewWorkerStats(id),
		logger: logger.With(zap.Int("worker", id)),
	}
	if cfg.RatePerWorker > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerWorker), 1)
	}
	return w
}

// run loops until its own deadline passes or ctx is cancelled. Both are
// checked only between requests: a request already sent always completes
// and is counted.
func (w *worker) run(ctx context.Context, d time.Duration) *stats.WorkerStats {
	deadline := time.Now().Add(d)
	loopCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	reqCtx := context.WithoutCancel(ctx)

	for time.Now().Before(deadline) {
		if loopCtx.Err() != nil {
			break
		}
		if w.limiter != nil {
			if err := w.limiter.Wait(loopCtx); err != nil {
				break
			}
		}

		req := w.policy.Next(w.rng)
		out := w.exec.Execute(reqCtx, req)
		w.stats.Record(req.Op, out.Succeeded, out.Latency)
	}

	w.logger.Debug("worker stopped",
		zap.Uint64("attempts", w.stats.Attempts),
		zap.Uint64("successes", w.stats.Successes),
		zap.Uint64("failures", w.stats.Failures),
	)
	return w.stats
}
