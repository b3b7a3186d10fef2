package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"kvload/internal/workload"
)

// WorkerStats is one worker's private accumulator. It is written only by
// its worker and read by Aggregate after that worker has been joined, so
// none of its fields are synchronized.
type WorkerStats struct {
	WorkerID  int
	Attempts  uint64
	Successes uint64
	Failures  uint64

	// Only successful requests contribute latency.
	TotalLatencyNanos int64
	Latency           *hdrhistogram.Histogram

	OpAttempts [workload.NumOperations]uint64
}

func NewWorkerStats(workerID int) *WorkerStats {
	return &WorkerStats{
		WorkerID: workerID,
		Latency:  newLatencyHistogram(),
	}
}

func (s *WorkerStats) Record(op workload.Operation, succeeded bool, latency time.Duration) {
	s.Attempts++
	if int(op) >= 0 && int(op) < workload.NumOperations {
		s.OpAttempts[op]++
	}
	if !succeeded {
		s.Failures++
		return
	}
	s.Successes++
	s.TotalLatencyNanos += latency.Nanoseconds()
	recordLatency(s.Latency, latency)
}

// AvgLatencyMs is zero when the worker has no successes.
func (s *WorkerStats) AvgLatencyMs() float64 {
	if s.Successes == 0 {
		return 0
	}
	return float64(s.TotalLatencyNanos) / float64(s.Successes) / 1e6
}
