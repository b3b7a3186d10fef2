package stats

import (
	"time"

	"kvload/internal/workload"
)

// Report is the run-wide summary. TotalRequests counts successful requests
// only; attempts and failures are kept alongside for diagnostics.
type Report struct {
	RunID string `json:"run_id,omitempty" yaml:"run_id,omitempty"`

	TotalRequests    uint64  `json:"total_requests" yaml:"total_requests"`
	ThroughputPerSec int64   `json:"throughput_per_sec" yaml:"throughput_per_sec"`
	AverageLatencyMs float64 `json:"average_latency_ms" yaml:"average_latency_ms"`

	TotalAttempts uint64 `json:"total_attempts" yaml:"total_attempts"`
	Failures      uint64 `json:"failures" yaml:"failures"`

	P50LatencyMs float64 `json:"p50_latency_ms" yaml:"p50_latency_ms"`
	P90LatencyMs float64 `json:"p90_latency_ms" yaml:"p90_latency_ms"`
	P99LatencyMs float64 `json:"p99_latency_ms" yaml:"p99_latency_ms"`
	MaxLatencyMs float64 `json:"max_latency_ms" yaml:"max_latency_ms"`

	Elapsed    time.Duration     `json:"elapsed_ns" yaml:"elapsed"`
	OpAttempts map[string]uint64 `json:"op_attempts" yaml:"op_attempts"`
	Workers    []WorkerSummary   `json:"workers" yaml:"workers"`

	// HasData is false when no request succeeded. Throughput and latency
	// fields are zero in that case rather than the result of a division.
	HasData bool `json:"has_data" yaml:"has_data"`
}

type WorkerSummary struct {
	WorkerID     int     `json:"worker_id" yaml:"worker_id"`
	Attempts     uint64  `json:"attempts" yaml:"attempts"`
	Successes    uint64  `json:"successes" yaml:"successes"`
	Failures     uint64  `json:"failures" yaml:"failures"`
	AvgLatencyMs float64 `json:"avg_latency_ms" yaml:"avg_latency_ms"`
}

// SuccessRate is a percentage; zero when nothing was attempted.
func (r *Report) SuccessRate() float64 {
	if r.TotalAttempts == 0 {
		return 0
	}
	return float64(r.TotalRequests) / float64(r.TotalAttempts) * 100
}

// Aggregate combines joined worker snapshots into a Report. It never
// writes to its inputs, so repeated calls over the same snapshots agree.
func Aggregate(workers []*WorkerStats, elapsed time.Duration) Report {
	r := Report{
		Elapsed:    elapsed,
		OpAttempts: make(map[string]uint64, workload.NumOperations),
		Workers:    make([]WorkerSummary, 0, len(workers)),
	}

	var latencyNanos int64
	var ops [workload.NumOperations]uint64
	for _, w := range workers {
		if w == nil {
			continue
		}
		r.TotalRequests += w.Successes
		r.TotalAttempts += w.Attempts
		r.Failures += w.Failures
		latencyNanos += w.TotalLatencyNanos
		for i, n := range w.OpAttempts {
			ops[i] += n
		}
		r.Workers = append(r.Workers, WorkerSummary{
			WorkerID:     w.WorkerID,
			Attempts:     w.Attempts,
			Successes:    w.Successes,
			Failures:     w.Failures,
			AvgLatencyMs: w.AvgLatencyMs(),
		})
	}
	for i, n := range ops {
		r.OpAttempts[workload.Operation(i).String()] = n
	}

	if r.TotalRequests == 0 {
		return r
	}
	r.HasData = true

	if secs := elapsed.Seconds(); secs > 0 {
		r.ThroughputPerSec = int64(float64(r.TotalRequests) / secs)
	}
	r.AverageLatencyMs = float64(latencyNanos) / float64(r.TotalRequests) / 1e6

	merged := mergeLatency(workers)
	r.P50LatencyMs = quantileMs(merged, 50)
	r.P90LatencyMs = quantileMs(merged, 90)
	r.P99LatencyMs = quantileMs(merged, 99)
	r.MaxLatencyMs = float64(merged.Max()) / 1000.0
	return r
}
