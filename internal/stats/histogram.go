package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	histMinUs   = 1
	histMaxUs   = int64(10 * time.Minute / time.Microsecond)
	histSigFigs = 3
)

// newLatencyHistogram tracks 1us to 10min at 3 significant figures.
// It is not safe for concurrent use; each worker owns its own.
func newLatencyHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(histMinUs, histMaxUs, histSigFigs)
}

func recordLatency(h *hdrhistogram.Histogram, d time.Duration) {
	us := d.Microseconds()
	if us < histMinUs {
		us = histMinUs
	}
	if us > histMaxUs {
		us = histMaxUs
	}
	// In range by construction.
	_ = h.RecordValue(us)
}

// mergeLatency folds every worker histogram into a fresh one, leaving the
// inputs untouched.
func mergeLatency(workers []*WorkerStats) *hdrhistogram.Histogram {
	merged := newLatencyHistogram()
	for _, w := range workers {
		if w == nil || w.Latency == nil {
			continue
		}
		merged.Merge(w.Latency)
	}
	return merged
}

func quantileMs(h *hdrhistogram.Histogram, q float64) float64 {
	return float64(h.ValueAtQuantile(q)) / 1000.0
}
