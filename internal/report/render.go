package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"kvload/internal/runner"
	"kvload/internal/stats"
	"kvload/internal/tui/styles"
	"kvload/internal/workload"
)

// Header describes the run about to start.
func Header(cfg runner.Config) string {
	s := strings.Builder{}
	s.WriteString(styles.Title.Render("Load Generator Starting"))
	s.WriteString("\n")
	fmt.Fprintf(&s, "Threads  : %d\n", cfg.Threads)
	fmt.Fprintf(&s, "Duration : %s\n", cfg.Duration)
	fmt.Fprintf(&s, "Workload : %s\n", cfg.Workload)
	fmt.Fprintf(&s, "Server   : %s\n", cfg.BaseURL())
	if cfg.Workload == workload.PopularGet {
		fmt.Fprintf(&s, "Hot keys : %s\n", strings.Join(cfg.HotKeys, ","))
	} else {
		fmt.Fprintf(&s, "Keys     : %s1..%s%d\n", cfg.KeyPrefix, cfg.KeyPrefix, cfg.KeySpace)
	}
	if cfg.Timeout > 0 {
		fmt.Fprintf(&s, "Timeout  : %s\n", cfg.Timeout)
	}
	if cfg.RatePerWorker > 0 {
		fmt.Fprintf(&s, "Rate     : %.1f req/s per worker\n", cfg.RatePerWorker)
	}
	return s.String()
}

// Render formats the final report. The first three numbers are the
// headline results; the rest is diagnostic.
func Render(r *stats.Report) string {
	s := strings.Builder{}

	s.WriteString(styles.Title.Render("LOAD TEST RESULTS"))
	s.WriteString("\n\n")

	if !r.HasData {
		s.WriteString(styles.Error.Render("No successful requests"))
		s.WriteString("\n")
		fmt.Fprintf(&s, "Attempts: %d  Failures: %d  Elapsed: %s\n",
			r.TotalAttempts, r.Failures, r.Elapsed.Round(time.Millisecond))
		return s.String()
	}

	headline := fmt.Sprintf(
		"Total Requests       : %s\nThroughput (req/sec) : %s\nAverage Latency      : %s",
		styles.Value.Render(fmt.Sprintf("%d", r.TotalRequests)),
		styles.Value.Render(fmt.Sprintf("%d", r.ThroughputPerSec)),
		styles.Value.Render(fmt.Sprintf("%.3f ms", r.AverageLatencyMs)),
	)
	s.WriteString(styles.Box.Render(headline))
	s.WriteString("\n\n")

	overview := fmt.Sprintf(
		"Attempts : %d\nFailures : %d\nSuccess  : %s\nElapsed  : %s",
		r.TotalAttempts,
		r.Failures,
		styles.ForRate(r.SuccessRate()).Render(fmt.Sprintf("%.2f%%", r.SuccessRate())),
		r.Elapsed.Round(time.Millisecond),
	)
	latency := fmt.Sprintf(
		"P50 : %.2f ms\nP90 : %.2f ms\nP99 : %.2f ms\nMax : %.2f ms",
		r.P50LatencyMs, r.P90LatencyMs, r.P99LatencyMs, r.MaxLatencyMs,
	)
	mix := fmt.Sprintf(
		"create : %d\nread   : %d\ndelete : %d",
		r.OpAttempts[workload.Create.String()],
		r.OpAttempts[workload.Read.String()],
		r.OpAttempts[workload.Delete.String()],
	)

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Box.Render(styles.Active.Render("Overview")+"\n"+overview),
		styles.Box.Render(styles.Active.Render("Latency [success only]")+"\n"+latency),
		styles.Box.Render(styles.Active.Render("Operations")+"\n"+mix),
	))
	s.WriteString("\n")

	if r.RunID != "" {
		s.WriteString(styles.Subtle.Render("run " + r.RunID))
		s.WriteString("\n")
	}
	return s.String()
}
