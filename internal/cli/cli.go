package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"kvload/internal/report"
	"kvload/internal/runner"
	"kvload/internal/stats"
	"kvload/internal/storage"
	"kvload/internal/tui"
)

type Options struct {
	// TUI swaps the plain progress line for the bubbletea view.
	TUI bool
	// Progress receives the plain progress line; nil disables it.
	Progress io.Writer

	OutFile     string
	HistoryPath string
}

// Start runs one load test with cfg, prints the report to out, and then
// exports and records it as requested. A config error aborts before any
// worker is started.
func Start(ctx context.Context, cfg runner.Config, opts Options, out io.Writer, logger *zap.Logger) (*stats.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fmt.Fprintln(out, report.Header(cfg))

	r := runner.NewRunner(cfg, runner.WithLogger(logger))

	var (
		rep *stats.Report
		err error
	)
	if opts.TUI {
		rep, err = tui.Run(ctx, r, out)
	} else {
		stop := func() {}
		if opts.Progress != nil {
			stop = startMonitor(cfg.Duration, opts.Progress)
		}
		rep, err = r.Run(ctx)
		stop()
	}
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, report.Render(rep))

	if opts.OutFile != "" {
		if err := report.Export(rep, opts.OutFile); err != nil {
			logger.Error("report export failed", zap.String("file", opts.OutFile), zap.Error(err))
		} else {
			fmt.Fprintf(out, "Report saved to %s\n", opts.OutFile)
		}
	}

	if opts.HistoryPath != "" {
		if err := saveHistory(opts.HistoryPath, cfg, rep); err != nil {
			logger.Warn("history not saved", zap.String("path", opts.HistoryPath), zap.Error(err))
		}
	}
	return rep, nil
}

func saveHistory(path string, cfg runner.Config, rep *stats.Report) error {
	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Save(storage.NewHistoryItem(cfg, rep, time.Now()))
}

// startMonitor runs monitor in the background. The returned stop func
// returns only after the progress line has been cleared.
func startMonitor(total time.Duration, w io.Writer) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		monitor(done, total, w)
	}()
	return func() {
		close(done)
		<-finished
	}
}

// monitor draws a wall-clock progress line until done is closed. It reads
// no worker state.
func monitor(done <-chan struct{}, total time.Duration, w io.Writer) {
	start := time.Now()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			fmt.Fprint(w, "\r"+strings.Repeat(" ", 60)+"\r")
			return
		case <-ticker.C:
			elapsed := time.Since(start)
			pct := elapsed.Seconds() / total.Seconds()
			if pct > 1.0 {
				fmt.Fprintf(w, "\r%s %3.0f%% | %s/%s | Draining in-flight requests...",
					progressBar(1.0, 20), 100.0, elapsed.Round(time.Second), total)
				continue
			}
			fmt.Fprintf(w, "\r%s %3.0f%% | %s/%s",
				progressBar(pct, 20), pct*100, elapsed.Round(time.Second), total)
		}
	}
}

func progressBar(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("-", width-filled) + "]"
}
