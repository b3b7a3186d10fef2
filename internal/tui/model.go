package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"kvload/internal/runner"
	"kvload/internal/stats"
	"kvload/internal/tui/styles"
)

const (
	tickInterval = 200 * time.Millisecond
)

type tickMsg time.Time

type doneMsg struct {
	report *stats.Report
	err    error
}

// Model shows run progress. It only knows the configured duration and the
// wall clock; worker counters stay private until the run finishes.
type Model struct {
	Runner    *runner.Runner
	Progress  progress.Model
	StartTime time.Time
	Duration  time.Duration

	Report *stats.Report
	Err    error

	ctx      context.Context
	cancel   context.CancelFunc
	stopping bool
	Width    int
}

func NewModel(ctx context.Context, r *runner.Runner) Model {
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		Runner:    r,
		Progress:  progress.New(progress.WithGradient("#7D56F4", "#04B575")),
		StartTime: time.Now(),
		Duration:  r.Cfg.Duration,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.runCmd(), tickCmd())
}

func (m Model) runCmd() tea.Cmd {
	return func() tea.Msg {
		rep, err := m.Runner.Run(m.ctx)
		return doneMsg{report: rep, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Progress.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			// Workers finish their in-flight request; doneMsg follows.
			m.stopping = true
			m.cancel()
		}
		return m, nil

	case tickMsg:
		if m.Report != nil || m.Err != nil {
			return m, nil
		}
		return m, tea.Batch(m.Progress.SetPercent(m.percent()), tickCmd())

	case doneMsg:
		m.Report = msg.report
		m.Err = msg.err
		m.cancel()
		return m, tea.Quit

	case progress.FrameMsg:
		progressModel, cmd := m.Progress.Update(msg)
		m.Progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) percent() float64 {
	if m.Duration <= 0 {
		return 1
	}
	pct := float64(time.Since(m.StartTime)) / float64(m.Duration)
	if pct > 1.0 {
		pct = 1.0
	}
	return pct
}

func (m Model) View() string {
	if m.Report != nil || m.Err != nil {
		return ""
	}

	s := strings.Builder{}
	cfg := m.Runner.Cfg
	s.WriteString(styles.Title.Render("kvload"))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Workload: %s | Threads: %d | Target: %s\n", cfg.Workload, cfg.Threads, cfg.BaseURL()))
	s.WriteString(styles.Subtle.Render(fmt.Sprintf("Duration: %s (Elapsed: %s)",
		m.Duration, time.Since(m.StartTime).Round(time.Second))))
	s.WriteString("\n\n")
	s.WriteString(m.Progress.View())
	s.WriteString("\n")
	if m.stopping {
		s.WriteString(styles.Warn.Render("Stopping, waiting for in-flight requests..."))
	} else if m.percent() >= 1.0 {
		s.WriteString(styles.Subtle.Render("Draining in-flight requests..."))
	} else {
		s.WriteString(styles.Subtle.Render("Press q to stop early"))
	}
	s.WriteString("\n")
	return s.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run drives r under a progress view written to out and returns the
// finished report.
func Run(ctx context.Context, r *runner.Runner, out io.Writer) (*stats.Report, error) {
	p := tea.NewProgram(NewModel(ctx, r), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	m := final.(Model)
	return m.Report, m.Err
}
