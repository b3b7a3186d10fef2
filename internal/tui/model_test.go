package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvload/internal/runner"
	"kvload/internal/stats"
	"kvload/internal/workload"
)

type okExecutor struct{}

func (okExecutor) Execute(context.Context, workload.Request) runner.Outcome {
	time.Sleep(time.Millisecond)
	return runner.Outcome{Succeeded: true, Latency: time.Millisecond, Status: 200}
}

func newTestRunner(d time.Duration) *runner.Runner {
	cfg := runner.DefaultConfig()
	cfg.Threads = 2
	cfg.Duration = d
	return runner.NewRunner(cfg, runner.WithExecutorFactory(func(int) runner.Executor {
		return okExecutor{}
	}))
}

func TestModel_RunCmdProducesReport(t *testing.T) {
	m := NewModel(context.Background(), newTestRunner(50*time.Millisecond))

	msg := m.runCmd()()
	done, ok := msg.(doneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.True(t, done.report.HasData)

	next, cmd := m.Update(done)
	require.NotNil(t, cmd)
	_, quit := cmd().(tea.QuitMsg)
	assert.True(t, quit)

	fm := next.(Model)
	assert.Same(t, done.report, fm.Report)
	assert.Empty(t, fm.View())
}

func TestModel_QuitKeyCancelsRun(t *testing.T) {
	m := NewModel(context.Background(), newTestRunner(time.Minute))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	fm := next.(Model)
	assert.True(t, fm.stopping)
	assert.Error(t, fm.ctx.Err())
	assert.Contains(t, fm.View(), "Stopping")

	// A cancelled context still yields a report once workers return.
	start := time.Now()
	done := fm.runCmd()().(doneMsg)
	assert.Less(t, time.Since(start), 5*time.Second)
	require.NoError(t, done.err)
	assert.NotNil(t, done.report)
}

func TestModel_Percent(t *testing.T) {
	m := NewModel(context.Background(), newTestRunner(time.Second))
	m.StartTime = time.Now().Add(-500 * time.Millisecond)
	assert.InDelta(t, 0.5, m.percent(), 0.1)

	m.StartTime = time.Now().Add(-time.Hour)
	assert.Equal(t, 1.0, m.percent())
}

func TestModel_ViewWhileRunning(t *testing.T) {
	m := NewModel(context.Background(), newTestRunner(time.Minute))
	out := m.View()
	assert.Contains(t, out, "getall")
	assert.Contains(t, out, "Threads: 2")
	assert.Contains(t, out, "Press q")

	m.Report = &stats.Report{}
	assert.Empty(t, m.View())
}
