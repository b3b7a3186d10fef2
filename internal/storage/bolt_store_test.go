package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvload/internal/runner"
	"kvload/internal/stats"
	"kvload/internal/workload"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func item(id string, at time.Time, total uint64) HistoryItem {
	cfg := runner.DefaultConfig()
	cfg.Workload = workload.Mixed
	r := &stats.Report{RunID: id, TotalRequests: total, HasData: total > 0}
	return NewHistoryItem(cfg, r, at)
}

func TestStore_SaveGet(t *testing.T) {
	s := openTemp(t)
	now := time.Now()

	require.NoError(t, s.Save(item("a", now, 10)))

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, uint64(10), got.Report.TotalRequests)
	assert.Equal(t, workload.Mixed, got.Config.Workload)
	assert.True(t, got.Timestamp.Equal(now))
}

func TestStore_GetMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := openTemp(t)
	base := time.Now()

	require.NoError(t, s.Save(item("old", base, 1)))
	require.NoError(t, s.Save(item("new", base.Add(time.Minute), 2)))
	require.NoError(t, s.Save(item("mid", base.Add(time.Second), 3)))

	items, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{items[0].ID, items[1].ID, items[2].ID})

	items, err = s.List(2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestStore_RejectsEmptyID(t *testing.T) {
	s := openTemp(t)
	assert.Error(t, s.Save(item("", time.Now(), 0)))
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(item("persisted", time.Now(), 5)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get("persisted")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.Report.TotalRequests)
}

func TestStore_SaveSameIDReplaces(t *testing.T) {
	s := openTemp(t)
	base := time.Now()

	require.NoError(t, s.Save(item("a", base, 1)))
	require.NoError(t, s.Save(item("a", base.Add(time.Minute), 7)))

	items, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint64(7), items[0].Report.TotalRequests)

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.Report.TotalRequests)
}
