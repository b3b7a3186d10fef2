package cmd

import (
	"bytes"
	"net"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvload/internal/dummy"
	"kvload/internal/runner"
	"kvload/internal/storage"
	"kvload/internal/workload"
)

// flagViper returns a viper loaded with the root command's flag defaults.
func flagViper(t *testing.T, set map[string]string) *viper.Viper {
	t.Helper()
	root := NewRootCmd()
	for k, v := range set {
		require.NoError(t, root.Flags().Set(k, v))
	}
	v := viper.New()
	require.NoError(t, v.BindPFlags(root.Flags()))
	return v
}

func TestBuildConfig_Defaults(t *testing.T) {
	cfg, err := buildConfig(flagViper(t, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Threads)
	assert.Equal(t, 10*time.Second, cfg.Duration)
	assert.Equal(t, workload.GetAll, cfg.Workload)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, workload.DefaultKeySpace, cfg.KeySpace)
	assert.Equal(t, []string{"k1", "k2", "k3", "k4", "k5"}, cfg.HotKeys)
	assert.Zero(t, cfg.Timeout)
}

func TestBuildConfig_Positional(t *testing.T) {
	cfg, err := buildConfig(flagViper(t, nil), []string{"8", "30", "popular", "10.1.1.1", "9090"})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Threads)
	assert.Equal(t, 30*time.Second, cfg.Duration)
	assert.Equal(t, workload.PopularGet, cfg.Workload)
	assert.Equal(t, "10.1.1.1", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)

	cfg, err = buildConfig(flagViper(t, nil), []string{"2", "1500ms", "getpopular", "h"})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.Duration)
	assert.Equal(t, 8080, cfg.Port)
}

func TestBuildConfig_Flags(t *testing.T) {
	v := flagViper(t, map[string]string{
		"key-space":    "50000",
		"hot-set-size": "3",
		"key-prefix":   "user",
		"timeout":      "250ms",
		"rate":         "100",
		"seed":         "42",
	})
	cfg, err := buildConfig(v, nil)
	require.NoError(t, err)
	assert.Equal(t, 50000, cfg.KeySpace)
	assert.Equal(t, []string{"user1", "user2", "user3"}, cfg.HotKeys)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 100.0, cfg.RatePerWorker)
	assert.Equal(t, uint64(42), cfg.Seed)

	v = flagViper(t, map[string]string{"hot-keys": "alpha,beta"})
	cfg, err = buildConfig(v, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.HotKeys)
}

func TestBuildConfig_HotKeysFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KVLOAD_HOT_KEYS", "alpha, beta")

	a := &app{v: flagViper(t, nil)}
	require.NoError(t, a.initConfig(""))
	cfg, err := buildConfig(a.v, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.HotKeys)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", " c ", ""}))
	assert.Nil(t, splitList(nil))
}

func TestBuildConfig_Errors(t *testing.T) {
	cases := map[string][]string{
		"unknown workload": {"4", "10", "scan", "localhost"},
		"zero threads":     {"0", "10", "getall", "localhost"},
		"bad threads":      {"four", "10", "getall", "localhost"},
		"zero duration":    {"4", "0", "getall", "localhost"},
		"bad duration":     {"4", "soon", "getall", "localhost"},
		"bad port":         {"4", "10", "getall", "localhost", "http"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := buildConfig(flagViper(t, nil), args)
			assert.ErrorIs(t, err, runner.ErrInvalidConfig)
		})
	}
}

func TestRootCmd_WrongArgCount(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"4", "10"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	assert.Error(t, root.Execute())
}

func TestRootCmd_RunsAgainstStub(t *testing.T) {
	ts := httptest.NewServer(dummy.New(dummy.ServerConfig{}).Handler())
	defer ts.Close()
	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)

	dir := t.TempDir()
	historyDB := filepath.Join(dir, "history.db")
	cfgFile := filepath.Join(dir, "kvload.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("value-len: 4\nkey-space: 10\n"), 0644))

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"2", "300ms", "mixed", host, port,
		"--config", cfgFile,
		"--history-db", historyDB,
		"--out", filepath.Join(dir, "r.yaml"),
	})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Total Requests")

	store, err := storage.Open(historyDB)
	require.NoError(t, err)
	defer store.Close()
	items, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Config.KeySpace)
	assert.Equal(t, 4, items[0].Config.ValueLen)

	// history subcommands read the same database.
	out.Reset()
	hist := NewRootCmd()
	hist.SetOut(&out)
	hist.SetArgs([]string{"history", "--history-db", historyDB})
	require.NoError(t, hist.Execute())
	assert.Contains(t, out.String(), items[0].ID)

	out.Reset()
	show := NewRootCmd()
	show.SetOut(&out)
	show.SetArgs([]string{"history", "show", items[0].ID, "--history-db", historyDB})
	require.NoError(t, show.Execute())
	assert.Contains(t, out.String(), "LOAD TEST RESULTS")
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "--no-history"})
	assert.Error(t, root.Execute())
}
