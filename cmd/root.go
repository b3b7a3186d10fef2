package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"kvload/internal/banner"
	"kvload/internal/cli"
	"kvload/internal/logger"
	"kvload/internal/runner"
	"kvload/internal/storage"
	tuiconfig "kvload/internal/tui/config"
	"kvload/internal/workload"
)

// app carries what every subcommand shares after flag parsing.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "kvload [threads duration workload host [port]]",
		Short: "kvload - closed-loop load generator for key/value HTTP services",
		Long: `
kvload drives a key/value HTTP service (POST /create, GET /read, DELETE /delete)
with a fixed pool of workers for a fixed duration and reports throughput and
latency.

Workloads: putall | getall | popular (getpopular) | mixed

The positional form matches the classic tool:
  kvload 8 30 mixed localhost 8080`,
		Args:          positionalArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cfgFile); err != nil {
				return err
			}
			l, err := logger.New(a.v.GetString("log-level"), a.v.GetBool("dev-log"))
			if err != nil {
				return err
			}
			a.logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.logger.Sync()
		},
		RunE: a.runLoad,
	}

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), banner.GetString())
		cmd.Usage()
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kvload.yaml)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.Bool("dev-log", false, "human-readable console logs")
	pf.String("history-db", "", "run history database (default is $HOME/.kvload/history.db)")

	f := rootCmd.Flags()
	f.IntP("threads", "t", 1, "number of workers")
	f.StringP("duration", "d", "10s", "run duration (plain integers are seconds)")
	f.StringP("workload", "w", "getall", "putall | getall | popular | mixed")
	f.String("host", "localhost", "target host")
	f.IntP("port", "p", 8080, "target port")
	f.Int("key-space", workload.DefaultKeySpace, "keys are drawn from <prefix>1..<prefix>N")
	f.String("key-prefix", workload.DefaultKeyPrefix, "key name prefix")
	f.Int("value-len", workload.DefaultValueLen, "length of generated values")
	f.StringSlice("hot-keys", nil, "explicit hot key set for the popular workload")
	f.Int("hot-set-size", workload.DefaultHotSetSize, "hot set is <prefix>1..<prefix>N when --hot-keys is not given")
	f.String("timeout", "0", "per-request timeout, 0 for none")
	f.Float64("rate", 0, "max requests/sec per worker, 0 for unpaced")
	f.Uint64("seed", 0, "base RNG seed, 0 for time-derived")
	f.Bool("tui", false, "show the interactive progress view")
	f.Bool("edit", false, "review the run settings in a form before starting")
	f.StringP("out", "o", "", "export report to file (.json, .yaml or .csv)")
	f.Bool("no-history", false, "do not record this run in the history database")

	a.v.BindPFlags(pf)
	a.v.BindPFlags(f)

	rootCmd.AddCommand(newDummyCmd(a), newHistoryCmd(a))
	return rootCmd
}

func positionalArgs(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0, 4, 5:
		return nil
	}
	return fmt.Errorf("expected <threads> <duration> <workload> <host> [port], got %d args", len(args))
}

func (a *app) initConfig(cfgFile string) error {
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(home)
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".kvload")
	}
	a.v.SetEnvPrefix("KVLOAD")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func (a *app) historyPath() (string, error) {
	if p := a.v.GetString("history-db"); p != "" {
		return p, nil
	}
	return storage.DefaultPath()
}

func (a *app) runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(a.v, args)
	if err != nil {
		return err
	}
	if a.v.GetBool("edit") {
		if cfg, err = tuiconfig.Edit(cfg, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	opts := cli.Options{
		TUI:     a.v.GetBool("tui"),
		OutFile: a.v.GetString("out"),
	}
	if !opts.TUI {
		opts.Progress = cmd.ErrOrStderr()
	}
	if !a.v.GetBool("no-history") {
		if p, err := a.historyPath(); err == nil {
			opts.HistoryPath = p
		} else {
			a.logger.Warn("history disabled", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = cli.Start(ctx, cfg, opts, cmd.OutOrStdout(), a.logger)
	return err
}

// buildConfig merges flags, config file and env (through v) with the
// optional positional form. Positional values win.
func buildConfig(v *viper.Viper, args []string) (runner.Config, error) {
	cfg := runner.DefaultConfig()

	threads := v.GetString("threads")
	duration := v.GetString("duration")
	kind := v.GetString("workload")
	cfg.Host = v.GetString("host")
	port := v.GetString("port")

	if len(args) >= 4 {
		threads, duration, kind, cfg.Host = args[0], args[1], args[2], args[3]
	}
	if len(args) == 5 {
		port = args[4]
	}

	var err error
	if cfg.Threads, err = strconv.Atoi(threads); err != nil {
		return cfg, fmt.Errorf("%w: threads %q is not an integer", runner.ErrInvalidConfig, threads)
	}
	if cfg.Duration, err = runner.ParseDuration(duration); err != nil {
		return cfg, fmt.Errorf("%w: duration: %v", runner.ErrInvalidConfig, err)
	}
	if cfg.Workload, err = workload.ParseKind(kind); err != nil {
		return cfg, fmt.Errorf("%w: %w", runner.ErrInvalidConfig, err)
	}
	if cfg.Port, err = strconv.Atoi(port); err != nil {
		return cfg, fmt.Errorf("%w: port %q is not an integer", runner.ErrInvalidConfig, port)
	}
	if cfg.Timeout, err = runner.ParseDuration(v.GetString("timeout")); err != nil {
		return cfg, fmt.Errorf("%w: timeout: %v", runner.ErrInvalidConfig, err)
	}

	cfg.KeySpace = v.GetInt("key-space")
	cfg.KeyPrefix = v.GetString("key-prefix")
	cfg.ValueLen = v.GetInt("value-len")
	cfg.RatePerWorker = v.GetFloat64("rate")
	cfg.Seed = v.GetUint64("seed")

	cfg.HotKeys = splitList(v.GetStringSlice("hot-keys"))
	if len(cfg.HotKeys) == 0 {
		cfg.HotKeys = workload.HotKeys(cfg.KeyPrefix, v.GetInt("hot-set-size"))
	}

	return cfg, cfg.Validate()
}

// splitList flattens comma-separated entries. Viper splits env values on
// whitespace only, so KVLOAD_HOT_KEYS=a,b arrives as one element.
func splitList(in []string) []string {
	var out []string
	for _, e := range in {
		for _, part := range strings.Split(e, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
