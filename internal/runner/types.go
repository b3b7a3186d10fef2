package runner

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"kvload/internal/workload"
)

var ErrInvalidConfig = errors.New("invalid run config")

// Config is built once before the run and only read afterwards; every
// worker shares the same value.
type Config struct {
	Threads  int           `json:"threads" yaml:"threads"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Workload workload.Kind `json:"workload" yaml:"workload"`
	Host     string        `json:"host" yaml:"host"`
	Port     int           `json:"port" yaml:"port"`

	KeySpace  int      `json:"key_space" yaml:"key_space"`
	KeyPrefix string   `json:"key_prefix" yaml:"key_prefix"`
	ValueLen  int      `json:"value_len" yaml:"value_len"`
	HotKeys   []string `json:"hot_keys" yaml:"hot_keys"`

	// Zero values disable the per-request bound, pacing, and fixed seeding.
	Timeout       time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	RatePerWorker float64       `json:"rate_per_worker,omitempty" yaml:"rate_per_worker,omitempty"`
	Seed          uint64        `json:"seed,omitempty" yaml:"seed,omitempty"`
}

func DefaultConfig() Config {
	gen := workload.DefaultGenerator()
	return Config{
		Threads:   1,
		Duration:  10 * time.Second,
		Workload:  workload.GetAll,
		Host:      "localhost",
		Port:      8080,
		KeySpace:  gen.KeySpace,
		KeyPrefix: gen.KeyPrefix,
		ValueLen:  gen.ValueLen,
		HotKeys:   gen.HotKeys,
	}
}

func (c Config) Validate() error {
	if c.Threads <= 0 {
		return fmt.Errorf("%w: threads must be positive, got %d", ErrInvalidConfig, c.Threads)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidConfig, c.Duration)
	}
	if c.Workload < workload.PutAll || c.Workload > workload.Mixed {
		return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, workload.ErrUnknownWorkload, c.Workload)
	}
	if c.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port out of range: %d", ErrInvalidConfig, c.Port)
	}
	if c.KeySpace < 1 {
		return fmt.Errorf("%w: key space must be at least 1", ErrInvalidConfig)
	}
	if c.ValueLen < 1 {
		return fmt.Errorf("%w: value length must be at least 1", ErrInvalidConfig)
	}
	if c.Workload == workload.PopularGet && len(c.HotKeys) == 0 {
		return fmt.Errorf("%w: popular workload needs at least one hot key", ErrInvalidConfig)
	}
	if c.Timeout < 0 || c.RatePerWorker < 0 {
		return fmt.Errorf("%w: timeout and rate must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ParseDuration accepts Go durations ("1m30s") and bare integers, which
// are read as seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func (c Config) BaseURL() string {
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) Generator() workload.Generator {
	return workload.Generator{
		KeySpace:  c.KeySpace,
		KeyPrefix: c.KeyPrefix,
		ValueLen:  c.ValueLen,
		HotKeys:   c.HotKeys,
	}
}

// Outcome is the result of one request attempt. Err is informational;
// a failed outcome is never returned as an error.
type Outcome struct {
	Succeeded bool
	Latency   time.Duration
	Status    int
	Err       error
}
