// Package config reads the TOML settings for mmtfsum. Anything not in
// the file keeps its value from Default. Command line flags are
// applied afterwards by the caller.
package config

import (
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config is what the command needs to run a batch.
type Config struct {
	Workers     int    // decoders running at once
	Log         string // "", "stdout" or a file name
	LogLevel    logrus.Level
	MaxLogMB    int    // rotate log files at this size
	Metrics     string // write counters here at the end, if set
	StopOnError bool
}

// Default is used when there is no file, and for keys the file leaves out.
func Default() Config {
	return Config{
		Workers:  runtime.NumCPU(),
		LogLevel: logrus.InfoLevel,
		MaxLogMB: 10,
	}
}

type fileConfig struct {
	Workers     int    `toml:"workers"`
	Log         string `toml:"log"`
	LogLevel    string `toml:"log_level"`
	MaxLogMB    int    `toml:"max_log_mb"`
	Metrics     string `toml:"metrics"`
	StopOnError bool   `toml:"stop_on_error"`
}

// Load reads fname on top of the defaults. An empty name gives the
// defaults.
func Load(fname string) (Config, error) {
	cfg := Default()
	if fname == "" {
		return cfg, nil
	}
	var raw fileConfig
	meta, err := toml.DecodeFile(fname, &raw)
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return Config{}, errors.Errorf("load config: unknown key %q in %s", undec[0].String(), fname)
	}

	if meta.IsDefined("workers") {
		if raw.Workers < 1 {
			return Config{}, errors.Errorf("load config: workers must be at least 1, got %d", raw.Workers)
		}
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("log") {
		cfg.Log = strings.TrimSpace(raw.Log)
	}
	if meta.IsDefined("log_level") {
		lvl, err := logrus.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return Config{}, errors.Wrap(err, "parse log_level")
		}
		cfg.LogLevel = lvl
	}
	if meta.IsDefined("max_log_mb") {
		cfg.MaxLogMB = raw.MaxLogMB
	}
	if meta.IsDefined("metrics") {
		cfg.Metrics = strings.TrimSpace(raw.Metrics)
	}
	if meta.IsDefined("stop_on_error") {
		cfg.StopOnError = raw.StopOnError
	}
	return cfg, nil
}
