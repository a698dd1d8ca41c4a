// Copyright (c) 2017 The Kegbot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"bytes"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/kegbot/kegbot.go/pkg/logging"
)

// Config holds the process configuration flags recognized by every kegbot
// application. Defaults come from the environment (KEGBOT_* variables, plus
// the historical VERBOSE toggle); command line flags override them.
type Config struct {
	// Daemon runs the application in the background, detached from the
	// controlling terminal.
	Daemon bool `env:"KEGBOT_DAEMON"`
	// PIDFile, when non-empty, records the application's process id there.
	PIDFile string `env:"KEGBOT_PIDFILE"`
	// LogFormat is the console output format: "console" or "json".
	LogFormat string `env:"KEGBOT_LOGFORMAT" envDefault:"console"`
	// LogFile receives log messages when LogToFile is set.
	// Empty defaults to "<name>.log".
	LogFile   string `env:"KEGBOT_LOGFILE"`
	LogToFile bool   `env:"KEGBOT_LOG_TO_FILE"`
	// RotateLogs swaps the static log file for a rotating one.
	RotateLogs bool `env:"KEGBOT_ROTATE_LOGS" envDefault:"true"`
	// MaximumLogFiles caps the number of rotated log files kept around.
	MaximumLogFiles int  `env:"KEGBOT_MAXIMUM_LOG_FILES" envDefault:"7"`
	LogToStdout     bool `env:"KEGBOT_LOG_TO_STDOUT" envDefault:"true"`
	// Verbose enables debug logging.
	Verbose bool `env:"VERBOSE"`
	// MetricsAddr, when non-empty, serves Prometheus metrics over HTTP at
	// this host:port while the application is running.
	MetricsAddr string `env:"KEGBOT_METRICS_ADDR"`
}

// DefaultConfig builds a Config from environment defaults.
func DefaultConfig(name string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, &ConfigError{Err: err}
	}
	if cfg.LogFile == "" {
		cfg.LogFile = name + ".log"
	}
	return cfg, nil
}

// Validate checks flag values that flag parsing alone cannot reject.
func (c *Config) Validate() error {
	if c.MaximumLogFiles < 0 {
		return &ConfigError{Err: fmt.Errorf("maximum_log_files must be >= 0, got %d", c.MaximumLogFiles)}
	}
	switch c.LogFormat {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return &ConfigError{Err: fmt.Errorf("logformat must be %q or %q, got %q",
			logging.FormatConsole, logging.FormatJSON, c.LogFormat)}
	}
	return nil
}

// ParseFlags parses process arguments into a Config, starting from the
// environment defaults. The remaining non-flag arguments are returned.
// Failures are reported as a *ConfigError carrying the usage text.
func ParseFlags(name string, args []string) (*Config, []string, error) {
	cfg, err := DefaultConfig(name)
	if err != nil {
		return nil, nil, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var usage bytes.Buffer
	fs.SetOutput(&usage)

	fs.BoolVar(&cfg.Daemon, "daemon", cfg.Daemon, "Run application in daemon mode")
	fs.StringVar(&cfg.PIDFile, "pidfile", cfg.PIDFile, "If specified, logs the application's process id to this file")
	fs.StringVar(&cfg.LogFormat, "logformat", cfg.LogFormat, "Log output format: console or json")
	fs.StringVar(&cfg.LogFile, "logfile", cfg.LogFile, "Default log file for log messages")
	fs.BoolVar(&cfg.LogToFile, "log_to_file", cfg.LogToFile, "Send log messages to the log file defined by -logfile")
	fs.BoolVar(&cfg.RotateLogs, "rotate_logs", cfg.RotateLogs, "If enabled, logs will be rotated")
	fs.IntVar(&cfg.MaximumLogFiles, "maximum_log_files", cfg.MaximumLogFiles, "Sets the maximum number of log files to keep around")
	fs.BoolVar(&cfg.LogToStdout, "log_to_stdout", cfg.LogToStdout, "Send log messages to the console")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Generate extra logging information")
	fs.StringVar(&cfg.MetricsAddr, "metrics_addr", cfg.MetricsAddr, "If specified, serves Prometheus metrics at this host:port")

	if err := fs.Parse(args); err != nil {
		return nil, nil, &ConfigError{Err: err, Usage: usage.String()}
	}
	if err := cfg.Validate(); err != nil {
		fs.PrintDefaults()
		cfgErr := err.(*ConfigError)
		cfgErr.Usage = usage.String()
		return nil, nil, cfgErr
	}
	return cfg, fs.Args(), nil
}
