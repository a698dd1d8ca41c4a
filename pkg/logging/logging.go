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

// Package logging configures zerolog sinks for kegbot applications.
//
// Sinks are installed from an explicit Config and uninstalled when the
// owning application tears down - there is no process-global handler
// registry to mutate.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logger fields
const (
	APP    = "app"
	WORKER = "worker"
	FUNC   = "func"
	STATE  = "state"
	SIGNAL = "signal"
	PID    = "pid"
	NAME   = "name"
)

// log output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// Config describes the log sinks to install.
type Config struct {
	// Format is FormatConsole or FormatJSON, applied to the stdout sink.
	// File sinks always receive JSON.
	Format string
	// Verbose lowers the level from Info to Debug.
	Verbose bool
	// ToStdout enables the console sink.
	ToStdout bool
	// ToFile enables the file sink writing to File.
	ToFile bool
	File   string
	// Rotate swaps the static file sink for a rotating one keeping at most
	// MaxFiles old log files around.
	Rotate   bool
	MaxFiles int
}

// Sinks holds the installed log writers. Use Config.Install to create Sinks
// instances.
type Sinks struct {
	logger  zerolog.Logger
	closers []io.Closer
}

// Install opens the configured sinks and returns the root logger over them.
// With no sink enabled the returned logger discards everything.
func (c Config) Install() (*Sinks, error) {
	level := zerolog.InfoLevel
	if c.Verbose {
		level = zerolog.DebugLevel
	}

	var writers []io.Writer
	var closers []io.Closer

	if c.ToStdout {
		if c.Format == FormatJSON {
			writers = append(writers, os.Stdout)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
		}
	}

	if c.ToFile {
		if c.Rotate {
			rotating := &lumberjack.Logger{
				Filename:   c.File,
				MaxBackups: c.MaxFiles,
				MaxSize:    100, // MB
			}
			writers = append(writers, rotating)
			closers = append(closers, rotating)
		} else {
			f, err := os.OpenFile(c.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return nil, errors.Wrapf(err, "logging: cannot open log file %q", c.File)
			}
			writers = append(writers, f)
			closers = append(closers, f)
		}
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	return &Sinks{
		logger:  zerolog.New(out).With().Timestamp().Logger().Level(level),
		closers: closers,
	}, nil
}

// Logger returns the root logger writing to the installed sinks.
func (s *Sinks) Logger() zerolog.Logger { return s.logger }

// Uninstall closes the file sinks. The logger keeps working but drops
// everything afterwards.
func (s *Sinks) Uninstall() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	s.logger = zerolog.Nop()
	return firstErr
}

// LogStack logs err at error level together with its call stack.
// If err does not already carry a stack trace, one is captured here.
func LogStack(logger zerolog.Logger, err error, msg string) {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	if _, ok := err.(stackTracer); !ok {
		err = errors.WithStack(err)
	}
	logger.Error().Stack().Err(err).Msg(msg)
}
