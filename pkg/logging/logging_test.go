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

package logging_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kegbot/kegbot.go/pkg/logging"
)

func TestInstall_FileSink(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	sinks, err := logging.Config{ToFile: true, File: logFile}.Install()
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	logger := sinks.Logger()
	logger.Info().Str(logging.APP, "test").Msg("hello")
	if err := sinks.Uninstall(); err != nil {
		t.Fatalf("Uninstall failed: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("cannot read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file should contain the message, got: %s", data)
	}
}

func TestInstall_VerboseEnablesDebug(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	sinks, err := logging.Config{ToFile: true, File: logFile, Verbose: true}.Install()
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	logger := sinks.Logger()
	logger.Debug().Msg("debug message")
	sinks.Uninstall()

	data, _ := os.ReadFile(logFile)
	if !strings.Contains(string(data), "debug message") {
		t.Error("verbose config should let debug messages through")
	}
}

func TestInstall_NoSinksDiscards(t *testing.T) {
	sinks, err := logging.Config{}.Install()
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	// must not panic or write anywhere
	logger := sinks.Logger()
	logger.Info().Msg("dropped")
	sinks.Uninstall()
}

func TestLogStack(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	sinks, err := logging.Config{ToFile: true, File: logFile}.Install()
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	logging.LogStack(sinks.Logger(), errors.New("boom"), "uncaught failure")
	sinks.Uninstall()

	data, _ := os.ReadFile(logFile)
	out := string(data)
	if !strings.Contains(out, "boom") {
		t.Errorf("log should contain the error, got: %s", out)
	}
	if !strings.Contains(out, "stack") {
		t.Errorf("log should contain a stack trace, got: %s", out)
	}
}
