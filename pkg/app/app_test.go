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

package app_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kegbot/kegbot.go/pkg/app"
	"github.com/kegbot/kegbot.go/pkg/worker"
)

// quietConfig returns a Config that exercises the app lifecycle without
// logging anywhere or touching the filesystem.
func quietConfig() *app.Config {
	return &app.Config{
		LogFormat:   "console",
		LogToStdout: false,
		LogToFile:   false,
	}
}

func waitForState(t *testing.T, l app.StateChangeListener, want app.State) {
	t.Helper()
	for {
		select {
		case got, ok := <-l:
			if !ok {
				t.Fatalf("listener closed while waiting for %v", want)
			}
			if got == want {
				return
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %v", want)
		}
	}
}

func TestApp_Lifecycle(t *testing.T) {
	cfg := quietConfig()
	cfg.PIDFile = filepath.Join(t.TempDir(), "app.pid")

	a, err := app.New("lifecycle-test", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if state := a.State(); state != app.Created {
		t.Errorf("new app should be Created : %v", state)
	}

	stopped := make(chan struct{})
	runWorker := func(ctx *worker.Context) error {
		<-ctx.Dying()
		return nil
	}
	w1 := worker.New("first", runWorker)
	w2 := worker.New("second", func(ctx *worker.Context) error {
		defer close(stopped)
		for !ctx.Quitting() {
			time.Sleep(10 * time.Millisecond)
		}
		return nil
	})
	if err := a.AddWorker(w1); err != nil {
		t.Fatal(err)
	}
	if err := a.AddWorker(w2); err != nil {
		t.Fatal(err)
	}

	l := a.NewStateChangeListener()
	if err := a.Setup(); err != nil {
		t.Fatal(err)
	}

	runDone := make(chan error, 1)
	go func() { runDone <- a.Run() }()
	waitForState(t, l, app.Running)

	// the pidfile records this process's id while the app is running
	data, err := os.ReadFile(cfg.PIDFile)
	if err != nil {
		t.Fatal(err)
	}
	if pid := strings.TrimSpace(string(data)); pid != strconv.Itoa(os.Getpid()) {
		t.Errorf("pidfile should contain %d : %q", os.Getpid(), pid)
	}

	a.Quit()
	select {
	case err := <-runDone:
		if err != nil {
			t.Errorf("Run failed : %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}

	if w1.Alive() || w2.Alive() {
		t.Error("workers should be stopped after Quit")
	}
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Error("polling worker never observed the quit request")
	}
	if state := a.State(); state != app.TornDown {
		t.Errorf("app should be TornDown after Run returns : %v", state)
	}
	if _, err := os.Stat(cfg.PIDFile); !os.IsNotExist(err) {
		t.Errorf("pidfile should be removed on teardown : %v", err)
	}
}

func TestApp_QuitIsIdempotent(t *testing.T) {
	a, err := app.New("quit-test", quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Setup(); err != nil {
		t.Fatal(err)
	}
	runDone := make(chan error, 1)
	l := a.NewStateChangeListener()
	go func() { runDone <- a.Run() }()
	waitForState(t, l, app.Running)

	a.Quit()
	a.Quit()
	select {
	case <-runDone:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
}

func TestApp_AddWorkerWhileRunning(t *testing.T) {
	a, err := app.New("addworker-test", quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Setup(); err != nil {
		t.Fatal(err)
	}
	runDone := make(chan error, 1)
	l := a.NewStateChangeListener()
	go func() { runDone <- a.Run() }()
	waitForState(t, l, app.Running)
	defer func() {
		a.Quit()
		<-runDone
	}()

	err = a.AddWorker(worker.New("late", func(ctx *worker.Context) error { return nil }))
	if err == nil {
		t.Fatal("adding a worker to a running app should fail")
	}
	if _, ok := err.(*app.IllegalStateError); !ok {
		t.Errorf("expected *IllegalStateError : %T", err)
	}
}

func TestApp_PIDFileConflict(t *testing.T) {
	cfg := quietConfig()
	cfg.PIDFile = filepath.Join(t.TempDir(), "app.pid")
	// a pidfile owned by a live process blocks startup
	if err := os.WriteFile(cfg.PIDFile, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := app.New("pid-conflict-test", cfg)
	if err != nil {
		t.Fatal(err)
	}
	err = a.Setup()
	if err == nil {
		t.Fatal("Setup should fail when the pidfile points at a live process")
	}
	if _, ok := err.(*app.PIDFileConflictError); !ok {
		t.Errorf("expected *PIDFileConflictError : %T", err)
	}
}

func TestApp_StalePIDFile(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	stalePID := cmd.Process.Pid
	if app.PIDIsAlive(stalePID) {
		t.Skipf("pid %d was reused, cannot test stale pidfile handling", stalePID)
	}

	cfg := quietConfig()
	cfg.PIDFile = filepath.Join(t.TempDir(), "app.pid")
	if err := os.WriteFile(cfg.PIDFile, []byte(strconv.Itoa(stalePID)+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := app.New("stale-pid-test", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Setup(); err != nil {
		t.Fatalf("Setup should replace a stale pidfile : %v", err)
	}
	defer a.Quit()

	data, err := os.ReadFile(cfg.PIDFile)
	if err != nil {
		t.Fatal(err)
	}
	if pid := strings.TrimSpace(string(data)); pid != strconv.Itoa(os.Getpid()) {
		t.Errorf("stale pidfile should be replaced with %d : %q", os.Getpid(), pid)
	}
}

func TestPIDIsAlive(t *testing.T) {
	if !app.PIDIsAlive(os.Getpid()) {
		t.Error("the current process should be alive")
	}
}

func TestParseFlags(t *testing.T) {
	cfg, args, err := app.ParseFlags("flags-test", []string{
		"--daemon",
		"--pidfile", "/tmp/flags-test.pid",
		"--logformat", "json",
		"--verbose",
		"--maximum_log_files", "3",
		"extra",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Daemon || cfg.PIDFile != "/tmp/flags-test.pid" || cfg.LogFormat != "json" ||
		!cfg.Verbose || cfg.MaximumLogFiles != 3 {
		t.Errorf("flags were not applied : %+v", cfg)
	}
	if len(args) != 1 || args[0] != "extra" {
		t.Errorf("positional args should be returned : %v", args)
	}
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, _, err := app.ParseFlags("flags-test", []string{"--no_such_flag"})
	if err == nil {
		t.Fatal("unknown flags should be rejected")
	}
	cfgErr, ok := err.(*app.ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError : %T", err)
	}
	if cfgErr.Usage == "" {
		t.Error("ConfigError should carry the usage text")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := quietConfig()
	cfg.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("unsupported log formats should be rejected")
	}

	cfg = quietConfig()
	cfg.MaximumLogFiles = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative log file limits should be rejected")
	}
}
