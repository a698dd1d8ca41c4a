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

// Package app provides common logic for a command line or daemon
// application: configuration flags, logging sinks, optional
// daemonization and pidfile management, a registry of owned workers,
// and a signal-driven shutdown path.
//
// Lifecycle: Created -> Setup -> Running -> Quitting -> TornDown.
// HUP, INT, QUIT, and TERM all trigger the Quitting transition, as does an
// explicit Quit call. Shutdown is cooperative: each worker is asked to stop
// and joined with a bounded timeout; a worker that ignores the request
// keeps running and is reported, not killed.
package app

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nuid"
	"github.com/rs/zerolog"

	"github.com/kegbot/kegbot.go/pkg/logging"
	"github.com/kegbot/kegbot.go/pkg/worker"
)

const (
	// mainLoopTick bounds how long the main wait loop sleeps per iteration,
	// which bounds shutdown latency regardless of the wait primitive.
	mainLoopTick = 1 * time.Second

	// workerJoinTimeout bounds how long Quit waits for each worker to exit.
	workerJoinTimeout = 2 * time.Second
)

// App is an application instance container.
// Use New to construct App instances; an App runs once and is not reusable.
type App struct {
	name       string
	instanceID string
	cfg        *Config
	state      *AppState
	metrics    *metrics

	mutex       sync.Mutex
	logger      zerolog.Logger
	sinks       *logging.Sinks
	workers     []*worker.Worker
	pidRecorded bool

	quit     chan struct{}
	quitOnce sync.Once
	sigs     chan os.Signal
}

// New creates an App in the Created state. A nil cfg loads the environment
// defaults.
func New(name string, cfg *Config) (*App, error) {
	if cfg == nil {
		var err error
		if cfg, err = DefaultConfig(name); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{
		name:       name,
		instanceID: nuid.Next(),
		cfg:        cfg,
		state:      NewAppState(),
		quit:       make(chan struct{}),
		logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Str(logging.APP, name).Logger(),
	}
	a.metrics = newMetrics(a)
	return a, nil
}

// Name returns the application name.
func (a *App) Name() string { return a.name }

// InstanceID returns the unique id assigned to this application instance.
func (a *App) InstanceID() string { return a.instanceID }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.cfg }

// State returns the current lifecycle state.
func (a *App) State() State {
	state, _ := a.state.State()
	return state
}

// NewStateChangeListener returns a channel to monitor lifecycle transitions.
func (a *App) NewStateChangeListener() StateChangeListener {
	return a.state.NewStateChangeListener()
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.logger
}

func (a *App) setLogger(logger zerolog.Logger) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.logger = logger
}

// AddWorker registers a worker to be owned by the app: it is started when
// the app enters Running and stopped when the app quits. Workers may only
// be added before Run.
func (a *App) AddWorker(w *worker.Worker) error {
	switch state := a.State(); state {
	case Created, Setup:
	default:
		return &IllegalStateError{State: state, Message: "workers can only be added before the app is running"}
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.workers = append(a.workers, w)
	a.metrics.workersRegistered.Set(float64(len(a.workers)))
	return nil
}

// Workers returns the registered workers.
func (a *App) Workers() []*worker.Worker {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return append([]*worker.Worker(nil), a.workers...)
}

// Setup transitions Created -> Setup: daemonizes when requested, installs
// the configured logging sinks, records the pidfile, and installs the
// signal handlers. Pidfile failures abort startup.
func (a *App) Setup() error {
	if _, err := a.state.SetState(Setup); err != nil {
		return err
	}

	if a.cfg.Daemon {
		if err := a.daemonize(); err != nil {
			return err
		}
	}

	sinks, err := logging.Config{
		Format:   a.cfg.LogFormat,
		Verbose:  a.cfg.Verbose,
		ToStdout: a.cfg.LogToStdout && !a.cfg.Daemon,
		ToFile:   a.cfg.LogToFile,
		File:     a.cfg.LogFile,
		Rotate:   a.cfg.RotateLogs,
		MaxFiles: a.cfg.MaximumLogFiles,
	}.Install()
	if err != nil {
		return err
	}
	a.mutex.Lock()
	a.sinks = sinks
	a.logger = sinks.Logger().With().
		Str(logging.APP, a.name).
		Str("instance", a.instanceID).
		Logger()
	a.mutex.Unlock()

	if a.cfg.PIDFile != "" {
		if err := a.checkAndRecordPID(); err != nil {
			return err
		}
	}

	a.sigs = make(chan os.Signal, 1)
	signal.Notify(a.sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	go a.watchSignals()

	return nil
}

// watchSignals maps every handled signal to a quit.
func (a *App) watchSignals() {
	select {
	case sig := <-a.sigs:
		logger := a.Logger()
		logger.Info().Str(logging.SIGNAL, sig.String()).Msg("got signal")
		a.Quit()
	case <-a.quit:
	}
}

// Run transitions Setup -> Running: starts every registered worker, then
// sleeps in bounded increments until a quit has been requested, then tears
// down (pidfile removal, terminal state). Run blocks until shutdown
// completes.
func (a *App) Run() error {
	if _, err := a.state.SetState(Running); err != nil {
		return err
	}

	if a.cfg.MetricsAddr != "" {
		reporter := a.metricsReporter(a.cfg.MetricsAddr)
		a.mutex.Lock()
		a.workers = append(a.workers, reporter)
		a.metrics.workersRegistered.Set(float64(len(a.workers)))
		a.mutex.Unlock()
	}

	a.startWorkers()

	logger := a.Logger()
	logger.Info().Str(logging.FUNC, "Run").Msg("running generic main loop")
	startedOn := time.Now()
	ticker := time.NewTicker(mainLoopTick)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-a.quit:
			break loop
		case <-ticker.C:
			a.metrics.uptime.Set(time.Since(startedOn).Seconds())
		}
	}
	logger.Info().Str(logging.FUNC, "Run").Msg("exiting main loop")

	a.teardown()
	return nil
}

func (a *App) startWorkers() {
	workers := a.Workers()
	if len(workers) == 0 {
		return
	}
	logger := a.Logger()
	logger.Info().Msg("starting all workers")
	for _, w := range workers {
		w.SetLogger(logger)
		logger.Info().Str(logging.WORKER, w.Name()).Msg("starting worker")
		if err := w.Start(); err != nil {
			logger.Error().Err(err).Str(logging.WORKER, w.Name()).Msg("cannot start worker")
		}
	}
	logger.Info().Msg("all workers started")
}

func (a *App) stopWorkers() {
	workers := a.Workers()
	if len(workers) == 0 {
		return
	}
	logger := a.Logger()
	logger.Info().Msg("stopping all workers")
	for _, w := range workers {
		if w.Alive() {
			logger.Info().Str(logging.WORKER, w.Name()).Msg("stopping worker")
			w.Quit()
		}
	}
	for _, w := range workers {
		if !w.Wait(workerJoinTimeout) {
			logger.Warn().Str(logging.WORKER, w.Name()).Msg("worker ignored quit request")
		}
	}
	logger.Info().Msg("all workers stopped")
}

// Quit triggers the Quitting transition: every registered worker is asked
// to stop and joined with a bounded timeout, logging sinks are torn down,
// and the main wait loop is woken. Quit is idempotent and safe to call
// from any goroutine, including signal handling.
func (a *App) Quit() {
	a.quitOnce.Do(func() {
		a.state.SetState(Quitting)
		logger := a.Logger()
		logger.Info().Str(logging.STATE, Quitting.String()).Msg("quitting")
		a.stopWorkers()

		a.mutex.Lock()
		sinks := a.sinks
		a.sinks = nil
		a.logger = zerolog.Nop()
		a.mutex.Unlock()
		if sinks != nil {
			sinks.Uninstall()
		}

		close(a.quit)
	})
}

// teardown cleans up after the main loop exits.
func (a *App) teardown() {
	if a.cfg.PIDFile != "" {
		a.removePID()
	}
	if a.sigs != nil {
		signal.Stop(a.sigs)
	}
	a.state.SetState(TornDown)
}

// Main is a convenience runner: parse os.Args, build the app, Setup, and
// Run. A flag parsing failure prints a usage message and exits 1; any other
// startup failure is logged with its stack to stderr and exits 1.
func Main(name string, register func(a *App) error) {
	cfg, _, err := ParseFlags(name, os.Args[1:])
	if err != nil {
		if cfgErr, ok := err.(*ConfigError); ok {
			fmt.Fprintf(os.Stderr, "Usage: %s ARGS\n%s\nError: %v\n", os.Args[0], cfgErr.Usage, cfgErr.Err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	fatal := func(err error, msg string) {
		logger := zerolog.New(os.Stderr).With().Timestamp().Str(logging.APP, name).Logger()
		logging.LogStack(logger, err, msg)
		os.Exit(1)
	}

	a, err := New(name, cfg)
	if err != nil {
		fatal(err, "cannot create app")
	}
	if register != nil {
		if err := register(a); err != nil {
			fatal(err, "cannot register workers")
		}
	}
	if err := a.Setup(); err != nil {
		fatal(err, "uncaught failure during setup, aborting")
	}
	if err := a.Run(); err != nil {
		fatal(err, "uncaught failure during run, aborting")
	}
}
