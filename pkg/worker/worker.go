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

// Package worker wraps a unit of background work with a name, a logger, and
// cooperative cancellation.
//
// Quit requests a stop; it never forces one. The worker's main routine is
// expected to poll the stop request via Context.Dying or Context.Quitting.
// A worker that ignores the request keeps running past its join timeout.
//
// An uncaught failure (returned error or panic) inside the main routine is
// logged with its call stack and recorded on the worker, but is never
// re-raised - owners poll Alive and LastFailure.
package worker

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"

	"github.com/kegbot/kegbot.go/pkg/logging"
)

// Main is the worker's unit of work. It must return promptly once
// ctx.Dying() is closed.
type Main func(ctx *Context) error

// Context is passed to the worker's main routine.
type Context struct {
	w *Worker
}

// Dying returns a channel that is closed once a stop has been requested.
func (ctx *Context) Dying() <-chan struct{} { return ctx.w.t.Dying() }

// Quitting reports whether a stop has been requested.
func (ctx *Context) Quitting() bool {
	select {
	case <-ctx.w.t.Dying():
		return true
	default:
		return false
	}
}

// Logger returns the worker logger.
func (ctx *Context) Logger() zerolog.Logger { return ctx.w.Logger() }

// Worker is a cooperatively-cancellable unit of background work.
// Use New to construct Worker instances. A worker runs at most once and
// cannot be restarted after it exits.
type Worker struct {
	t    tomb.Tomb
	name string
	main Main

	mutex   sync.Mutex
	logger  zerolog.Logger
	started bool
	failure error
}

// New creates a worker in the Created state.
func New(name string, main Main) *Worker {
	return &Worker{
		name:   name,
		main:   main,
		logger: zerolog.New(os.Stderr).With().Timestamp().Str(logging.WORKER, name).Logger(),
	}
}

// Name returns the worker name.
func (w *Worker) Name() string { return w.name }

// Logger returns the worker logger.
func (w *Worker) Logger() zerolog.Logger {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.logger
}

// SetLogger replaces the worker logger. The owning application calls this
// before Start so worker output lands on the application sinks.
func (w *Worker) SetLogger(logger zerolog.Logger) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.logger = logger.With().Str(logging.WORKER, w.name).Logger()
}

// Start launches the worker goroutine. A worker starts at most once; a
// second Start fails with an *AlreadyStartedError.
func (w *Worker) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.started {
		return &AlreadyStartedError{Name: w.name}
	}
	w.started = true
	w.t.Go(w.run)
	return nil
}

func (w *Worker) run() (err error) {
	defer func() {
		if p := recover(); p != nil {
			w.recordFailure(errors.Errorf("panic: %v", p))
		} else if err != nil {
			w.recordFailure(errors.WithStack(err))
		}
		// the failure stays recorded on the worker, it is not re-raised
		err = nil
	}()
	logger := w.Logger()
	logger.Info().Str(logging.FUNC, "run").Msg("worker started")
	err = w.main(&Context{w: w})
	logger = w.Logger()
	logger.Info().Str(logging.FUNC, "run").Msg("worker exiting")
	return
}

func (w *Worker) recordFailure(err error) {
	w.mutex.Lock()
	w.failure = err
	logger := w.logger
	w.mutex.Unlock()
	logging.LogStack(logger, err, "uncaught failure in worker, exiting")
}

// Quit requests a cooperative stop. It never force-terminates the worker.
// Quit on a worker that was never started terminates it immediately.
func (w *Worker) Quit() {
	w.t.Kill(nil)
}

// Started reports whether Start has been called.
func (w *Worker) Started() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.started
}

// Alive reports whether the worker has been started and has not exited.
func (w *Worker) Alive() bool {
	return w.Started() && w.t.Alive()
}

// Wait blocks until the worker exits, bounded by timeout.
// It reports whether the worker exited within the bound.
func (w *Worker) Wait(timeout time.Duration) bool {
	if !w.Started() {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-w.t.Dead():
		return true
	case <-timer.C:
		return false
	}
}

// LastFailure returns the failure that terminated the worker's main routine,
// or nil. Owners may poll it after observing that the worker is no longer
// alive.
func (w *Worker) LastFailure() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.failure
}

// AlreadyStartedError indicates a second Start on the same worker.
type AlreadyStartedError struct {
	Name string
}

func (e *AlreadyStartedError) Error() string {
	return fmt.Sprintf("worker: %q has already been started", e.Name)
}
