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

import "fmt"

// InvalidStateTransition indicates an invalid transition was attempted
type InvalidStateTransition struct {
	From State
	To   State
}

func (e *InvalidStateTransition) Error() string {
	return fmt.Sprintf("InvalidStateTransition: %v -> %v", e.From, e.To)
}

// IllegalStateError indicates the app is in the wrong state for an operation
type IllegalStateError struct {
	State
	Message string
}

func (e *IllegalStateError) Error() string {
	if e.Message == "" {
		return e.State.String()
	}
	return fmt.Sprintf("%v : %v", e.State, e.Message)
}

// ConfigError indicates process arguments failed to parse or validate.
// Usage carries the flag usage text for display before exiting.
type ConfigError struct {
	Err   error
	Usage string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration : %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// PIDFileConflictError indicates the configured pidfile records a process
// that is still alive.
type PIDFileConflictError struct {
	Path string
	PID  int
}

func (e *PIDFileConflictError) Error() string {
	return fmt.Sprintf("pidfile %q : recorded pid %d is still alive", e.Path, e.PID)
}

// PIDFileIOError indicates the configured pidfile could not be read or
// written.
type PIDFileIOError struct {
	Path string
	Err  error
}

func (e *PIDFileIOError) Error() string {
	return fmt.Sprintf("pidfile %q : %v", e.Path, e.Err)
}

func (e *PIDFileIOError) Unwrap() error { return e.Err }
