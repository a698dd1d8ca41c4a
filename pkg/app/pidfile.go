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
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/kegbot/kegbot.go/pkg/logging"
)

// PIDIsAlive reports whether a process with the given pid exists.
// Signal 0 probes for existence without delivering anything; EPERM still
// means the process is there.
func PIDIsAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || err == syscall.EPERM
}

// checkAndRecordPID aborts when the configured pidfile records a live
// process, otherwise (re)writes the current process id to it.
func (a *App) checkAndRecordPID() error {
	path := a.cfg.PIDFile
	myPID := os.Getpid()
	a.logger.Info().Int(logging.PID, myPID).Str("pidfile", path).Msg("recording pid")

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		a.logger.Warn().Str("pidfile", path).Msg("pidfile already exists, checking liveness")
		oldPID, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if parseErr != nil {
			return &PIDFileIOError{Path: path, Err: fmt.Errorf("cannot parse recorded pid: %w", parseErr)}
		}
		if PIDIsAlive(oldPID) {
			return &PIDFileConflictError{Path: path, PID: oldPID}
		}
	case !os.IsNotExist(err):
		return &PIDFileIOError{Path: path, Err: err}
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(myPID)+"\n"), 0644); err != nil {
		return &PIDFileIOError{Path: path, Err: err}
	}
	a.pidRecorded = true
	return nil
}

// removePID deletes the pidfile written by checkAndRecordPID.
func (a *App) removePID() {
	if !a.pidRecorded {
		return
	}
	a.pidRecorded = false
	if err := os.Remove(a.cfg.PIDFile); err != nil {
		a.logger.Error().Err(err).Str("pidfile", a.cfg.PIDFile).Msg("cannot remove pidfile")
	}
}
