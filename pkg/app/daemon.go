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
	"os"
	"os/exec"
	"syscall"

	"github.com/pkg/errors"

	"github.com/kegbot/kegbot.go/pkg/logging"
)

// daemonizedEnv marks the re-executed background child so it does not
// daemonize again.
const daemonizedEnv = "KEGBOT_DAEMONIZED"

// daemonized reports whether this process is the background child.
func daemonized() bool {
	return os.Getenv(daemonizedEnv) != ""
}

// daemonize re-executes the current binary detached from the controlling
// terminal: new session, stdio on /dev/null. The foreground parent exits 0
// once the child has launched; only the child returns from this function.
func (a *App) daemonize() error {
	if daemonized() {
		a.logger.Info().Int(logging.PID, os.Getpid()).Msg("running in background")
		return nil
	}
	a.logger.Info().Msg("daemon mode requested, switching to background")

	exe, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "cannot resolve executable path")
	}
	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return errors.Wrap(err, "cannot open /dev/null")
	}
	defer devNull.Close()

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), daemonizedEnv+"=1")
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "cannot launch background process")
	}

	a.logger.Info().Int(logging.PID, cmd.Process.Pid).Msg("background process launched")
	os.Exit(0)
	return nil
}
