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
	"sort"
)

// State is a simple high-level summary of where the App is in its lifecycle
type State int

// Possible State values
// Normal application life cycle : Created -> Setup -> Running -> Quitting -> TornDown
// TornDown is terminal - an application may not be restarted.
// The ordering of the State enum is defined such that if there is a state transition from A -> B then A < B.
const (
	// An application in this state has been constructed but not set up.
	Created State = iota
	// An application in this state has configured its logging sinks and pidfile and may start running.
	Setup
	// An application in this state has started its workers and sits in the main wait loop.
	Running
	// An application in this state has been asked to quit and is stopping its workers.
	Quitting
	// An application in this state has completed execution. Terminal.
	TornDown
)

func (s State) Created() bool { return s == Created }

func (s State) Setup() bool { return s == Setup }

func (s State) Running() bool { return s == Running }

func (s State) Quitting() bool { return s == Quitting }

func (s State) TornDown() bool { return s == TornDown }

func (s State) ValidTransitions() (states States) {
	switch s {
	case Created:
		states = []State{Setup, TornDown}
	case Setup:
		states = []State{Running, Quitting, TornDown}
	case Running:
		states = []State{Quitting, TornDown}
	case Quitting:
		states = []State{TornDown}
	case TornDown:
	default:
		panic(fmt.Sprintf("Unknown State : %v", int(s)))
	}
	return
}

func (s State) ValidTransition(to State) bool {
	for _, validState := range s.ValidTransitions() {
		if validState == to {
			return true
		}
	}
	return false
}

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Setup:
		return "Setup"
	case Running:
		return "Running"
	case Quitting:
		return "Quitting"
	case TornDown:
		return "TornDown"
	default:
		panic(fmt.Sprintf("UNKNOWN STATE : %d", int(s)))
	}
}

// States implements sort.Interface
type States []State

func (a States) Len() int           { return len(a) }
func (a States) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a States) Less(i, j int) bool { return a[i] < a[j] }

// AllStates lists every State in lifecycle order.
var AllStates States = []State{Created, Setup, Running, Quitting, TornDown}

func (a States) Equals(b States) bool {
	if a == nil && b == nil {
		return true
	}

	if len(a) != len(b) {
		return false
	}

	sort.Sort(a)
	sort.Sort(b)

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
