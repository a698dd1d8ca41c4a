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
	"sync"
	"time"

	"github.com/kegbot/kegbot.go/internal/utils"
)

// StateChangeListener is a channel used to listen for application state
// changes. After the terminal state is reached, the channel is closed.
type StateChangeListener <-chan State

// AppState manages the application's lifecycle state in a concurrency safe
// manner. Use NewAppState to construct AppState instances.
type AppState struct {
	lock      sync.RWMutex
	state     State
	timestamp time.Time

	// registered listeners for state changes
	// once the terminal state is reached, the listeners are cleared
	stateChangeListeners []chan State
}

// NewAppState initializes the state timestamp to now.
func NewAppState() *AppState {
	return &AppState{
		timestamp: time.Now(),
	}
}

func (s *AppState) String() string {
	state, timestamp := s.State()
	return fmt.Sprintf("State:%v, Timestamp:%v", state, timestamp)
}

// State returns the current state along with the time it was entered.
func (s *AppState) State() (State, time.Time) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state, s.timestamp
}

// SetState transitions to the requested state.
// If the current state already matches, false is returned.
// An illegal transition leaves the state unchanged and returns an
// *InvalidStateTransition error.
func (s *AppState) SetState(state State) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.state == state {
		return false, nil
	}
	if !s.state.ValidTransition(state) {
		return false, &InvalidStateTransition{From: s.state, To: state}
	}
	s.state = state
	s.timestamp = time.Now()
	go s.notifyStateChangeListeners(state)
	return true, nil
}

// NewStateChangeListener returns a channel that clients can use to monitor
// the application lifecycle. After the terminal state is reached, the
// channel is closed.
func (s *AppState) NewStateChangeListener() StateChangeListener {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := make(chan State)
	if s.state.TornDown() {
		go func() {
			l <- s.state
			closeQuietly(l)
		}()
		return l
	}
	s.stateChangeListeners = append(s.stateChangeListeners, l)
	return l
}

func (s *AppState) deleteStateChangeListener(l chan State) {
	closeQuietly(l)

	s.lock.Lock()
	defer s.lock.Unlock()
	for i, v := range s.stateChangeListeners {
		if l == v {
			s.stateChangeListeners[i] = s.stateChangeListeners[len(s.stateChangeListeners)-1]
			s.stateChangeListeners = s.stateChangeListeners[:len(s.stateChangeListeners)-1]
			return
		}
	}
}

// Ignores panic if the channel is already closed
func closeQuietly(c chan State) {
	defer utils.IgnorePanic()
	close(c)
}

// Each StateChangeListener is notified concurrently. This func blocks until
// every listener has been handed the state.
func (s *AppState) notifyStateChangeListeners(state State) {
	if state.TornDown() {
		s.lock.Lock()
		defer s.lock.Unlock()
		waitGroup := sync.WaitGroup{}
		for _, l := range s.stateChangeListeners {
			waitGroup.Add(1)
			go func(l chan State) {
				defer func() {
					// ignore panics caused by sending on a closed channel
					recover()
					waitGroup.Done()
				}()
				l <- state
				closeQuietly(l)
			}(l)
		}
		waitGroup.Wait()
		s.stateChangeListeners = nil
		return
	}

	s.lock.RLock()
	defer s.lock.RUnlock()
	waitGroup := sync.WaitGroup{}
	for _, l := range s.stateChangeListeners {
		waitGroup.Add(1)
		go func(l chan State) {
			defer func() {
				// ignore panics caused by sending on a closed channel
				if p := recover(); p != nil {
					go s.deleteStateChangeListener(l)
				}
				waitGroup.Done()
			}()
			l <- state
		}(l)
	}
	waitGroup.Wait()
}
