/*
=================================================================================
LIFECYCLE - RUNNING/STOPPED STATE FOR THE BACKEND
=================================================================================

Generalizes component.BaseComponent's Start/Stop state machine
(StateActive/StateStopped/StateShuttingDown guarded by a mutex) to the
narrower running/stopped contract §4.6.1 specifies for the backend: there is
no restart-eligibility table here because spec.md gives the backend exactly
two states and Stop() is always safe to call, but the "guard every
transition under one lock, check state before acting" shape is the same.
=================================================================================
*/

package backend

import "sync"

// lifecycle tracks the backend's running/stopped state and whether §4.6.3's
// one-time subscription wiring has run yet.
type lifecycle struct {
	mu          sync.Mutex
	running     bool
	initialized bool
	step        uint64
}

func (l *lifecycle) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *lifecycle) markRunning() {
	l.mu.Lock()
	l.running = true
	l.mu.Unlock()
}

func (l *lifecycle) markStopped() {
	l.mu.Lock()
	l.running = false
	l.mu.Unlock()
}

func (l *lifecycle) needsInit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.initialized {
		return false
	}
	l.initialized = true
	return true
}

func (l *lifecycle) currentStep() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.step
}

func (l *lifecycle) advanceStep() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.step
	l.step++
	return s
}
