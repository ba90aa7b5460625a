// Package state keeps an object in one of several named states.
//
// Give each state a name, implement State for it, and route the object's
// behaviour through Run. Change swaps the current state; Push does the same
// but remembers the old one so Pop can return to it.
//
//	m, err := state.New(map[string]state.State{
//	    "menu":  &menuState{},
//	    "game":  &gameState{},
//	    "pause": &pauseState{},
//	}, "menu")
//
//	_ = m.Change("game")
//	_ = m.Push("pause") // game.Leave, pause.Enter
//	_ = m.Pop()         // pause.Leave, game.Enter
//
// A Manager is not safe for concurrent use.
package state

import (
	"errors"
	"fmt"
	"maps"
)

var (
	// ErrEmptyHistory is returned by Pop when no state was pushed.
	ErrEmptyHistory = errors.New("state: no prior state recorded")

	// ErrUnknownState is returned when a name is not in the state table.
	ErrUnknownState = errors.New("state: unknown state")
)

// State is one state of a Manager.
type State interface {
	// Enter is called when the state becomes current.
	Enter()
	// Leave is called when the state stops being current.
	Leave()
}

// Manager holds a fixed table of states, the current one and a history of
// pushed states.
type Manager[N comparable, S State] struct {
	states  map[N]S
	current N
	history []N
}

// New builds a Manager starting in start and calls start's Enter.
func New[N comparable, S State](states map[N]S, start N) (*Manager[N, S], error) {
	if _, ok := states[start]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownState, start)
	}

	m := &Manager[N, S]{
		states:  maps.Clone(states),
		current: start,
	}
	m.states[start].Enter()
	return m, nil
}

// Current is the name of the current state.
func (m *Manager[N, S]) Current() N { return m.current }

// Depth is the number of states Pop can return to.
func (m *Manager[N, S]) Depth() int { return len(m.history) }

// Change leaves the current state and enters next.
func (m *Manager[N, S]) Change(next N) error {
	to, ok := m.states[next]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownState, next)
	}

	m.states[m.current].Leave()
	m.current = next
	to.Enter()
	return nil
}

// Push records the current state, then changes to next.
func (m *Manager[N, S]) Push(next N) error {
	if _, ok := m.states[next]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownState, next)
	}

	m.history = append(m.history, m.current)
	return m.Change(next)
}

// Pop changes back to the most recently pushed state.
func (m *Manager[N, S]) Pop() error {
	if len(m.history) == 0 {
		return ErrEmptyHistory
	}

	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return m.Change(prev)
}

// Run calls fn with the current state.
func (m *Manager[N, S]) Run(fn func(S)) {
	fn(m.states[m.current])
}

// Eval calls fn with the current state of m and returns its result.
func Eval[N comparable, S State, R any](m *Manager[N, S], fn func(S) R) R {
	return fn(m.states[m.current])
}
