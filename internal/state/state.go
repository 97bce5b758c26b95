// Package state provides thread-safe state management for the application.
package state

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/litescript/ls-platesolver/internal/solution"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventSolutionAdded   EventType = "SOLUTION_ADDED"
	EventSolutionUpdated EventType = "SOLUTION_UPDATED"
	EventSolutionRemoved EventType = "SOLUTION_REMOVED"
)

// Event represents a change in the solution store.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	ID        int       `json:"id"`
	File      string    `json:"file"`
	Image     string    `json:"image,omitempty"`
	Objects   int       `json:"objects"`
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	entries         []solution.Entry
	lastRefresh     time.Time
	lastError       error
	refreshDuration time.Duration
	refreshes       int

	// Previous listing for event detection, by entry ID
	prev map[int]solution.Entry

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:       50,
		RefreshInterval: 2 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		prev:            make(map[int]solution.Entry),
	}
}

// Update records a new store listing. The first listing only establishes a
// baseline; later ones generate events for what changed. A failed refresh
// keeps the previous listing.
func (m *Manager) Update(entries []solution.Entry, refreshDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastRefresh = time.Now()
	m.lastError = err
	m.refreshDuration = refreshDuration
	if err != nil {
		return
	}

	if m.refreshes > 0 {
		m.detectEvents(entries)
	}
	m.refreshes++

	m.entries = append(m.entries[:0:0], entries...)
	m.prev = make(map[int]solution.Entry, len(entries))
	for _, e := range entries {
		m.prev[e.ID] = e
	}
}

// detectEvents compares a new listing with the previous one.
func (m *Manager) detectEvents(entries []solution.Entry) {
	now := time.Now()

	seen := make(map[int]bool, len(entries))
	// oldest first, so the event log reads in order
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		seen[e.ID] = true
		old, ok := m.prev[e.ID]
		switch {
		case !ok:
			m.addEvent(newEvent(EventSolutionAdded, now, e))
		case !old.ModTime.Equal(e.ModTime):
			m.addEvent(newEvent(EventSolutionUpdated, now, e))
		}
	}

	for id, old := range m.prev {
		if !seen[id] {
			m.addEvent(newEvent(EventSolutionRemoved, now, old))
		}
	}
}

func newEvent(t EventType, now time.Time, e solution.Entry) Event {
	ev := Event{Type: t, Timestamp: now, ID: e.ID, File: filepath.Base(e.Path)}
	if e.Solution != nil {
		ev.Image = e.Solution.Params.ImageName
		if ev.Image == "" {
			ev.Image = filepath.Base(e.Solution.Params.ImagePath)
		}
		ev.Objects = len(e.Solution.Matched)
	}
	return ev
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Entries         []solution.Entry
	LastRefresh     time.Time
	LastError       error
	RefreshDuration time.Duration
	Events          []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]solution.Entry, len(m.entries))
	copy(entries, m.entries)

	return Snapshot{
		Entries:         entries,
		LastRefresh:     m.lastRefresh,
		LastError:       m.lastError,
		RefreshDuration: m.refreshDuration,
		Events:          m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Entry returns the listed entry with the given ID.
func (m *Manager) Entry(id int) (solution.Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, true
		}
	}
	return solution.Entry{}, false
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true if we have received at least one successful refresh.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshes > 0
}
