package navi

import (
	"sync"
)

// EventKind identifies a stage of the navigation pipeline.
type EventKind int

const (
	EventStart EventKind = iota
	EventBeforeChange
	EventChange
	EventAfterChange
	EventNotFound
	EventError
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventBeforeChange:
		return "before_change"
	case EventChange:
		return "change"
	case EventAfterChange:
		return "after_change"
	case EventNotFound:
		return "not_found"
	case EventError:
		return "error"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners registered with Router.On.
type Event struct {
	Kind       EventKind
	Navigation *Navigation
	Data       NavigateData
	// Err is the guard failure, set on EventError.
	Err error
	// Outcome is set on EventEnd.
	Outcome Outcome
}

type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}

type emitter struct {
	mu        sync.Mutex
	nextID    int
	listeners map[EventKind][]listenerEntry
}

func newEmitter() *emitter {
	return &emitter{listeners: make(map[EventKind][]listenerEntry)}
}

func (e *emitter) on(kind EventKind, fn Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.listeners[kind] = append(e.listeners[kind], listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			e.remove(kind, id)
		})
	}
}

func (e *emitter) remove(kind EventKind, id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := e.listeners[kind]
	for i, entry := range entries {
		if entry.id == id {
			e.listeners[kind] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

func (e *emitter) emit(ev Event) {
	e.mu.Lock()
	entries := e.listeners[ev.Kind]
	e.mu.Unlock()
	for _, entry := range entries {
		entry.fn(ev)
	}
}

func (e *emitter) off() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.listeners)
}
