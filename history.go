package navi

import (
	"sync"
)

// History is the host environment's session history.
type History interface {
	// Location returns the current location, including any query string
	// and hash fragment.
	Location() string
	Push(url string)
	Replace(url string)
	// Go moves n entries through the history. Moving the cursor
	// notifies listeners; Push and Replace do not.
	Go(n int)
	Back()
	Forward()
	// Listen registers fn to be called with the new location whenever
	// the history is traversed.
	Listen(fn func(url string)) (remove func())
}

// MemoryHistory is a History kept in memory, for tests and hosts without
// a native history.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []string
	index     int
	nextID    int
	listeners map[int]func(string)
}

func NewMemoryHistory(initial string) *MemoryHistory {
	if initial == "" {
		initial = "/"
	}
	return &MemoryHistory{
		entries:   []string{initial},
		listeners: make(map[int]func(string)),
	}
}

func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Entries returns a copy of the history stack and the cursor position.
func (h *MemoryHistory) Entries() ([]string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...), h.index
}

func (h *MemoryHistory) Push(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], url)
	h.index++
}

func (h *MemoryHistory) Replace(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = url
}

// Go moves the cursor by n. Going out of range does nothing; Go(0)
// re-announces the current entry.
func (h *MemoryHistory) Go(n int) {
	h.mu.Lock()
	next := h.index + n
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return
	}
	h.index = next
	url := h.entries[next]
	listeners := make([]func(string), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(url)
	}
}

func (h *MemoryHistory) Back() {
	h.Go(-1)
}

func (h *MemoryHistory) Forward() {
	h.Go(1)
}

func (h *MemoryHistory) Listen(fn func(string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}
