package httphost

import (
	"sync"
)

// History is a navi.History whose session history lives in remote
// clients connected over a websocket. Mutations are forwarded to every
// client as commands; traversal performed by a client comes back through
// Report.
//
// Go, Back and Forward only ask the clients to move. The router learns
// about the new location once a client reports it.
type History struct {
	mu        sync.Mutex
	location  string
	clients   map[*client]struct{}
	nextID    int
	listeners map[int]func(string)
}

func NewHistory(initial string) *History {
	if initial == "" {
		initial = "/"
	}
	return &History{
		location:  initial,
		clients:   make(map[*client]struct{}),
		listeners: make(map[int]func(string)),
	}
}

func (h *History) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.location
}

func (h *History) Push(url string) {
	h.mu.Lock()
	h.location = url
	h.mu.Unlock()
	h.broadcast(Message{Type: TypePush, URL: url})
}

func (h *History) Replace(url string) {
	h.mu.Lock()
	h.location = url
	h.mu.Unlock()
	h.broadcast(Message{Type: TypeReplace, URL: url})
}

func (h *History) Go(n int) {
	h.broadcast(Message{Type: TypeGo, Delta: n})
}

func (h *History) Back() {
	h.Go(-1)
}

func (h *History) Forward() {
	h.Go(1)
}

func (h *History) Listen(fn func(string)) func() {
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

// Report records a location a client moved to on its own (back/forward
// buttons) and notifies listeners.
func (h *History) Report(url string) {
	h.mu.Lock()
	h.location = url
	listeners := make([]func(string), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(url)
	}
}

func (h *History) attach(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *History) detach(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *History) broadcast(msg Message) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if !c.send(msg) {
			h.detach(c)
		}
	}
}
