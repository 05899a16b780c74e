package navigation

import "sync"

// History is the browser history as the machine needs it.
type History interface {
	Push(path string)
	Current() string
	Back() bool
	Forward() bool
}

// MemoryHistory is an in-process History. Pushing drops any forward
// entries, like a browser does.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	index   int
}

func NewMemoryHistory(start string) *MemoryHistory {
	return &MemoryHistory{entries: []string{start}}
}

func (h *MemoryHistory) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
}

func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

func (h *MemoryHistory) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return false
	}
	h.index--
	return true
}

func (h *MemoryHistory) Forward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == len(h.entries)-1 {
		return false
	}
	h.index++
	return true
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Reset replaces the history with a single entry, as a cold load does.
func (h *MemoryHistory) Reset(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = []string{path}
	h.index = 0
}
