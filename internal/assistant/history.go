package assistant

import (
	"slices"
	"sync"

	"productivity-assistant/internal/ai"
)

// MaxHistory is the number of exchanges kept per session.
const MaxHistory = 20

// History is a bounded FIFO of exchanges, oldest first.
type History struct {
	mu      sync.Mutex
	entries []ai.Exchange
	limit   int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = MaxHistory
	}
	return &History{limit: limit}
}

// Append adds an exchange and evicts the oldest ones beyond the limit.
func (h *History) Append(e ai.Exchange) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
	}
}

func (h *History) Entries() []ai.Exchange {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.entries)
}

// Recent returns up to n of the newest exchanges, oldest first.
func (h *History) Recent(n int) []ai.Exchange {
	h.mu.Lock()
	defer h.mu.Unlock()
	start := max(len(h.entries)-n, 0)
	return slices.Clone(h.entries[start:])
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
