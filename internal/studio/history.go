package studio

import (
	"sync"
	"time"
)

// HistoryLimit is the number of renders kept.
const HistoryLimit = 5

// HistoryItem is one successful render.
type HistoryItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	VoiceName string    `json:"voiceName"`
	CreatedAt time.Time `json:"createdAt"`
	AudioSrc  string    `json:"audioSrc"`
}

// History keeps the most recent renders, newest first.
type History struct {
	mu    sync.RWMutex
	items []HistoryItem
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{}
}

// Add prepends item, evicting the oldest entry past HistoryLimit.
func (h *History) Add(item HistoryItem) {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := make([]HistoryItem, 0, HistoryLimit)
	items = append(items, item)
	for _, it := range h.items {
		if len(items) == HistoryLimit {
			break
		}
		items = append(items, it)
	}
	h.items = items
}

// Items returns a copy of the entries, newest first.
func (h *History) Items() []HistoryItem {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]HistoryItem, len(h.items))
	copy(out, h.items)
	return out
}

// Get returns the entry with id.
func (h *History) Get(id string) (HistoryItem, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, it := range h.items {
		if it.ID == id {
			return it, true
		}
	}
	return HistoryItem{}, false
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}
