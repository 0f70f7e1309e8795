package graph

import (
	"sync"
)

// HotSwap is a thread-safe holder for the graph currently being served.
// Reloading a snapshot builds a new graph and swaps it in; readers that
// already hold the old one keep using it.
type HotSwap struct {
	mu      sync.RWMutex
	current *CategoryGraph
}

func NewHotSwap(initial *CategoryGraph) *HotSwap {
	return &HotSwap{current: initial}
}

// Current returns the graph in service.
func (h *HotSwap) Current() *CategoryGraph {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Swap replaces the current graph and returns the previous one.
func (h *HotSwap) Swap(next *CategoryGraph) *CategoryGraph {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.current
	h.current = next
	return prev
}
