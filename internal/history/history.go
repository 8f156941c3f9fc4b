// Package history keeps the rolling conversation window passed along with
// each completion call.
package history

import (
	"sync"

	"github.com/lss-analytics/training-api/internal/completion"
)

// History is a bounded FIFO of conversation turns. It retains at most
// maxPairs (user, assistant) pairs; the oldest pair is evicted first. Owned
// by the orchestrator, not by any single request, and safe for concurrent
// use.
type History struct {
	mu       sync.Mutex
	maxPairs int
	turns    []completion.Message
}

// New returns a history retaining at most maxPairs question/answer pairs.
func New(maxPairs int) *History {
	if maxPairs <= 0 {
		maxPairs = 5
	}
	return &History{maxPairs: maxPairs}
}

// Append records one completed exchange. When the window is full the oldest
// pair is dropped; eviction is plain FIFO, not relevance-based.
func (h *History) Append(userText, assistantText string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns,
		completion.Message{Role: completion.RoleUser, Content: userText},
		completion.Message{Role: completion.RoleAssistant, Content: assistantText},
	)
	if over := len(h.turns) - h.maxPairs*2; over > 0 {
		h.turns = append([]completion.Message(nil), h.turns[over:]...)
	}
}

// Messages returns a copy of the retained turns in order.
func (h *History) Messages() []completion.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]completion.Message, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of retained turns (two per pair).
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}
