// Package conversation holds the in-memory conversation window and its
// derived topic state. The tracker is the single writable copy of the
// conversation; everything downstream works on snapshots.
package conversation

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/aida-go/internal/domain"
)

// DefaultWindowSize bounds the conversation when the config leaves it unset.
const DefaultWindowSize = 10

// Tracker owns the bounded conversation window. The pipeline driver is its
// only writer; the mutex guards snapshot readers (CLI rendering, history).
type Tracker struct {
	mu           sync.RWMutex
	conversation domain.ConversationContext
	window       int
}

// NewTracker starts an empty conversation with a fresh session id.
func NewTracker(windowSize int) *Tracker {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Tracker{
		conversation: domain.ConversationContext{
			SessionID: uuid.NewString(),
			Metadata:  map[string]string{},
		},
		window: windowSize,
	}
}

// Resume rebuilds a tracker around a persisted conversation, re-applying the
// window cap in case it shrank since the conversation was saved.
func Resume(conversation domain.ConversationContext, windowSize int) *Tracker {
	t := NewTracker(windowSize)
	restored := conversation.Clone()
	if restored.SessionID == "" {
		restored.SessionID = t.conversation.SessionID
	}
	if restored.Metadata == nil {
		restored.Metadata = map[string]string{}
	}
	if len(restored.Turns) > t.window {
		restored.Turns = restored.Turns[len(restored.Turns)-t.window:]
	}
	t.conversation = restored
	t.rederiveTopic()
	return t
}

// Append adds a turn, evicts the oldest entry when over capacity and
// re-derives the current topic from the retained window.
func (t *Tracker) Append(turn domain.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	if turn.Topic == "" {
		turn.Topic = tagTopic(turn.Text)
	}

	t.conversation.Turns = append(t.conversation.Turns, turn)
	if len(t.conversation.Turns) > t.window {
		t.conversation.Turns = t.conversation.Turns[len(t.conversation.Turns)-t.window:]
	}
	t.rederiveTopic()
}

// Snapshot returns a deep copy for downstream read-only use.
func (t *Tracker) Snapshot() domain.ConversationContext {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.conversation.Clone()
}

// Metadata exposes a copy of the rolling preference mapping merged into
// model prompts.
func (t *Tracker) Metadata() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.conversation.Metadata))
	for k, v := range t.conversation.Metadata {
		out[k] = v
	}
	return out
}

// SetMetadata records a rolling preference or diagnostic flag.
func (t *Tracker) SetMetadata(key, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conversation.Metadata[key] = value
}

// SessionID returns the identifier used at persistence boundaries.
func (t *Tracker) SessionID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.conversation.SessionID
}

// Summary produces a short extract of the recent conversation for prompt
// augmentation: the leading sentence of each of the last three turns.
func (t *Tracker) Summary() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	turns := t.conversation.Turns
	start := len(turns) - 3
	if start < 0 {
		start = 0
	}
	var lines []string
	for _, turn := range turns[start:] {
		lines = append(lines, string(turn.Role)+": "+firstSentence(turn.Text))
	}
	return strings.Join(lines, "\n")
}

// rederiveTopic picks the most frequent topic tag in the retained window,
// breaking ties by most recent occurrence. Callers hold the write lock.
func (t *Tracker) rederiveTopic() {
	counts := map[string]int{}
	lastSeen := map[string]int{}
	for i, turn := range t.conversation.Turns {
		if turn.Topic == "" {
			continue
		}
		counts[turn.Topic]++
		lastSeen[turn.Topic] = i
	}

	best := ""
	for topic, count := range counts {
		if best == "" {
			best = topic
			continue
		}
		switch {
		case count > counts[best]:
			best = topic
		case count == counts[best] && lastSeen[topic] > lastSeen[best]:
			best = topic
		}
	}
	t.conversation.CurrentTopic = best
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if idx := strings.Index(text, sep); idx >= 0 {
			return text[:idx+1]
		}
	}
	return text
}
