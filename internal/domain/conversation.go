package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation entry. Turns are immutable once appended;
// the tracker copies them on snapshot.
type Turn struct {
	Role      Role              `json:"role"`
	Text      string            `json:"text"`
	Timestamp time.Time         `json:"timestamp"`
	Topic     string            `json:"topic,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ConversationContext is the bounded conversation window plus derived state.
// The tracker owns the live copy; everything downstream receives a snapshot.
type ConversationContext struct {
	SessionID    string            `json:"session_id"`
	Turns        []Turn            `json:"turns"`
	CurrentTopic string            `json:"current_topic,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Clone returns a deep copy safe for concurrent read-only use.
func (c ConversationContext) Clone() ConversationContext {
	out := ConversationContext{
		SessionID:    c.SessionID,
		CurrentTopic: c.CurrentTopic,
	}
	if len(c.Turns) > 0 {
		out.Turns = make([]Turn, len(c.Turns))
		for i, turn := range c.Turns {
			out.Turns[i] = turn.clone()
		}
	}
	if len(c.Metadata) > 0 {
		out.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

func (t Turn) clone() Turn {
	out := t
	if len(t.Metadata) > 0 {
		out.Metadata = make(map[string]string, len(t.Metadata))
		for k, v := range t.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
