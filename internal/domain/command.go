package domain

import "time"

// ActionKind enumerates the supported system command categories.
type ActionKind string

const (
	ActionLaunchApp       ActionKind = "launch-app"
	ActionCloseApp        ActionKind = "close-app"
	ActionFileOp          ActionKind = "file-op"
	ActionQuerySystemStat ActionKind = "query-system-stat"
	ActionSetReminder     ActionKind = "set-reminder"
	// ActionUnstructured marks likely-command text the grammar could not
	// parse. It carries reduced confidence so the gate normally rejects it,
	// but the attempt stays observable.
	ActionUnstructured ActionKind = "unstructured"
)

// Command is a structured system command candidate. It is created by the
// generator, consumed exactly once by the confidence gate, and never mutated;
// a rejected command is replaced by a fresh one on the next utterance.
type Command struct {
	Kind                 ActionKind
	Target               map[string]string
	SourceText           string
	Confidence           float64
	RequiresConfirmation bool
}

// GateState is the confidence gate's terminal verdict for one command.
type GateState string

const (
	GatePending          GateState = "PENDING"
	GateExecuted         GateState = "EXECUTED"
	GateConfirmRequested GateState = "CONFIRM_REQUESTED"
	GateRejected         GateState = "REJECTED"
)

// ExecutionResult wraps details reported by the system controller.
type ExecutionResult struct {
	Ran      bool
	Detail   string
	Duration time.Duration
	Err      error
}

// CommandRecord captures one gated command for the audit history.
type CommandRecord struct {
	Timestamp  time.Time  `json:"timestamp"`
	SessionID  string     `json:"session_id"`
	Kind       ActionKind `json:"kind"`
	SourceText string     `json:"source_text"`
	Confidence float64    `json:"confidence"`
	State      GateState  `json:"state"`
	Detail     string     `json:"detail,omitempty"`
}
