package domain

import "context"

// Request captures one user utterance entering the pipeline.
type Request struct {
	Context context.Context
	Text    string
}

// Reply is the canonical pipeline outcome: either a conversational response
// or a gated command verdict (or both, when a command carried a reply).
type Reply struct {
	Text      string
	Intent    Classification
	Synthesis *SynthesizedResponse
	Command   *Command
	GateState GateState
	Execution *ExecutionResult
}

// AssistantService exposes the use-case boundary for handling an utterance.
type AssistantService interface {
	Handle(Request) (Reply, error)
}
