// Package ports defines the interfaces (ports) between the orchestration
// core and external adapters.
//
// Following the Ports and Adapters pattern, the pipeline depends only on
// these abstractions; AI endpoints, the system actuator, persistence and
// configuration are concrete implementations in the infrastructure layer.
// Adding an AI provider means implementing Provider, never branching on
// provider identity inside the core.
package ports

import (
	"context"

	"github.com/doeshing/aida-go/internal/domain"
)

// ConfigProvider loads the static configuration at process start.
// Implementations typically read from ~/.aida/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Provider is the single AI generation capability the core is polymorphic
// over. One implementation per AI service.
type Provider interface {
	Name() string
	Generate(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderFactory builds provider instances for configured definitions.
type ProviderFactory interface {
	ForName(string) (Provider, error)
}

// ProviderRequest contains everything one provider call needs.
type ProviderRequest struct {
	Prompt       string
	SystemPrompt string
	ModelID      string
	Temperature  float64
	MaxTokens    int
}

// ProviderResponse carries the generated text plus an optional
// provider-reported confidence (0 when the API exposes none).
type ProviderResponse struct {
	Text       string
	Confidence float64
}

// SystemController executes gate-approved commands. The core treats it as
// opaque; failures surface as domain.ErrExecutionFailed.
type SystemController interface {
	Execute(context.Context, domain.Command) (domain.ExecutionResult, error)
}

// MemoryStore persists conversation state across sessions. It is called at
// session boundaries only, never mid-pipeline.
type MemoryStore interface {
	Load(ctx context.Context, sessionID string) (domain.ConversationContext, error)
	Save(ctx context.Context, conversation domain.ConversationContext) error
}

// CommandAuditor records gated commands for the history surface.
type CommandAuditor interface {
	Record(domain.CommandRecord) error
	Records(limit int) ([]domain.CommandRecord, error)
}

// ScorePolicy ranks a model response against the prompt that produced it.
// It is a replaceable strategy so tests can inject deterministic scores.
type ScorePolicy interface {
	Score(prompt string, resp domain.ModelResponse, weight float64) float64
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
