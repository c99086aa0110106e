// Package domain defines core business entities and value objects for AIDA.
//
// The domain layer is independent of infrastructure concerns and represents
// pure business logic and data structures: conversation state, provider
// responses, generated commands and their gate states.
package domain

import "time"

// ProviderDefinition describes an AI provider endpoint declared in the
// config file, including authentication and generation parameters.
type ProviderDefinition struct {
	Name              string  `yaml:"name"`
	Endpoint          string  `yaml:"endpoint"`
	AuthEnvVar        string  `yaml:"auth_env_var"`
	ModelID           string  `yaml:"model_id"`
	MaxTokens         int     `yaml:"max_tokens"`
	Temperature       float64 `yaml:"temperature"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
}

// ProviderPlan is one entry of the model selector's output: a provider to
// query together with the request parameters the selector decided on.
type ProviderPlan struct {
	Provider     string
	ModelID      string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
	// Weight is the selector's priority weight for this provider, derived
	// from its position in the preference order. Higher wins ties during
	// best-of scoring.
	Weight float64
}

// ModelResponse is the outcome of a single provider call. It is never
// mutated after creation; failed calls are represented by Err.
type ModelResponse struct {
	Provider   string
	Text       string
	Latency    time.Duration
	Confidence float64
	Err        error
}

// SynthesisStrategy names how a synthesized response was produced.
type SynthesisStrategy string

const (
	StrategyVerbatim SynthesisStrategy = "verbatim"
	StrategyBestOf   SynthesisStrategy = "best_of"
)

// SynthesizedResponse is the merged result of one synthesis round. It always
// traces back to at least one successful ModelResponse.
type SynthesizedResponse struct {
	Text      string
	Providers []string
	Quality   float64
	Strategy  SynthesisStrategy
}
