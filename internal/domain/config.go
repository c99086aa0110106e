package domain

// Config mirrors ~/.aida/config.yaml.
type Config struct {
	ConfigFormatVersion string               `yaml:"config_format_version"`
	Selection           SelectionSettings    `yaml:"selection"`
	Providers           []ProviderDefinition `yaml:"providers"`
	Pipeline            PipelineSettings     `yaml:"pipeline"`
	Gate                GateSettings         `yaml:"gate"`
	Context             ContextSettings      `yaml:"context"`
	Intent              IntentSettings       `yaml:"intent"`
	Memory              MemorySettings       `yaml:"memory"`
}

// SelectionSettings drives the model selector: a process-wide default
// provider order plus per-intent overrides.
type SelectionSettings struct {
	DefaultProviderOrder []string            `yaml:"default_provider_order"`
	IntentOverrides      map[string][]string `yaml:"intent_overrides"`
}

// PipelineSettings bounds the per-utterance request pipeline.
type PipelineSettings struct {
	ProviderTimeoutMS          int     `yaml:"provider_timeout_ms"`
	CommandLikelihoodThreshold float64 `yaml:"command_likelihood_threshold"`
}

// GateSettings holds the confidence gate thresholds. Mid must be strictly
// below high; the loader rejects configs that violate this.
type GateSettings struct {
	ConfidenceHigh float64 `yaml:"confidence_high"`
	ConfidenceMid  float64 `yaml:"confidence_mid"`
}

// ContextSettings configures the conversation tracker.
type ContextSettings struct {
	WindowSize int `yaml:"window_size"`
}

// IntentSettings points at the intent pattern rules file.
type IntentSettings struct {
	RulesFile        string `yaml:"rules_file"`
	SemanticFallback bool   `yaml:"semantic_fallback"`
}

// MemorySettings configures durable conversation storage.
type MemorySettings struct {
	Database string `yaml:"database"`
}
