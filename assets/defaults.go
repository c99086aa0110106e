package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultIntentRulesYAML contains the embedded default intent pattern rules.
//
//go:embed defaults/intents.yaml
var DefaultIntentRulesYAML []byte
