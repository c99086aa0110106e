package intent

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aida-go/assets"
	"github.com/doeshing/aida-go/internal/domain"
)

// PatternRule is one regex-based intent rule from the rules file.
type PatternRule struct {
	Name       string  `yaml:"name"`
	Pattern    string  `yaml:"pattern"`
	Kind       string  `yaml:"kind"`
	Likelihood float64 `yaml:"likelihood"`
}

// RulesFile is the YAML schema root of ~/.aida/intents.yaml.
type RulesFile struct {
	Rules struct {
		Patterns []PatternRule `yaml:"patterns"`
	} `yaml:"rules"`
}

type compiledRule struct {
	re   *regexp.Regexp
	rule PatternRule
}

// loadRules reads the rules file, falling back to the embedded defaults when
// the file is missing or empty.
func loadRules(path string) ([]compiledRule, error) {
	var rules RulesFile
	data, err := os.ReadFile(path)
	if err != nil {
		data = assets.DefaultIntentRulesYAML
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse intent rules: %w", err)
	}
	if len(rules.Rules.Patterns) == 0 {
		if err := yaml.Unmarshal(assets.DefaultIntentRulesYAML, &rules); err != nil {
			return nil, fmt.Errorf("parse embedded intent rules: %w", err)
		}
	}

	compiled := make([]compiledRule, 0, len(rules.Rules.Patterns))
	for _, rule := range rules.Rules.Patterns {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile intent rule %q: %w", rule.Name, err)
		}
		if rule.Likelihood <= 0 || rule.Likelihood > 1 {
			rule.Likelihood = defaultPatternLikelihood
		}
		compiled = append(compiled, compiledRule{re: re, rule: rule})
	}
	return compiled, nil
}

func parseKind(value string) domain.IntentKind {
	switch value {
	case "command":
		return domain.IntentCommand
	case "question":
		return domain.IntentQuestion
	case "none":
		return domain.IntentNone
	default:
		return domain.IntentConversation
	}
}
