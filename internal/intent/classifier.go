// Package intent maps raw utterance text to an intent category and a
// command-likelihood signal. Pattern matching runs first (deterministic,
// no network); a bounded semantic pass over one provider backs it up when
// no pattern matches.
package intent

import (
	"context"
	"strings"
	"time"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

const (
	defaultPatternLikelihood = 0.9
	semanticLikelihood       = 0.7
	keywordCueLikelihood     = 0.3
)

// Classifier implements the pattern-first, semantic-fallback intent pass.
// Classify never mutates the snapshot it receives.
type Classifier struct {
	rules    []compiledRule
	fallback ports.Provider
	timeout  time.Duration
	logger   ports.Logger
}

// NewClassifier loads the pattern rules (embedded defaults when the file is
// absent). fallback may be nil to disable the semantic pass.
func NewClassifier(rulesPath string, fallback ports.Provider, timeout time.Duration, logger ports.Logger) (*Classifier, error) {
	rules, err := loadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	return &Classifier{rules: rules, fallback: fallback, timeout: timeout, logger: logger}, nil
}

// Classify returns the intent kind and command likelihood for one utterance.
// Empty or whitespace-only text yields IntentNone with likelihood 0 so the
// pipeline short-circuits without provider calls.
func (c *Classifier) Classify(ctx context.Context, text string, snapshot domain.ConversationContext) domain.Classification {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.Classification{Kind: domain.IntentNone, CommandLikelihood: 0}
	}

	for _, rule := range c.rules {
		if rule.re.MatchString(trimmed) {
			return domain.Classification{
				Kind:              parseKind(rule.rule.Kind),
				CommandLikelihood: commandLikelihood(parseKind(rule.rule.Kind), rule.rule.Likelihood),
				MatchedRule:       rule.rule.Name,
			}
		}
	}

	if c.fallback != nil {
		if cls, ok := c.semanticPass(ctx, trimmed, snapshot); ok {
			return cls
		}
	}

	return c.keywordCues(trimmed)
}

// semanticPass asks one provider to categorize the utterance, bounded by the
// same per-call timeout as synthesis; any failure degrades to the keyword
// cues rather than surfacing.
func (c *Classifier) semanticPass(ctx context.Context, text string, snapshot domain.ConversationContext) (domain.Classification, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := "Categorize the user message as exactly one of: command, question, conversation.\n" +
		"Current topic: " + snapshot.CurrentTopic + "\nMessage: " + text
	resp, err := c.fallback.Generate(ctx, ports.ProviderRequest{Prompt: prompt, MaxTokens: 8})
	if err != nil {
		c.logger.Debug("semantic intent pass failed", map[string]interface{}{"error": err.Error()})
		return domain.Classification{}, false
	}

	answer := strings.ToLower(resp.Text)
	switch {
	case strings.Contains(answer, "command"):
		return domain.Classification{Kind: domain.IntentCommand, CommandLikelihood: semanticLikelihood}, true
	case strings.Contains(answer, "question"):
		return domain.Classification{Kind: domain.IntentQuestion, CommandLikelihood: 0.1}, true
	case strings.Contains(answer, "conversation"):
		return domain.Classification{Kind: domain.IntentConversation, CommandLikelihood: 0.05}, true
	default:
		return domain.Classification{}, false
	}
}

// keywordCues keeps weak command verbs visible to the pipeline without
// crossing the generator threshold on their own.
func (c *Classifier) keywordCues(text string) domain.Classification {
	lower := strings.ToLower(text)
	for _, verb := range []string{"open ", "launch ", "start ", "close ", "restart ", "delete ", "create "} {
		if strings.Contains(lower, verb) {
			return domain.Classification{Kind: domain.IntentConversation, CommandLikelihood: keywordCueLikelihood}
		}
	}
	if strings.HasSuffix(strings.TrimSpace(text), "?") {
		return domain.Classification{Kind: domain.IntentQuestion, CommandLikelihood: 0.05}
	}
	return domain.Classification{Kind: domain.IntentConversation, CommandLikelihood: 0.05}
}

func commandLikelihood(kind domain.IntentKind, likelihood float64) float64 {
	if kind == domain.IntentCommand {
		return likelihood
	}
	return 0.05
}
