// Package command turns likely-command text into structured command
// candidates with derived confidence scores. The grammar is deliberately
// small; anything it cannot parse still becomes an observable candidate with
// reduced confidence instead of vanishing.
package command

import (
	"regexp"
	"strings"

	"github.com/doeshing/aida-go/internal/domain"
)

// unstructuredDamp halves confidence for text the grammar could not parse,
// which normally lands below the gate's mid threshold.
const unstructuredDamp = 0.5

type grammarRule struct {
	re       *regexp.Regexp
	kind     domain.ActionKind
	strength float64
	targets  func([]string) map[string]string
}

// Generator parses utterances against the action grammar. Confidence is
// always derived from pattern strength and intent likelihood, dampened by
// the danger table; it is never a fabricated constant.
type Generator struct {
	rules  []grammarRule
	danger []dangerRule
}

// NewGenerator builds a generator with the built-in grammar and danger table.
func NewGenerator() *Generator {
	return &Generator{rules: defaultGrammar(), danger: defaultDangerRules()}
}

// Generate parses the source text (and falls back to the synthesized text)
// into a command candidate. The second return is false only when there is
// nothing to parse; callers gate the invocation on command likelihood.
func (g *Generator) Generate(cls domain.Classification, synthesizedText, sourceText string) (domain.Command, bool) {
	text := strings.TrimSpace(sourceText)
	if text == "" {
		text = strings.TrimSpace(synthesizedText)
	}
	if text == "" {
		return domain.Command{}, false
	}

	for _, rule := range g.rules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		confidence := g.dampen(text, rule.strength*cls.CommandLikelihood)
		return domain.Command{
			Kind:       rule.kind,
			Target:     rule.targets(m),
			SourceText: sourceText,
			Confidence: confidence,
		}, true
	}

	// Unrecognized but likely-command text stays observable downstream.
	return domain.Command{
		Kind:       domain.ActionUnstructured,
		Target:     map[string]string{"text": text},
		SourceText: sourceText,
		Confidence: g.dampen(text, cls.CommandLikelihood*unstructuredDamp),
	}, true
}

// dampen applies the danger table so risky commands cannot reach the gate's
// execute band on pattern strength alone.
func (g *Generator) dampen(text string, confidence float64) float64 {
	for _, rule := range g.danger {
		if rule.re.MatchString(text) {
			confidence *= rule.damp
		}
	}
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

func defaultGrammar() []grammarRule {
	return []grammarRule{
		{
			re:       regexp.MustCompile(`(?i)^(?:open|launch|start|run|execute)\s+(?:the\s+)?([a-z0-9 \-_]+?)(?:\s+app(?:lication)?)?$`),
			kind:     domain.ActionLaunchApp,
			strength: 0.95,
			targets:  func(m []string) map[string]string { return map[string]string{"app": normalizeTarget(m[1])} },
		},
		{
			re:       regexp.MustCompile(`(?i)^(?:close|stop|exit|quit|terminate)\s+(?:the\s+)?([a-z0-9 \-_]+?)(?:\s+app(?:lication)?)?$`),
			kind:     domain.ActionCloseApp,
			strength: 0.95,
			targets:  func(m []string) map[string]string { return map[string]string{"app": normalizeTarget(m[1])} },
		},
		{
			re:       regexp.MustCompile(`(?i)^(?:check|show|get|display)\s+(?:the\s+)?(system|cpu|memory|disk)\s*(?:status|info|usage)?$`),
			kind:     domain.ActionQuerySystemStat,
			strength: 0.95,
			targets:  func(m []string) map[string]string { return map[string]string{"stat": strings.ToLower(m[1])} },
		},
		{
			re:       regexp.MustCompile(`(?i)^(create|make|delete|remove|move|copy)\s+(?:a\s+|the\s+)?(?:new\s+)?(file|directory|folder)\s*(.*)$`),
			kind:     domain.ActionFileOp,
			strength: 0.85,
			targets: func(m []string) map[string]string {
				t := map[string]string{"op": strings.ToLower(m[1]), "object": strings.ToLower(m[2])}
				if path := strings.TrimSpace(m[3]); path != "" {
					t["path"] = path
				}
				return t
			},
		},
		{
			re:       regexp.MustCompile(`(?i)^remind\s+me\s+(?:to\s+)?(.+)$`),
			kind:     domain.ActionSetReminder,
			strength: 0.9,
			targets:  func(m []string) map[string]string { return map[string]string{"task": strings.TrimSpace(m[1])} },
		},
	}
}

func normalizeTarget(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
