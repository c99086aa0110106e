package synthesis

import (
	"strings"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

// HeuristicPolicy is the default best-of scorer: length-normalized prompt
// relevance blended with the selector's priority weight. The constants are
// tunable defaults, not derived values.
type HeuristicPolicy struct{}

const (
	relevanceShare = 0.6
	priorityShare  = 0.4
	shortReplyLen  = 20
	longReplyLen   = 1000
)

// Score implements ports.ScorePolicy.
func (HeuristicPolicy) Score(prompt string, resp domain.ModelResponse, weight float64) float64 {
	score := relevanceShare*relevance(prompt, resp.Text) + priorityShare*weight

	// Penalize degenerate lengths the same way regardless of provider.
	switch n := len(resp.Text); {
	case n < shortReplyLen:
		score *= 0.5
	case n > longReplyLen:
		score *= 0.8
	}
	return clamp01(score)
}

// relevance measures prompt-token overlap normalized by prompt length.
func relevance(prompt, text string) float64 {
	promptTokens := tokens(prompt)
	if len(promptTokens) == 0 {
		return 0.5
	}
	textTokens := map[string]bool{}
	for _, tok := range tokens(text) {
		textTokens[tok] = true
	}
	overlap := 0
	for _, tok := range promptTokens {
		if textTokens[tok] {
			overlap++
		}
	}
	return float64(overlap) / float64(len(promptTokens))
}

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

var _ ports.ScorePolicy = HeuristicPolicy{}
