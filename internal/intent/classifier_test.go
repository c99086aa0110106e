package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/pkg/logger"
	"github.com/doeshing/aida-go/internal/ports"
)

func newTestClassifier(t *testing.T, fallback ports.Provider) *Classifier {
	t.Helper()
	c, err := NewClassifier("", fallback, 100*time.Millisecond, logger.NewNop())
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}
	return c
}

func TestClassifyEmptyTextShortCircuits(t *testing.T) {
	c := newTestClassifier(t, nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		got := c.Classify(context.Background(), text, domain.ConversationContext{})
		if got.Kind != domain.IntentNone || got.CommandLikelihood != 0 {
			t.Fatalf("Classify(%q) = %+v, want IntentNone with likelihood 0", text, got)
		}
	}
}

func TestClassifyPatternMatch(t *testing.T) {
	c := newTestClassifier(t, nil)

	got := c.Classify(context.Background(), "open calculator", domain.ConversationContext{})
	if got.Kind != domain.IntentCommand {
		t.Fatalf("Kind = %s, want command", got.Kind)
	}
	if got.CommandLikelihood < 0.9 {
		t.Fatalf("CommandLikelihood = %v, want >= 0.9", got.CommandLikelihood)
	}
	if got.MatchedRule != "launch-app" {
		t.Fatalf("MatchedRule = %q, want launch-app", got.MatchedRule)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := newTestClassifier(t, nil)
	snapshot := domain.ConversationContext{CurrentTopic: "apps"}

	first := c.Classify(context.Background(), "hmm maybe restart the thing", snapshot)
	second := c.Classify(context.Background(), "hmm maybe restart the thing", snapshot)
	if first != second {
		t.Fatalf("classification not idempotent: %+v vs %+v", first, second)
	}
	if first.CommandLikelihood >= 0.6 {
		t.Fatalf("hedged text should stay below the generator threshold, got %v", first.CommandLikelihood)
	}
}

func TestClassifySemanticFallback(t *testing.T) {
	fallback := &scriptedProvider{text: "command"}
	c := newTestClassifier(t, fallback)

	got := c.Classify(context.Background(), "do the usual morning routine", domain.ConversationContext{})
	if got.Kind != domain.IntentCommand || got.CommandLikelihood != semanticLikelihood {
		t.Fatalf("Classify = %+v, want semantic command verdict", got)
	}
	if fallback.calls != 1 {
		t.Fatalf("fallback called %d times, want 1", fallback.calls)
	}
}

func TestClassifySemanticFailureDegradesToCues(t *testing.T) {
	fallback := &scriptedProvider{err: errors.New("quota exceeded")}
	c := newTestClassifier(t, fallback)

	got := c.Classify(context.Background(), "is it going to rain tomorrow?", domain.ConversationContext{})
	if got.Kind != domain.IntentQuestion {
		t.Fatalf("Kind = %s, want question from keyword cues", got.Kind)
	}
}

type scriptedProvider struct {
	text  string
	err   error
	calls int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(context.Context, ports.ProviderRequest) (ports.ProviderResponse, error) {
	p.calls++
	if p.err != nil {
		return ports.ProviderResponse{}, p.err
	}
	return ports.ProviderResponse{Text: p.text}, nil
}
