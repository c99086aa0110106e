package selector

import (
	"strings"
	"testing"

	"github.com/doeshing/aida-go/internal/domain"
)

func testConfig() domain.Config {
	return domain.Config{
		Selection: domain.SelectionSettings{
			DefaultProviderOrder: []string{"openai", "gemini"},
			IntentOverrides: map[string][]string{
				"question": {"gemini", "openai"},
				"command":  {"openai"},
			},
		},
		Providers: []domain.ProviderDefinition{
			{Name: "openai", ModelID: "gpt-4o-mini", MaxTokens: 500, Temperature: 0.7},
			{Name: "gemini", ModelID: "gemini-pro", MaxTokens: 500, Temperature: 0.7},
		},
	}
}

func TestSelectUsesIntentOverride(t *testing.T) {
	s := New(testConfig())

	plans, err := s.Select(domain.IntentQuestion, domain.ConversationContext{})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if len(plans) != 2 || plans[0].Provider != "gemini" || plans[1].Provider != "openai" {
		t.Fatalf("unexpected plan order: %+v", plans)
	}
	if plans[0].Weight <= plans[1].Weight {
		t.Fatalf("weights not decreasing: %v, %v", plans[0].Weight, plans[1].Weight)
	}
}

func TestSelectFallsBackToDefaultOrder(t *testing.T) {
	s := New(testConfig())

	plans, err := s.Select(domain.IntentConversation, domain.ConversationContext{})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if plans[0].Provider != "openai" {
		t.Fatalf("plans[0] = %s, want openai (default order)", plans[0].Provider)
	}
}

func TestSelectNeverReturnsEmptyWhenProvidersExist(t *testing.T) {
	cfg := testConfig()
	cfg.Selection.DefaultProviderOrder = []string{"no-such-provider"}
	cfg.Selection.IntentOverrides = nil
	s := New(cfg)

	plans, err := s.Select(domain.IntentCommand, domain.ConversationContext{})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if len(plans) == 0 {
		t.Fatal("Select returned no plans despite configured providers")
	}
}

func TestSelectErrorsWithoutProviders(t *testing.T) {
	s := New(domain.Config{})
	if _, err := s.Select(domain.IntentCommand, domain.ConversationContext{}); err == nil {
		t.Fatal("expected error when nothing is configured")
	}
}

func TestSystemPromptCarriesTopicAndMetadata(t *testing.T) {
	s := New(testConfig())
	snapshot := domain.ConversationContext{
		CurrentTopic: "apps",
		Metadata:     map[string]string{"units": "metric"},
	}

	plans, err := s.Select(domain.IntentCommand, snapshot)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	prompt := plans[0].SystemPrompt
	if !strings.Contains(prompt, "Current topic: apps") {
		t.Fatalf("system prompt missing topic: %q", prompt)
	}
	if !strings.Contains(prompt, "units=metric") {
		t.Fatalf("system prompt missing metadata: %q", prompt)
	}
}
