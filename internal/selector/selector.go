// Package selector chooses which providers to query for one utterance,
// driven entirely by configuration: per-intent preference orders with a
// process-wide default.
package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/doeshing/aida-go/internal/domain"
)

// Selector resolves intent categories to ordered provider plans.
type Selector struct {
	defs      map[string]domain.ProviderDefinition
	order     []string
	overrides map[string][]string
}

// New builds a selector from the loaded configuration.
func New(cfg domain.Config) *Selector {
	defs := make(map[string]domain.ProviderDefinition, len(cfg.Providers))
	for _, def := range cfg.Providers {
		defs[def.Name] = def
	}
	return &Selector{
		defs:      defs,
		order:     cfg.Selection.DefaultProviderOrder,
		overrides: cfg.Selection.IntentOverrides,
	}
}

// Select returns the preference-ordered provider plans for an intent. It
// always returns at least one plan when any provider is configured: unknown
// intents and empty overrides fall back to the default order, and an empty
// default order falls back to every configured provider.
func (s *Selector) Select(kind domain.IntentKind, snapshot domain.ConversationContext) ([]domain.ProviderPlan, error) {
	order := s.overrides[string(kind)]
	if len(order) == 0 {
		order = s.order
	}

	plans := s.plansFor(order, snapshot)
	if len(plans) == 0 {
		plans = s.plansFor(s.order, snapshot)
	}
	if len(plans) == 0 {
		all := make([]string, 0, len(s.defs))
		for name := range s.defs {
			all = append(all, name)
		}
		sort.Strings(all)
		plans = s.plansFor(all, snapshot)
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}
	return plans, nil
}

// plansFor materializes plans for the given order, skipping names without a
// configured definition. Weight decays with list position so the synthesizer
// can prefer earlier providers on quality ties.
func (s *Selector) plansFor(order []string, snapshot domain.ConversationContext) []domain.ProviderPlan {
	plans := make([]domain.ProviderPlan, 0, len(order))
	seen := map[string]bool{}
	for i, name := range order {
		def, ok := s.defs[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		plans = append(plans, domain.ProviderPlan{
			Provider:     def.Name,
			ModelID:      def.ModelID,
			Temperature:  def.Temperature,
			MaxTokens:    def.MaxTokens,
			SystemPrompt: systemPrompt(snapshot),
			Weight:       1.0 / float64(i+1),
		})
	}
	return plans
}

// systemPrompt augments the static assistant instructions with conversation
// metadata so replies stay on topic.
func systemPrompt(snapshot domain.ConversationContext) string {
	var b strings.Builder
	b.WriteString("You are AIDA, a desktop assistant. Answer concisely; when the user asks for a system action, describe exactly one action.")
	if snapshot.CurrentTopic != "" {
		b.WriteString("\nCurrent topic: ")
		b.WriteString(snapshot.CurrentTopic)
	}
	if len(snapshot.Metadata) > 0 {
		b.WriteString("\nUser preferences:")
		for _, key := range sortedKeys(snapshot.Metadata) {
			b.WriteString(" ")
			b.WriteString(key)
			b.WriteString("=")
			b.WriteString(snapshot.Metadata[key])
		}
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
