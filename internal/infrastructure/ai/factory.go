// Package ai implements ports.Provider for the configured AI endpoints.
//
// Each API family gets a providerAdapter describing its wire format; the
// shared httpProvider handles transport, rate limiting and authentication.
package ai

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

type providerKind string

const (
	kindChatCompletion providerKind = "chat-completion"
	kindAnthropic      providerKind = "anthropic"
	kindGemini         providerKind = "gemini"
	kindHeuristic      providerKind = "heuristic"
)

// Factory builds providers from the config's provider definitions. Instances
// are cached so each definition keeps a single rate limiter; the synthesizer
// resolves providers from concurrent goroutines.
type Factory struct {
	httpClient *http.Client
	defs       map[string]domain.ProviderDefinition

	mu    sync.Mutex
	built map[string]ports.Provider
}

func NewFactory(defs []domain.ProviderDefinition) *Factory {
	byName := make(map[string]domain.ProviderDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}
	return &Factory{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		defs:       byName,
		built:      make(map[string]ports.Provider),
	}
}

func (f *Factory) ForName(name string) (ports.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if provider, ok := f.built[name]; ok {
		return provider, nil
	}

	def, ok := f.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: provider %q is not configured", domain.ErrProviderUnavailable, name)
	}

	var provider ports.Provider
	switch inferProviderKind(def) {
	case kindAnthropic:
		provider = newHTTPProvider(def, f.httpClient, anthropicAdapter())
	case kindGemini:
		provider = newHTTPProvider(def, f.httpClient, geminiAdapter())
	case kindHeuristic:
		provider = newHeuristicProvider(def.Name)
	default:
		provider = newHTTPProvider(def, f.httpClient, chatCompletionAdapter())
	}

	f.built[name] = provider
	return provider, nil
}

func inferProviderKind(def domain.ProviderDefinition) providerKind {
	nameLower := strings.ToLower(def.Name)

	switch {
	case strings.Contains(def.Endpoint, "anthropic.com"), strings.Contains(nameLower, "anthropic"), strings.Contains(nameLower, "claude"):
		return kindAnthropic
	case strings.Contains(def.Endpoint, "googleapis.com"), strings.Contains(nameLower, "gemini"):
		return kindGemini
	case def.Endpoint == "", strings.Contains(nameLower, "offline"), strings.Contains(nameLower, "heuristic"):
		return kindHeuristic
	default:
		return kindChatCompletion
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
