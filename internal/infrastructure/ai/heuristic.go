package ai

import (
	"context"
	"strings"

	"github.com/doeshing/aida-go/internal/ports"
)

// heuristicProvider answers locally when no AI endpoint is reachable. Its
// low confidence keeps it from winning best-of against a real model.
type heuristicProvider struct {
	name string
}

func newHeuristicProvider(name string) ports.Provider {
	return &heuristicProvider{name: name}
}

func (p *heuristicProvider) Name() string {
	return p.name
}

func (p *heuristicProvider) Generate(_ context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	return ports.ProviderResponse{
		Text:       cannedReply(req.Prompt),
		Confidence: 0.2,
	}, nil
}

func cannedReply(prompt string) string {
	prompt = strings.ToLower(prompt)
	switch {
	case strings.Contains(prompt, "open") || strings.Contains(prompt, "launch") || strings.Contains(prompt, "start"):
		return "I can try to open that for you."
	case strings.Contains(prompt, "close") || strings.Contains(prompt, "quit"):
		return "I can try to close that for you."
	case strings.Contains(prompt, "cpu") || strings.Contains(prompt, "memory") || strings.Contains(prompt, "disk"):
		return "I can check your system status."
	case strings.Contains(prompt, "remind"):
		return "I can set that reminder for you."
	case strings.Contains(prompt, "?"):
		return "I am running without an AI provider, so I can only help with local actions right now."
	default:
		return "No AI provider is configured, but I can still handle local commands like opening apps."
	}
}
