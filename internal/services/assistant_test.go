package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/doeshing/aida-go/internal/command"
	"github.com/doeshing/aida-go/internal/conversation"
	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/gate"
	"github.com/doeshing/aida-go/internal/intent"
	"github.com/doeshing/aida-go/internal/pkg/logger"
	"github.com/doeshing/aida-go/internal/ports"
	"github.com/doeshing/aida-go/internal/selector"
	"github.com/doeshing/aida-go/internal/synthesis"
)

type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Generate(context.Context, ports.ProviderRequest) (ports.ProviderResponse, error) {
	p.calls++
	if p.err != nil {
		return ports.ProviderResponse{}, p.err
	}
	return ports.ProviderResponse{Text: p.text}, nil
}

type stubFactory struct {
	providers map[string]*stubProvider
}

func (f stubFactory) ForName(name string) (ports.Provider, error) {
	p, ok := f.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %s", name)
	}
	return p, nil
}

type countingController struct {
	calls int
	err   error
}

func (c *countingController) Execute(_ context.Context, cmd domain.Command) (domain.ExecutionResult, error) {
	c.calls++
	if c.err != nil {
		return domain.ExecutionResult{}, c.err
	}
	return domain.ExecutionResult{Ran: true, Detail: fmt.Sprintf("ran %s", cmd.Kind)}, nil
}

type harness struct {
	assistant  *Assistant
	tracker    *conversation.Tracker
	controller *countingController
	providers  map[string]*stubProvider
}

func newHarness(t *testing.T, mid, high float64) *harness {
	t.Helper()

	providers := map[string]*stubProvider{
		"openai": {name: "openai", text: "Happy to help with that."},
		"gemini": {name: "gemini", text: "Of course, here is an answer."},
	}
	cfg := domain.Config{
		Selection: domain.SelectionSettings{DefaultProviderOrder: []string{"openai", "gemini"}},
		Providers: []domain.ProviderDefinition{
			{Name: "openai", ModelID: "gpt-4o-mini"},
			{Name: "gemini", ModelID: "gemini-pro"},
		},
	}

	classifier, err := intent.NewClassifier("", nil, 100*time.Millisecond, logger.NewNop())
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}

	tracker := conversation.NewTracker(10)
	controller := &countingController{}
	h := &harness{
		tracker:    tracker,
		controller: controller,
		providers:  providers,
		assistant: &Assistant{
			Tracker:    tracker,
			Classifier: classifier,
			Selector:   selector.New(cfg),
			Synthesizer: &synthesis.Synthesizer{
				Factory: stubFactory{providers: providers},
				Policy:  synthesis.HeuristicPolicy{},
				Timeout: time.Second,
				Logger:  logger.NewNop(),
			},
			Generator: command.NewGenerator(),
			Gate: &gate.Gate{
				Controller: controller,
				Logger:     logger.NewNop(),
				Mid:        mid,
				High:       high,
			},
			Logger:                     logger.NewNop(),
			CommandLikelihoodThreshold: 0.6,
		},
	}
	return h
}

func TestHandleOpenCalculatorExecutes(t *testing.T) {
	h := newHarness(t, 0.5, 0.8)

	reply, err := h.assistant.Handle(domain.Request{Text: "open calculator"})
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply.GateState != domain.GateExecuted {
		t.Fatalf("GateState = %s, want EXECUTED", reply.GateState)
	}
	if reply.Command == nil || reply.Command.Kind != domain.ActionLaunchApp || reply.Command.Target["app"] != "calculator" {
		t.Fatalf("unexpected command: %+v", reply.Command)
	}
	if reply.Command.Confidence < 0.8 {
		t.Fatalf("Confidence = %v, want >= high threshold", reply.Command.Confidence)
	}
	if h.controller.calls != 1 {
		t.Fatalf("controller called %d times, want exactly 1", h.controller.calls)
	}

	// The outcome became part of the conversation.
	turns := h.tracker.Snapshot().Turns
	if len(turns) != 2 || turns[1].Role != domain.RoleAssistant {
		t.Fatalf("unexpected turns: %+v", turns)
	}
}

func TestHandleAllProvidersFailAppendsNothing(t *testing.T) {
	h := newHarness(t, 0.5, 0.8)
	h.providers["openai"].err = errors.New("401 unauthorized")
	h.providers["gemini"].err = errors.New("503 unavailable")

	_, err := h.assistant.Handle(domain.Request{Text: "what is the capital of france"})
	if !errors.Is(err, domain.ErrNoProviderAvailable) {
		t.Fatalf("error = %v, want ErrNoProviderAvailable", err)
	}
	if got := len(h.tracker.Snapshot().Turns); got != 0 {
		t.Fatalf("%d turns appended after total provider failure, want 0", got)
	}
}

func TestHandleHedgedTextStaysConversational(t *testing.T) {
	h := newHarness(t, 0.5, 0.8)

	reply, err := h.assistant.Handle(domain.Request{Text: "hmm maybe restart the thing"})
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply.Command != nil {
		t.Fatalf("command generated for hedged text: %+v", reply.Command)
	}
	if reply.Synthesis == nil || reply.Text == "" {
		t.Fatalf("expected a conversational reply, got %+v", reply)
	}
	if h.controller.calls != 0 {
		t.Fatal("controller must not run for conversational input")
	}
}

func TestHandleEmptyInputShortCircuits(t *testing.T) {
	h := newHarness(t, 0.5, 0.8)

	reply, err := h.assistant.Handle(domain.Request{Text: "   "})
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply.Intent.Kind != domain.IntentNone {
		t.Fatalf("Kind = %s, want none", reply.Intent.Kind)
	}
	for name, p := range h.providers {
		if p.calls != 0 {
			t.Fatalf("provider %s called %d times for empty input", name, p.calls)
		}
	}
	if got := len(h.tracker.Snapshot().Turns); got != 0 {
		t.Fatalf("%d turns appended for empty input, want 0", got)
	}
}

func TestHandleConfirmationRoundTrip(t *testing.T) {
	// Thresholds tuned so a dampened destructive command lands mid-band.
	h := newHarness(t, 0.3, 0.8)

	reply, err := h.assistant.Handle(domain.Request{Text: "delete the folder reports"})
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply.GateState != domain.GateConfirmRequested {
		t.Fatalf("GateState = %s, want CONFIRM_REQUESTED", reply.GateState)
	}
	if h.controller.calls != 0 {
		t.Fatal("controller ran before confirmation")
	}

	resolved, err := h.assistant.ResolveConfirmation(context.Background(), true)
	if err != nil {
		t.Fatalf("ResolveConfirmation error: %v", err)
	}
	if resolved.GateState != domain.GateExecuted || h.controller.calls != 1 {
		t.Fatalf("confirmation did not execute: %+v (calls=%d)", resolved, h.controller.calls)
	}
}

func TestHandleRejectionRecordsReason(t *testing.T) {
	h := newHarness(t, 0.5, 0.8)

	reply, err := h.assistant.Handle(domain.Request{Text: "delete the folder reports"})
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if reply.GateState != domain.GateRejected {
		t.Fatalf("GateState = %s, want REJECTED", reply.GateState)
	}
	if h.tracker.Metadata()["last_rejected_command"] == "" {
		t.Fatal("rejection reason missing from context metadata")
	}
	// The conversational reply still reaches the user.
	if reply.Text == "" {
		t.Fatal("expected a reply alongside the rejection")
	}
}

func TestHandleExecutionFailureSurfacesAndIsRecorded(t *testing.T) {
	h := newHarness(t, 0.5, 0.8)
	h.controller.err = errors.New("no such application")

	_, err := h.assistant.Handle(domain.Request{Text: "open calculator"})
	if !errors.Is(err, domain.ErrExecutionFailed) {
		t.Fatalf("error = %v, want ErrExecutionFailed", err)
	}
	turns := h.tracker.Snapshot().Turns
	if len(turns) != 2 || turns[1].Metadata["command_failed"] == "" {
		t.Fatalf("execution failure not recorded as assistant turn: %+v", turns)
	}
}
