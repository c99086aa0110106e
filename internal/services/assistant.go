// Package services wires the orchestration components into the per-utterance
// request pipeline. One utterance runs at a time; the tracker has exactly one
// writer, this driver.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/aida-go/internal/conversation"
	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/gate"
	"github.com/doeshing/aida-go/internal/ports"
)

// IntentClassifier is the pipeline's view of the intent pass.
type IntentClassifier interface {
	Classify(ctx context.Context, text string, snapshot domain.ConversationContext) domain.Classification
}

// ProviderSelector resolves an intent to ordered provider plans.
type ProviderSelector interface {
	Select(kind domain.IntentKind, snapshot domain.ConversationContext) ([]domain.ProviderPlan, error)
}

// ResponseSynthesizer reduces concurrent provider calls to one response.
type ResponseSynthesizer interface {
	Synthesize(ctx context.Context, prompt string, plans []domain.ProviderPlan) (domain.SynthesizedResponse, error)
}

// CommandGenerator parses likely-command text into candidates.
type CommandGenerator interface {
	Generate(cls domain.Classification, synthesizedText, sourceText string) (domain.Command, bool)
}

// CommandGate decides and executes command candidates.
type CommandGate interface {
	Evaluate(ctx context.Context, sessionID string, cmd domain.Command) (gate.Outcome, error)
	ResolveConfirmation(ctx context.Context, accepted bool) (gate.Outcome, error)
	Discard()
}

// Assistant orchestrates the utterance lifecycle end-to-end.
type Assistant struct {
	Tracker     *conversation.Tracker
	Classifier  IntentClassifier
	Selector    ProviderSelector
	Synthesizer ResponseSynthesizer
	Generator   CommandGenerator
	Gate        CommandGate
	Logger      ports.Logger

	// CommandLikelihoodThreshold gates the command generator; below it the
	// utterance is handled as conversation only.
	CommandLikelihoodThreshold float64
}

// Handle processes a single user utterance. It always ends in a terminal
// gate state or a conversational reply; a session-level cancel aborts all
// in-flight provider calls and leaves the conversation unmodified.
func (a *Assistant) Handle(req domain.Request) (domain.Reply, error) {
	if a.Tracker == nil || a.Classifier == nil || a.Selector == nil ||
		a.Synthesizer == nil || a.Generator == nil || a.Gate == nil || a.Logger == nil {
		return domain.Reply{}, errors.New("services.Assistant dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	snapshot := a.Tracker.Snapshot()
	cls := a.Classifier.Classify(ctx, req.Text, snapshot)
	if cls.Kind == domain.IntentNone {
		return domain.Reply{Intent: cls}, nil
	}

	// A fresh utterance supersedes any command still parked for
	// confirmation; the caller resolves confirmations before calling Handle.
	a.Gate.Discard()

	plans, err := a.Selector.Select(cls.Kind, snapshot)
	if err != nil {
		return domain.Reply{Intent: cls}, err
	}

	a.Logger.Debug("dispatching providers", map[string]interface{}{
		"intent":    string(cls.Kind),
		"providers": len(plans),
	})

	syn, err := a.Synthesizer.Synthesize(ctx, buildPrompt(req.Text, snapshot), plans)
	if err != nil {
		// All providers failed or the utterance was cancelled: nothing is
		// appended, the conversation stays as it was.
		return domain.Reply{Intent: cls}, err
	}
	if ctx.Err() != nil {
		return domain.Reply{Intent: cls}, ctx.Err()
	}

	reply := domain.Reply{Text: syn.Text, Intent: cls, Synthesis: &syn}

	if cls.CommandLikelihood >= a.CommandLikelihoodThreshold {
		if cmd, ok := a.Generator.Generate(cls, syn.Text, req.Text); ok {
			return a.runGate(ctx, req.Text, cmd, reply)
		}
	}

	a.appendExchange(req.Text, syn.Text, nil)
	return reply, nil
}

// runGate pushes a command candidate through the confidence gate and folds
// the verdict back into the conversation.
func (a *Assistant) runGate(ctx context.Context, sourceText string, cmd domain.Command, reply domain.Reply) (domain.Reply, error) {
	outcome, err := a.Gate.Evaluate(ctx, a.Tracker.SessionID(), cmd)
	reply.Command = &cmd
	reply.GateState = outcome.State
	reply.Execution = outcome.Execution

	switch outcome.State {
	case domain.GateExecuted:
		if err != nil {
			// Execution failures surface and still become part of the
			// conversation so later turns can reference them.
			reply.Text = fmt.Sprintf("I couldn't complete that: %s", outcome.Reason)
			a.appendExchange(sourceText, reply.Text, map[string]string{"command_failed": string(cmd.Kind)})
			return reply, err
		}
		reply.Text = executionSummary(cmd, outcome.Execution)
		a.appendExchange(sourceText, reply.Text, map[string]string{"command_executed": string(cmd.Kind)})
		return reply, nil

	case domain.GateConfirmRequested:
		reply.Command.RequiresConfirmation = true
		reply.Text = confirmationPromptText(cmd)
		a.Tracker.Append(domain.Turn{Role: domain.RoleUser, Text: sourceText})
		return reply, nil

	default: // rejected
		a.Tracker.SetMetadata("last_rejected_command", outcome.Reason)
		a.appendExchange(sourceText, reply.Text, map[string]string{"command_rejected": string(cmd.Kind)})
		return reply, nil
	}
}

// ResolveConfirmation settles a parked command after the user answered the
// confirmation prompt, recording the outcome as an assistant turn.
func (a *Assistant) ResolveConfirmation(ctx context.Context, accepted bool) (domain.Reply, error) {
	outcome, err := a.Gate.ResolveConfirmation(ctx, accepted)
	if err != nil && !errors.Is(err, domain.ErrExecutionFailed) {
		return domain.Reply{}, err
	}

	reply := domain.Reply{GateState: outcome.State, Execution: outcome.Execution}
	switch {
	case err != nil:
		reply.Text = fmt.Sprintf("I couldn't complete that: %s", outcome.Reason)
	case outcome.State == domain.GateExecuted:
		reply.Text = "Done."
		if outcome.Execution != nil && outcome.Execution.Detail != "" {
			reply.Text = outcome.Execution.Detail
		}
	default:
		reply.Text = "Okay, I won't do that."
		a.Tracker.SetMetadata("last_rejected_command", outcome.Reason)
	}
	a.Tracker.Append(domain.Turn{Role: domain.RoleAssistant, Text: reply.Text})
	return reply, err
}

func (a *Assistant) appendExchange(userText, assistantText string, meta map[string]string) {
	a.Tracker.Append(domain.Turn{Role: domain.RoleUser, Text: userText})
	a.Tracker.Append(domain.Turn{Role: domain.RoleAssistant, Text: assistantText, Metadata: meta})
}

// buildPrompt prefixes the utterance with the recent exchange so providers
// see the running conversation, not an isolated sentence.
func buildPrompt(text string, snapshot domain.ConversationContext) string {
	turns := snapshot.Turns
	if len(turns) == 0 {
		return text
	}
	start := len(turns) - 4
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for _, turn := range turns[start:] {
		b.WriteString(string(turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	b.WriteString("\nUser: ")
	b.WriteString(text)
	return b.String()
}

func executionSummary(cmd domain.Command, result *domain.ExecutionResult) string {
	if result != nil && result.Detail != "" {
		return result.Detail
	}
	return fmt.Sprintf("Executed %s command.", cmd.Kind)
}

func confirmationPromptText(cmd domain.Command) string {
	return fmt.Sprintf("I can run the %s command for %q, but I'd like you to confirm first.", cmd.Kind, cmd.SourceText)
}

// Compile-time interface compliance check
var _ domain.AssistantService = (*Assistant)(nil)
