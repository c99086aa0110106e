// Package gate decides whether a generated command may reach the system
// actuator. The decision itself is a pure function of confidence and the
// configured thresholds; the gate adds the execution hand-off and the
// confirmation pause around it.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

// Decide maps a confidence score onto a gate state for the given thresholds.
// Pure: [0,mid) rejects, [mid,high) requests confirmation, [high,1] executes.
func Decide(confidence, mid, high float64) domain.GateState {
	switch {
	case confidence >= high:
		return domain.GateExecuted
	case confidence >= mid:
		return domain.GateConfirmRequested
	default:
		return domain.GateRejected
	}
}

// Outcome is the gate's terminal verdict for one command.
type Outcome struct {
	State     domain.GateState
	Execution *domain.ExecutionResult
	Reason    string
}

// Gate owns the pending-confirmation slot for the single local session.
// The user-facing layer owns the wait; the gate only exposes the resolution
// entry point.
type Gate struct {
	Controller ports.SystemController
	Auditor    ports.CommandAuditor
	Logger     ports.Logger
	Mid        float64
	High       float64

	mu      sync.Mutex
	pending *domain.Command
	session string
}

// Evaluate runs one command through the gate. Commands are consumed exactly
// once: an accepted command is forwarded to the controller, a mid-band
// command parks in the confirmation slot, and a rejected command is dropped
// with its reason recorded for the caller to fold into context metadata.
func (g *Gate) Evaluate(ctx context.Context, sessionID string, cmd domain.Command) (Outcome, error) {
	state := Decide(cmd.Confidence, g.Mid, g.High)

	switch state {
	case domain.GateRejected:
		reason := fmt.Sprintf("confidence %.2f below threshold %.2f", cmd.Confidence, g.Mid)
		g.audit(sessionID, cmd, state, reason)
		return Outcome{State: state, Reason: reason}, nil

	case domain.GateConfirmRequested:
		cmd.RequiresConfirmation = true
		g.mu.Lock()
		g.pending = &cmd
		g.session = sessionID
		g.mu.Unlock()
		g.audit(sessionID, cmd, state, "awaiting user confirmation")
		return Outcome{State: state, Reason: "confirmation required"}, nil

	default:
		return g.execute(ctx, sessionID, cmd)
	}
}

// ResolveConfirmation settles the parked command. The caller (CLI or voice
// layer) invokes this after collecting an explicit yes/no from the user.
func (g *Gate) ResolveConfirmation(ctx context.Context, accepted bool) (Outcome, error) {
	g.mu.Lock()
	cmd := g.pending
	session := g.session
	g.pending = nil
	g.mu.Unlock()

	if cmd == nil {
		return Outcome{}, errors.New("no command awaiting confirmation")
	}
	if !accepted {
		g.audit(session, *cmd, domain.GateRejected, "declined by user")
		return Outcome{State: domain.GateRejected, Reason: "declined by user"}, nil
	}
	return g.execute(ctx, session, *cmd)
}

// Discard clears the confirmation slot, used when a new utterance arrives
// before the previous command was resolved.
func (g *Gate) Discard() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
}

func (g *Gate) execute(ctx context.Context, sessionID string, cmd domain.Command) (Outcome, error) {
	result, err := g.Controller.Execute(ctx, cmd)
	outcome := Outcome{State: domain.GateExecuted, Execution: &result}
	if err != nil {
		outcome.Reason = err.Error()
		g.audit(sessionID, cmd, domain.GateExecuted, "execution failed: "+err.Error())
		return outcome, fmt.Errorf("%w: %v", domain.ErrExecutionFailed, err)
	}
	g.audit(sessionID, cmd, domain.GateExecuted, result.Detail)
	return outcome, nil
}

// audit records the verdict; audit failures are logged, never propagated.
func (g *Gate) audit(sessionID string, cmd domain.Command, state domain.GateState, detail string) {
	if g.Auditor == nil {
		return
	}
	record := domain.CommandRecord{
		Timestamp:  time.Now(),
		SessionID:  sessionID,
		Kind:       cmd.Kind,
		SourceText: cmd.SourceText,
		Confidence: cmd.Confidence,
		State:      state,
		Detail:     detail,
	}
	if err := g.Auditor.Record(record); err != nil {
		g.Logger.Warn("command audit failed", map[string]interface{}{"error": err.Error()})
	}
}
