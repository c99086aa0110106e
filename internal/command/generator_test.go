package command

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/aida-go/internal/domain"
)

func commandIntent(likelihood float64) domain.Classification {
	return domain.Classification{Kind: domain.IntentCommand, CommandLikelihood: likelihood}
}

func TestGenerateLaunchApp(t *testing.T) {
	g := NewGenerator()

	cmd, ok := g.Generate(commandIntent(0.9), "", "open calculator")
	if !ok {
		t.Fatal("expected a command")
	}
	if cmd.Kind != domain.ActionLaunchApp {
		t.Fatalf("Kind = %s, want launch-app", cmd.Kind)
	}
	if diff := cmp.Diff(map[string]string{"app": "calculator"}, cmd.Target); diff != "" {
		t.Fatalf("Target mismatch (-want +got):\n%s", diff)
	}
	if cmd.Confidence < 0.8 {
		t.Fatalf("Confidence = %v, want >= 0.8 for a clean pattern match", cmd.Confidence)
	}
}

func TestGenerateGrammarTable(t *testing.T) {
	g := NewGenerator()

	cases := []struct {
		text string
		kind domain.ActionKind
		key  string
		val  string
	}{
		{"close the browser", domain.ActionCloseApp, "app", "browser"},
		{"show cpu usage", domain.ActionQuerySystemStat, "stat", "cpu"},
		{"check system status", domain.ActionQuerySystemStat, "stat", "system"},
		{"create a new folder reports", domain.ActionFileOp, "op", "create"},
		{"remind me to stretch at noon", domain.ActionSetReminder, "task", "stretch at noon"},
	}
	for _, tc := range cases {
		cmd, ok := g.Generate(commandIntent(0.9), "", tc.text)
		if !ok {
			t.Fatalf("%q: expected a command", tc.text)
		}
		if cmd.Kind != tc.kind {
			t.Fatalf("%q: Kind = %s, want %s", tc.text, cmd.Kind, tc.kind)
		}
		if cmd.Target[tc.key] != tc.val {
			t.Fatalf("%q: Target[%s] = %q, want %q", tc.text, tc.key, cmd.Target[tc.key], tc.val)
		}
	}
}

func TestGenerateUnrecognizedBecomesUnstructured(t *testing.T) {
	g := NewGenerator()

	cmd, ok := g.Generate(commandIntent(0.7), "", "do the usual friday cleanup routine")
	if !ok {
		t.Fatal("likely-command text must not be dropped silently")
	}
	if cmd.Kind != domain.ActionUnstructured {
		t.Fatalf("Kind = %s, want unstructured", cmd.Kind)
	}
	if cmd.Confidence >= 0.5 {
		t.Fatalf("Confidence = %v, want reduced below 0.5", cmd.Confidence)
	}
}

func TestGenerateDampensDangerousCommands(t *testing.T) {
	g := NewGenerator()

	safe, _ := g.Generate(commandIntent(0.9), "", "open calculator")
	risky, ok := g.Generate(commandIntent(0.9), "", "delete the folder reports")
	if !ok {
		t.Fatal("expected a command")
	}
	if risky.Kind != domain.ActionFileOp {
		t.Fatalf("Kind = %s, want file-op", risky.Kind)
	}
	if risky.Confidence >= safe.Confidence {
		t.Fatalf("dangerous command confidence %v not below safe %v", risky.Confidence, safe.Confidence)
	}
	if risky.Confidence >= 0.8 {
		t.Fatalf("Confidence = %v, destructive ops must not reach the execute band", risky.Confidence)
	}
}

func TestGenerateFallsBackToSynthesizedText(t *testing.T) {
	g := NewGenerator()

	cmd, ok := g.Generate(commandIntent(0.9), "open notepad", "")
	if !ok {
		t.Fatal("expected a command")
	}
	if cmd.Kind != domain.ActionLaunchApp || cmd.Target["app"] != "notepad" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestGenerateNothingToParse(t *testing.T) {
	g := NewGenerator()
	if _, ok := g.Generate(commandIntent(0.9), "  ", ""); ok {
		t.Fatal("expected no command for blank input")
	}
}

func TestConfidenceDerivedFromLikelihood(t *testing.T) {
	g := NewGenerator()

	strong, _ := g.Generate(commandIntent(0.9), "", "open calculator")
	weak, _ := g.Generate(commandIntent(0.6), "", "open calculator")
	if weak.Confidence >= strong.Confidence {
		t.Fatalf("confidence must scale with intent likelihood: %v vs %v", weak.Confidence, strong.Confidence)
	}
}
