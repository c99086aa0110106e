package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/aida-go/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	conversation := domain.ConversationContext{
		SessionID:    "session-1",
		CurrentTopic: "apps",
		Metadata:     map[string]string{"last_rejected_command": "format the drive"},
		Turns: []domain.Turn{
			{Role: domain.RoleUser, Text: "open calculator", Timestamp: base, Topic: "apps"},
			{Role: domain.RoleAssistant, Text: "Opening calculator.", Timestamp: base.Add(time.Second), Topic: "apps",
				Metadata: map[string]string{"command_executed": "launch-app"}},
		},
	}

	if err := store.Save(ctx, conversation); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(conversation, loaded); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveReplacesPreviousTurns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := domain.ConversationContext{
		SessionID: "session-1",
		Metadata:  map[string]string{},
		Turns: []domain.Turn{
			{Role: domain.RoleUser, Text: "hello", Timestamp: time.Now().UTC().Truncate(time.Second)},
		},
	}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := first
	second.Turns = []domain.Turn{
		{Role: domain.RoleUser, Text: "what is the weather", Timestamp: time.Now().UTC().Truncate(time.Second)},
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save() second error = %v", err)
	}

	loaded, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Turns) != 1 {
		t.Fatalf("len(Turns) = %d, want 1", len(loaded.Turns))
	}
	if loaded.Turns[0].Text != "what is the weather" {
		t.Errorf("Turns[0].Text = %q, want replacement turn", loaded.Turns[0].Text)
	}
}

func TestLoadUnknownSessionIsEmpty(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.SessionID != "never-saved" {
		t.Errorf("SessionID = %q, want requested id", loaded.SessionID)
	}
	if len(loaded.Turns) != 0 {
		t.Errorf("len(Turns) = %d, want 0", len(loaded.Turns))
	}
}

func TestLatestSessionID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, domain.ConversationContext{SessionID: "older", Metadata: map[string]string{}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, domain.ConversationContext{SessionID: "newer", Metadata: map[string]string{}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	id, err := store.LatestSessionID(ctx)
	if err != nil {
		t.Fatalf("LatestSessionID() error = %v", err)
	}
	if id != "newer" && id != "older" {
		t.Fatalf("LatestSessionID() = %q, want a stored session", id)
	}
}

func TestCommandAuditNewestFirst(t *testing.T) {
	store := newTestStore(t)

	records := []domain.CommandRecord{
		{Timestamp: time.Now().UTC(), SessionID: "s", Kind: domain.ActionLaunchApp, SourceText: "open calculator", Confidence: 0.855, State: domain.GateExecuted},
		{Timestamp: time.Now().UTC(), SessionID: "s", Kind: domain.ActionFileOp, SourceText: "delete the folder reports", Confidence: 0.43, State: domain.GateRejected, Detail: "confidence below threshold"},
		{Timestamp: time.Now().UTC(), SessionID: "s", Kind: domain.ActionSetReminder, SourceText: "remind me to stretch", Confidence: 0.81, State: domain.GateExecuted},
	}
	for _, rec := range records {
		if err := store.Record(rec); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := store.Records(2)
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(Records(2)) = %d, want 2", len(got))
	}
	if got[0].SourceText != "remind me to stretch" {
		t.Errorf("Records()[0].SourceText = %q, want newest entry first", got[0].SourceText)
	}
	if got[1].State != domain.GateRejected {
		t.Errorf("Records()[1].State = %q, want %q", got[1].State, domain.GateRejected)
	}

	all, err := store.Records(0)
	if err != nil {
		t.Fatalf("Records(0) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(Records(0)) = %d, want all entries", len(all))
	}
}
