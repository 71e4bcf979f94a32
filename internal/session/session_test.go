package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/taskdeck/taskdeck/internal/model"
)

func TestSaveAndRestoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	sess := model.Session{
		User:  model.User{ID: 7, Name: "alice", Email: "alice@example.com"},
		Token: "tok-123",
	}
	if err := store.Save(sess); err != nil {
		t.Fatalf("save session: %v", err)
	}

	restored, ok := store.Restore()
	if !ok {
		t.Fatalf("expected a restored session")
	}
	if restored != sess {
		t.Fatalf("restored %+v, want %+v", restored, sess)
	}
}

func TestRestoreMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	if _, ok := store.Restore(); ok {
		t.Fatalf("expected no session for missing file")
	}
}

func TestRestoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, ok := NewStore(path).Restore(); ok {
		t.Fatalf("expected no session for malformed file")
	}
}

func TestRestoreEmptyToken(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	if err := store.Save(model.Session{User: model.User{ID: 1}}); err != nil {
		t.Fatalf("save session: %v", err)
	}

	if _, ok := store.Restore(); ok {
		t.Fatalf("expected a tokenless session to count as absent")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	if err := store.Save(model.Session{Token: "tok"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear on absent session: %v", err)
	}
	if _, ok := store.Restore(); ok {
		t.Fatalf("expected session gone after clear")
	}
}
