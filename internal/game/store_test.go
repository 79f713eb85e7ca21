package game

import "testing"

func TestStoreCreateAndUpdateSession(t *testing.T) {
	store := NewStore()
	session, err := store.CreateSession("Friday Rummy", testPlayers("Alice", "Bob"), DefaultConfig(TypeRummy), TypeRummy, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.ID != "session-1" {
		t.Fatalf("expected session-1, got %s", session.ID)
	}

	if _, ok := store.GetSession("session-1"); !ok {
		t.Fatal("expected to find session-1")
	}

	_, err = store.UpdateSession("missing", func(s *Session) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestStoreUpdateSessionID(t *testing.T) {
	store := NewStore()
	session, err := store.CreateSession("Friday Rummy", testPlayers("Alice"), DefaultConfig(TypeRummy), TypeRummy, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	store.UpdateSessionID(session, "session-42")
	if _, ok := store.GetSession("session-1"); ok {
		t.Fatal("old id must be released")
	}
	if _, ok := store.GetSession("session-42"); !ok {
		t.Fatal("renamed session must be reachable")
	}
}

func TestStoreRestoreBumpsCounter(t *testing.T) {
	store := NewStore()
	restored := &Session{ID: "session-7", Title: "Restored", IsActive: true}
	if err := store.RestoreSession(restored); err != nil {
		t.Fatalf("RestoreSession: %v", err)
	}
	if err := store.RestoreSession(restored); err == nil {
		t.Fatal("restoring a loaded session must fail")
	}

	next, err := store.CreateSession("After restore", testPlayers("Alice"), DefaultConfig(TypeRummy), TypeRummy, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if next.ID != "session-8" {
		t.Fatalf("expected session-8 after restore, got %s", next.ID)
	}
}

func TestStoreListSummariesAndEnded(t *testing.T) {
	store := NewStore()
	first, _ := store.CreateSession("One", testPlayers("Alice", "Bob"), DefaultConfig(TypeRummy), TypeRummy, "")
	store.CreateSession("Two", testPlayers("Cara"), DefaultConfig(TypeUno), TypeUno, "")

	summaries := store.ListSummaries()
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != "session-1" || summaries[1].ID != "session-2" {
		t.Fatalf("summaries must be ordered by id, got %s then %s", summaries[0].ID, summaries[1].ID)
	}

	if got := store.ListEnded(); len(got) != 0 {
		t.Fatalf("expected no ended sessions, got %d", len(got))
	}
	store.UpdateSession(first.ID, func(s *Session) error {
		s.IsActive = false
		return nil
	})
	ended := store.ListEnded()
	if len(ended) != 1 || ended[0].ID != "session-1" {
		t.Fatalf("expected ended session-1, got %v", ended)
	}
}
