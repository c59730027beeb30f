package session

import (
	"fmt"
	"sync"
	"testing"

	"o1ready/internal/types"
)

func testResume() types.ParsedResume {
	return types.ParsedResume{
		Filename:     "resume.pdf",
		RawText:      "Jane Doe, Senior Engineer",
		FileType:     types.FileTypePDF,
		ParseSuccess: true,
	}
}

func testAssessment() types.Assessment {
	return types.Assessment{
		Criteria: []types.CriterionEvidence{
			{Name: "Awards", Met: false, Reasoning: "none found"},
			{Name: "Judging", Met: true, Evidence: []string{"reviewer for ICML"}, Confidence: 0.9},
		},
	}
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryStore()

	created := store.Create("resume.pdf", testResume(), testAssessment())
	if created.ID == "" {
		t.Fatal("Expected non-empty session ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Filename != "resume.pdf" {
		t.Errorf("Expected filename 'resume.pdf', got %q", got.Filename)
	}
	if len(got.Assessment.Criteria) != 2 {
		t.Errorf("Expected 2 criteria, got %d", len(got.Assessment.Criteria))
	}

	if store.Count() != 1 {
		t.Errorf("Expected count 1, got %d", store.Count())
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.Get("no-such-session"); err == nil {
		t.Error("Expected error for missing session, got none")
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryStore()
	created := store.Create("resume.pdf", testResume(), testAssessment())

	updated, err := store.Update(created.ID, func(s *Session) error {
		s.Progress["Awards"] = 2
		s.Transcripts["Awards"] = append(s.Transcripts["Awards"], types.ChatMessage{
			Role:    "user",
			Content: "I won a national award in 2021",
		})
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Progress["Awards"] != 2 {
		t.Errorf("Expected progress 2, got %d", updated.Progress["Awards"])
	}
	if len(updated.Transcripts["Awards"]) != 1 {
		t.Errorf("Expected 1 transcript message, got %d", len(updated.Transcripts["Awards"]))
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("Expected UpdatedAt to advance")
	}

	// The change must be visible to subsequent reads.
	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Progress["Awards"] != 2 {
		t.Errorf("Update not persisted: expected progress 2, got %d", got.Progress["Awards"])
	}
}

func TestMemoryStoreUpdateErrorLeavesSessionUnchanged(t *testing.T) {
	store := NewMemoryStore()
	created := store.Create("resume.pdf", testResume(), testAssessment())

	_, err := store.Update(created.ID, func(s *Session) error {
		s.Progress["Awards"] = 99
		return fmt.Errorf("mutation failed")
	})
	if err == nil {
		t.Fatal("Expected error from failing mutation")
	}

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Progress["Awards"] != 0 {
		t.Errorf("Failed mutation leaked: expected progress 0, got %d", got.Progress["Awards"])
	}
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Update("no-such-session", func(s *Session) error { return nil })
	if err == nil {
		t.Error("Expected error for missing session, got none")
	}
}

func TestMemoryStoreCopiesAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	created := store.Create("resume.pdf", testResume(), testAssessment())

	// Mutating a returned copy must not touch the stored session.
	created.Assessment.Criteria[0].Met = true
	created.Progress["Awards"] = 5
	created.Assessment.Criteria[1].Evidence[0] = "tampered"

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Assessment.Criteria[0].Met {
		t.Error("Mutation of returned copy leaked into the store")
	}
	if got.Progress["Awards"] != 0 {
		t.Error("Map mutation of returned copy leaked into the store")
	}
	if got.Assessment.Criteria[1].Evidence[0] != "reviewer for ICML" {
		t.Error("Evidence slice mutation of returned copy leaked into the store")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	created := store.Create("resume.pdf", testResume(), testAssessment())

	const workers = 16
	const iterations = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_, _ = store.Get(created.ID)
				_, _ = store.Update(created.ID, func(s *Session) error {
					s.Progress["Awards"]++
					return nil
				})
			}
		}()
	}
	wg.Wait()

	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Progress["Awards"] != workers*iterations {
		t.Errorf("Expected progress %d after concurrent updates, got %d", workers*iterations, got.Progress["Awards"])
	}
}
