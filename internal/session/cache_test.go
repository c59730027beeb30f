package session

import (
	"testing"
	"time"
)

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("resume content"))
	b := ContentHash([]byte("resume content"))
	c := ContentHash([]byte("different content"))

	if a != b {
		t.Error("Same content must hash to the same value")
	}
	if a == c {
		t.Error("Different content must hash to different values")
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(a))
	}
}

func TestResultCacheHit(t *testing.T) {
	cache := NewResultCache(time.Minute, time.Minute)
	hash := ContentHash([]byte("resume content"))

	cache.Put(hash, CachedResult{
		Filename:   "resume.pdf",
		Resume:     testResume(),
		Assessment: testAssessment(),
	})

	result, found := cache.Get(hash)
	if !found {
		t.Fatal("Expected cache hit")
	}
	if result.Filename != "resume.pdf" {
		t.Errorf("Expected filename 'resume.pdf', got %q", result.Filename)
	}
	if len(result.Assessment.Criteria) != 2 {
		t.Errorf("Expected 2 criteria, got %d", len(result.Assessment.Criteria))
	}
}

func TestResultCacheMiss(t *testing.T) {
	cache := NewResultCache(time.Minute, time.Minute)

	if _, found := cache.Get(ContentHash([]byte("never stored"))); found {
		t.Error("Expected cache miss for unknown hash")
	}
}

func TestResultCacheFailedParseIsAMiss(t *testing.T) {
	cache := NewResultCache(time.Minute, time.Minute)
	hash := ContentHash([]byte("corrupt resume"))

	failed := testResume()
	failed.ParseSuccess = false
	failed.ErrorMessage = "failed to read PDF"
	failed.RawText = ""

	cache.Put(hash, CachedResult{
		Filename:   "resume.pdf",
		Resume:     failed,
		Assessment: testAssessment(),
	})

	// A cached failure must be retried, not replayed.
	if _, found := cache.Get(hash); found {
		t.Error("Expected cached failed parse to be treated as a miss")
	}
}

func TestResultCacheExpiry(t *testing.T) {
	cache := NewResultCache(10*time.Millisecond, time.Minute)
	hash := ContentHash([]byte("resume content"))

	cache.Put(hash, CachedResult{Filename: "resume.pdf", Resume: testResume()})

	time.Sleep(20 * time.Millisecond)

	if _, found := cache.Get(hash); found {
		t.Error("Expected entry to expire after TTL")
	}
}
