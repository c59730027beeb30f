package ai

import (
	"errors"
	"testing"
	"time"

	"o1ready/internal/config"

	"google.golang.org/genai"
)

func breakerConfig(enabled bool, minRequests uint32, threshold float64) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          enabled,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      minRequests,
			FailureThreshold: threshold,
		},
	}
}

func TestOperationBreakersAreIndependent(t *testing.T) {
	analyze := NewOperationBreaker[*genai.GenerateContentResponse]("Analyze", breakerConfig(true, 3, 0.6), nil)
	rescore := NewOperationBreaker[*genai.GenerateContentResponse]("Rescore", breakerConfig(true, 2, 0.7), nil)
	interview := NewOperationBreaker[*genai.GenerateContentResponse]("Interview", breakerConfig(true, 5, 0.5), nil)

	for name, b := range map[string]*Breaker[*genai.GenerateContentResponse]{
		"AI-Analyze":   analyze,
		"AI-Rescore":   rescore,
		"AI-Interview": interview,
	} {
		stats := b.Stats()
		if got := stats["name"]; got != name {
			t.Errorf("Expected breaker name %q, got %v", name, got)
		}
		if got := stats["state"]; got != "closed" {
			t.Errorf("%s: expected initial state closed, got %v", name, got)
		}
		if enabled, _ := stats["enabled"].(bool); !enabled {
			t.Errorf("%s: expected enabled breaker", name)
		}
		if !b.Healthy() {
			t.Errorf("%s: expected healthy breaker initially", name)
		}
	}

	if analyze == rescore || analyze == interview || rescore == interview {
		t.Error("Each operation should get its own breaker instance")
	}
}

func TestModelBreakerNaming(t *testing.T) {
	b := NewModelBreaker[*genai.Model]("Analyze", breakerConfig(true, 3, 0.6), nil)
	if got := b.Stats()["name"]; got != "AI-Model-Analyze" {
		t.Errorf("Expected name AI-Model-Analyze, got %v", got)
	}
}

func TestBreakerDisabled(t *testing.T) {
	b := NewOperationBreaker[*genai.GenerateContentResponse]("Disabled", breakerConfig(false, 0, 0), nil)
	if b != nil {
		t.Fatal("Breaker should be nil when disabled")
	}

	// A nil breaker still passes calls through and reports healthy.
	calls := 0
	_, err := b.Execute(func() (*genai.GenerateContentResponse, error) {
		calls++
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Unexpected error from pass-through execution: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected exactly one call, got %d", calls)
	}
	if !b.Healthy() {
		t.Error("Disabled breaker should report healthy")
	}
	if enabled, _ := b.Stats()["enabled"].(bool); enabled {
		t.Error("Disabled breaker stats should report enabled=false")
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	b := NewOperationBreaker[*genai.GenerateContentResponse]("Failing", breakerConfig(true, 2, 0.5), nil)

	boom := errors.New("upstream unavailable")
	for range 3 {
		_, _ = b.Execute(func() (*genai.GenerateContentResponse, error) {
			return nil, boom
		})
	}

	if b.Healthy() {
		t.Error("Breaker should be open after repeated failures")
	}
	if got := b.Stats()["state"]; got != "open" {
		t.Errorf("Expected state open, got %v", got)
	}
}
