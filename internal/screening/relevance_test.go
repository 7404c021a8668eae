package screening

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRelevanceFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stub   *stubGenerator
		expect bool
	}{
		{name: "relevant", stub: &stubGenerator{response: "RELEVANT"}, expect: true},
		{name: "relevant lower case with punctuation", stub: &stubGenerator{response: "relevant."}, expect: true},
		{name: "irrelevant", stub: &stubGenerator{response: "IRRELEVANT"}, expect: false},
		{name: "irrelevant with explanation", stub: &stubGenerator{response: "IRRELEVANT - asks about the weather"}, expect: false},
		{name: "irrelevant wins over relevant", stub: &stubGenerator{response: "Not RELEVANT. IRRELEVANT."}, expect: false},
		{name: "prose without verdict fails open", stub: &stubGenerator{response: "Sure, I can help with that."}, expect: true},
		{name: "on-topic prose fails open", stub: &stubGenerator{response: "The message is on-topic."}, expect: true},
		{name: "not applicable fails open", stub: &stubGenerator{response: "N/A"}, expect: true},
		{name: "empty reply fails open", stub: &stubGenerator{response: ""}, expect: true},
		{name: "backend failure fails open", stub: &stubGenerator{err: errBackendDown}, expect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := NewRelevanceFilter(tt.stub, zap.NewNop(), 0)
			if got := f.IsRelevant(context.Background(), "What's the capital of France?", "Stage 1 - collecting name"); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestRelevanceFilterWithoutBackendFailsOpen(t *testing.T) {
	f := NewRelevanceFilter(nil, nil, 0)
	if !f.IsRelevant(context.Background(), "hello", "Stage 1") {
		t.Fatal("expected missing backend to fail open")
	}
}

func TestRelevancePromptCarriesContext(t *testing.T) {
	stub := &stubGenerator{response: "RELEVANT"}
	f := NewRelevanceFilter(stub, zap.NewNop(), 0)

	f.IsRelevant(context.Background(), "john@example.com", "Stage 1 - collecting email")

	prompt := stub.lastPrompt()
	if !strings.Contains(prompt, `"john@example.com"`) {
		t.Fatalf("expected message in prompt: %s", prompt)
	}
	if !strings.Contains(prompt, "Context: Stage 1 - collecting email") {
		t.Fatalf("expected context label in prompt: %s", prompt)
	}
}

func TestRelevanceWithoutVerdictLogsWarning(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	f := NewRelevanceFilter(&stubGenerator{response: "Sure, I can help with that."}, zap.New(core), 0)

	if !f.IsRelevant(context.Background(), "John Doe", "Stage 1 - collecting name") {
		t.Fatal("expected reply without verdict to count as relevant")
	}

	entries := observed.FilterMessage("relevance response has no verdict, treating message as relevant").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["response"]; got != "Sure, I can help with that." {
		t.Fatalf("unexpected response field %v", got)
	}
}
