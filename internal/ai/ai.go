package ai

import "context"

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Generator is a free-text completion backend. Callers must treat it as
// unreliable: it may fail, hang until the context expires or answer with prose
// where JSON was requested.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
