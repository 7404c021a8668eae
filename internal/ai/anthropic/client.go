package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const (
	defaultModel       = "claude-sonnet-4-20250514"
	defaultTemperature = 0.7
	maxTokens          = 1024
)

type messagesAPI interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Options tune a Generator. Zero values fall back to defaults.
type Options struct {
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Generator sends single-message prompts to the Anthropic Messages API.
type Generator struct {
	messages    messagesAPI
	modelName   string
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

func NewGenerator(apiKey string, opts Options, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	// The SDK retries by default; a failed turn falls back instead.
	client := sdk.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0))

	return newGenerator(&client.Messages, opts, logger), nil
}

func newGenerator(messages messagesAPI, opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	return &Generator{
		messages:    messages,
		modelName:   model,
		temperature: temperature,
		timeout:     opts.Timeout,
		logger:      logger,
	}
}

func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.messages == nil {
		return "", errors.New("anthropic generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	started := time.Now()
	msg, err := g.messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(g.modelName),
		MaxTokens:   maxTokens,
		Temperature: sdk.Float(g.temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}
	if msg == nil {
		return "", errors.New("anthropic api returned no message")
	}

	g.logger.Debug("anthropic call finished",
		zap.Duration("took", time.Since(started)),
		zap.String("stop_reason", string(msg.StopReason)),
	)

	var builder strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("anthropic api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
