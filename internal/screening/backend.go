package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/utils"
)

const defaultMaxLogLength = 200

var errNoGenerator = errors.New("language model backend is not configured")

// backend is embedded by every component that talks to the language model.
// It logs the exchange and leaves the fallback decision to the component.
type backend struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func newBackend(generator ai.Generator, logger *zap.Logger, component string, maxLogLength int) backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return backend{
		generator: generator,
		logger:    logger.With(zap.String("component", component)),
		maxLogLen: maxLogLength,
	}
}

func (b backend) complete(ctx context.Context, prompt string) (string, error) {
	if b.generator == nil {
		return "", errNoGenerator
	}

	b.logger.Debug("generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, b.maxLogLen)),
	)

	raw, err := b.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	b.logger.Debug("generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, b.maxLogLen)),
	)

	return raw, nil
}

// firstJSONObject finds the first JSON object embedded in a model response,
// tolerating markdown code fences and surrounding prose.
func firstJSONObject(raw string) (map[string]any, error) {
	cleaned := stripCodeFence(raw)

	for offset := 0; offset < len(cleaned); {
		idx := strings.IndexByte(cleaned[offset:], '{')
		if idx == -1 {
			break
		}
		start := offset + idx

		var obj map[string]any
		dec := json.NewDecoder(strings.NewReader(cleaned[start:]))
		if err := dec.Decode(&obj); err == nil && obj != nil {
			return obj, nil
		}
		offset = start + 1
	}

	return nil, fmt.Errorf("no json object in response %q", utils.TruncateForLog(raw, defaultMaxLogLength))
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// coerceString renders a decoded JSON value as text. Null, empty strings and
// the literal "null" all mean "no value".
func coerceString(v any) (string, bool) {
	var s string
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if text, ok := coerceString(item); ok {
				parts = append(parts, text)
			}
		}
		s = strings.Join(parts, ", ")
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			s = fmt.Sprintf("%v", v)
		} else {
			s = string(bytes)
		}
	}

	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return "", false
	}
	return s, true
}
