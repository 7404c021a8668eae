package screening

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/candidate"
)

// UpdateRequest describes a wish to revise an already collected field.
// NewValue is raw and must still go through validation.
type UpdateRequest struct {
	WantsUpdate bool
	Field       candidate.Field
	NewValue    string
	HasValue    bool
}

// HasField reports whether a known field was identified.
func (r UpdateRequest) HasField() bool { return r.Field != "" }

type fieldKeywords struct {
	field    candidate.Field
	keywords *regexp.Regexp
}

var (
	revisionKeywords = regexp.MustCompile(`(?i)\b(?:change|update|correct|fix|modify|replace|wrong|mistake)`)

	// "is correct" and friends confirm a value; they are removed before the
	// keyword gate so only the imperative "correct" counts as a revision.
	affirmationPhrase = regexp.MustCompile(`(?i)\b(?:is|are|looks|seems|all|everything|that's|it's)\s+(?:all\s+|still\s+|totally\s+)?correct\b`)

	// Checked in FieldOrder; the first match wins.
	updateFieldKeywords = []fieldKeywords{
		{candidate.FieldName, keywordRegex("name", "full name")},
		{candidate.FieldEmail, keywordRegex("email", "e-mail", "mail", "email address")},
		{candidate.FieldPhone, keywordRegex("phone", "mobile", "number", "contact", "cell")},
		{candidate.FieldYearsExperience, keywordRegex("experience", "years", "yoe")},
		{candidate.FieldDesiredPosition, keywordRegex("position", "role", "job", "title")},
		{candidate.FieldLocation, keywordRegex("location", "city", "live", "living", "based", "address", "country")},
		{candidate.FieldTechStack, keywordRegex("tech stack", "stack", "tech", "skills", "skill", "technologies", "languages")},
	}

	valueSeparator = regexp.MustCompile(`(?i)\b(?:to|as)\s+`)
)

func keywordRegex(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

type updatePayload struct {
	WantsUpdate bool   `mapstructure:"wants_update"`
	Field       string `mapstructure:"field"`
	NewValue    any    `mapstructure:"new_value"`
}

// UpdateDetector classifies confirmation-stage replies as update requests.
type UpdateDetector struct {
	backend
}

func NewUpdateDetector(generator ai.Generator, logger *zap.Logger, maxLogLength int) *UpdateDetector {
	return &UpdateDetector{backend: newBackend(generator, logger, "update_detector", maxLogLength)}
}

// Detect never fails: anything it cannot understand is reported as "no update".
func (d *UpdateDetector) Detect(ctx context.Context, message string) UpdateRequest {
	message = strings.TrimSpace(message)
	if message == "" {
		return UpdateRequest{}
	}

	if revisionKeywords.MatchString(affirmationPhrase.ReplaceAllString(message, "")) {
		req := detectByKeywords(message)
		d.logger.Debug("update detected by keywords",
			zap.String("field", req.Field.String()),
			zap.Bool("has_value", req.HasValue),
		)
		return req
	}

	raw, err := d.complete(ctx, buildUpdatePrompt(message))
	if err != nil {
		d.logger.Warn("update detection failed, assuming no update", zap.Error(err))
		return UpdateRequest{}
	}

	req, err := parseUpdateResponse(raw)
	if err != nil {
		d.logger.Warn("update detection response is unusable, assuming no update", zap.Error(err))
		return UpdateRequest{}
	}

	return req
}

// detectByKeywords walks the value separators left to right and uses the
// first one whose preceding text names a field. Without a separator the whole
// message is scanned and no value is returned.
func detectByKeywords(message string) UpdateRequest {
	req := UpdateRequest{WantsUpdate: true}

	for _, loc := range valueSeparator.FindAllStringIndex(message, -1) {
		field, ok := matchField(message[:loc[0]])
		if !ok {
			continue
		}
		req.Field = field
		if value := cleanValue(message[loc[1]:]); value != "" {
			req.NewValue = value
			req.HasValue = true
		}
		return req
	}

	if field, ok := matchField(message); ok {
		req.Field = field
	}
	return req
}

func matchField(text string) (candidate.Field, bool) {
	for _, entry := range updateFieldKeywords {
		if entry.keywords.MatchString(text) {
			return entry.field, true
		}
	}
	return "", false
}

func cleanValue(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), " .!?")
}

func parseUpdateResponse(raw string) (UpdateRequest, error) {
	obj, err := firstJSONObject(raw)
	if err != nil {
		return UpdateRequest{}, err
	}

	var payload updatePayload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &payload,
	})
	if err != nil {
		return UpdateRequest{}, fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(obj); err != nil {
		return UpdateRequest{}, fmt.Errorf("decode update payload: %w", err)
	}

	req := UpdateRequest{WantsUpdate: payload.WantsUpdate}
	if !req.WantsUpdate {
		return req, nil
	}

	if field, ok := candidate.ParseField(payload.Field); ok {
		req.Field = field
	}
	if value, ok := coerceString(payload.NewValue); ok {
		req.NewValue = value
		req.HasValue = true
	}
	return req, nil
}

func buildUpdatePrompt(message string) string {
	return fmt.Sprintf(`Analyze if the user wants to UPDATE previously provided information.

User message: %q
Available fields: name, email, phone, years_experience, desired_position, location, tech_stack

Determine:
1. Does the user want to update something? (yes/no)
2. If yes, which field? (use exact field names above)
3. If yes, what's the new value?

Return ONLY a JSON object:
{"wants_update": true/false, "field": "field_name or null", "new_value": "value or null"}

Examples:
- "update email to john@example.com" -> {"wants_update": true, "field": "email", "new_value": "john@example.com"}
- "change my phone number to 1234567890" -> {"wants_update": true, "field": "phone", "new_value": "1234567890"}
- "no" or "looks good" -> {"wants_update": false, "field": null, "new_value": null}`, message)
}
