package screening

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/candidate"
)

const (
	nameMaxWords        = 4
	nameMaxLength       = 50
	positionMaxLength   = 100
	positionMinResult   = 3
	locationMaxLength   = 50
	locationMinResult   = 2
	phoneDigitsRequired = 10
)

var (
	embeddedEmailRegex = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRunRegex      = regexp.MustCompile(`\b\d{10}\b`)
	nonDigitRegex      = regexp.MustCompile(`\D`)
	integerRegex       = regexp.MustCompile(`-?\d+`)
	spacesRegex        = regexp.MustCompile(`\s+`)

	nameStopWords = map[string]struct{}{
		"the": {}, "is": {}, "i'm": {}, "my": {}, "name": {}, "called": {}, "i": {}, "am": {},
	}

	noExperiencePhrases = []string{
		"no experience",
		"no professional experience",
		"not any experience",
		"don't have experience",
		"don't have any experience",
		"fresher",
		"fresh graduate",
		"fresh grad",
		"just graduated",
		"entry level",
		"entry-level",
		"zero",
	}

	positionFillers = fillerRegex(
		"i'm", "i am", "im", "i'd like to be", "i want to be", "i would like to be",
		"applying for", "applying", "apply for", "looking for", "interested in",
		"the", "a", "an", "position", "role", "job", "post", "opening", "as", "for",
	)

	locationFillers = fillerRegex(
		"i'm", "i am", "im", "i live", "i'm living", "living", "live", "currently", "presently",
		"based", "located", "residing", "staying", "in", "at", "from", "near", "my",
		"location", "is", "city", "the",
	)

	techFillers = fillerRegex(
		"my tech stack is", "my tech stack includes", "my stack is", "tech stack",
		"i am proficient in", "i'm proficient in", "proficient in", "proficient with",
		"i have experience with", "i have experience in", "experienced with",
		"i mostly work with", "i work with", "i mostly use", "i use", "i know",
		"skills are", "my skills",
	)

	techKeywords = map[string]struct{}{
		"python": {}, "java": {}, "javascript": {}, "typescript": {}, "go": {}, "golang": {},
		"rust": {}, "c": {}, "c++": {}, "c#": {}, ".net": {}, "ruby": {}, "php": {}, "kotlin": {},
		"swift": {}, "scala": {}, "elixir": {}, "react": {}, "angular": {}, "vue": {},
		"node": {}, "node.js": {}, "nodejs": {}, "django": {}, "flask": {}, "fastapi": {},
		"spring": {}, "rails": {}, "laravel": {}, "sql": {}, "postgres": {}, "postgresql": {},
		"mysql": {}, "mongodb": {}, "redis": {}, "kafka": {}, "docker": {}, "kubernetes": {},
		"k8s": {}, "aws": {}, "gcp": {}, "azure": {}, "terraform": {}, "linux": {},
		"html": {}, "css": {}, "graphql": {}, "pytorch": {}, "tensorflow": {}, "pandas": {},
	}

	fieldDescriptions = map[candidate.Field]string{
		candidate.FieldName:            "the person's full name",
		candidate.FieldEmail:           "a valid email address",
		candidate.FieldPhone:           "a phone number (with or without country code)",
		candidate.FieldYearsExperience: "number of years of experience (use 0 for fresh graduates or no experience)",
		candidate.FieldDesiredPosition: "job position/role they're applying for",
		candidate.FieldLocation:        "their current location (city, state, or country)",
		candidate.FieldTechStack:       "programming languages, frameworks, and tools they know (as a comma-separated string)",
	}
)

type extractRule func(message string) (string, bool)

// Extractor pulls a candidate field value out of free text. Deterministic
// rules run first; the language model is asked only when they find nothing.
type Extractor struct {
	backend
	rules map[candidate.Field]extractRule
}

func NewExtractor(generator ai.Generator, logger *zap.Logger, maxLogLength int) *Extractor {
	return &Extractor{
		backend: newBackend(generator, logger, "extractor", maxLogLength),
		rules: map[candidate.Field]extractRule{
			candidate.FieldName:            extractName,
			candidate.FieldEmail:           extractEmail,
			candidate.FieldPhone:           extractPhone,
			candidate.FieldYearsExperience: extractYears,
			candidate.FieldDesiredPosition: extractPosition,
			candidate.FieldLocation:        extractLocation,
			candidate.FieldTechStack:       extractTechStack,
		},
	}
}

// Extract returns the raw, not yet validated, value for the field. false
// means nothing could be extracted and the caller should ask again.
func (e *Extractor) Extract(ctx context.Context, message string, field candidate.Field) (string, bool) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", false
	}

	if rule, ok := e.rules[field]; ok {
		if value, ok := rule(message); ok {
			e.logger.Debug("value extracted by rule", zap.String("field", field.String()))
			return value, true
		}
	}

	description, ok := fieldDescriptions[field]
	if !ok {
		return "", false
	}

	raw, err := e.complete(ctx, buildExtractionPrompt(description, message))
	if err != nil {
		e.logger.Warn("extraction fallback failed", zap.String("field", field.String()), zap.Error(err))
		return "", false
	}

	obj, err := firstJSONObject(raw)
	if err != nil {
		e.logger.Warn("extraction response is not json", zap.String("field", field.String()), zap.Error(err))
		return "", false
	}

	value, ok := coerceString(obj["value"])
	if !ok {
		e.logger.Debug("model found no value", zap.String("field", field.String()))
	}
	return value, ok
}

// Refine runs only the deterministic rule for the field, returning the raw
// value unchanged when the rule finds nothing. It is used for update values
// such as "5 years" which already come without surrounding chatter.
func (e *Extractor) Refine(value string, field candidate.Field) string {
	value = strings.TrimSpace(value)
	if rule, ok := e.rules[field]; ok && value != "" {
		if refined, ok := rule(value); ok {
			return refined
		}
	}
	return value
}

func buildExtractionPrompt(description, message string) string {
	return fmt.Sprintf(`Extract %s from the user's message.

User message: %q

Rules:
- If the information is clearly present, extract it
- For years_experience: if they say "fresher", "fresh graduate", "no experience", or "0", return 0
- For tech_stack: provide as comma-separated values
- If the information is NOT present or unclear, return null

Return ONLY a JSON object with this format: {"value": <extracted_value>}

Examples:
- For name: {"value": "John Doe"}
- For email: {"value": "john@example.com"}
- For years_experience: {"value": 3} or {"value": 0}
- For tech_stack: {"value": "Python, Django, React, PostgreSQL"}
- If not found: {"value": null}`, description, message)
}

func extractName(message string) (string, bool) {
	words := strings.Fields(normalizeApostrophes(message))
	if len(words) == 0 || len(words) > nameMaxWords || utf8.RuneCountInString(message) >= nameMaxLength {
		return "", false
	}

	kept := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, `.,!?;:"`)
		if w == "" {
			continue
		}
		if _, stop := nameStopWords[strings.ToLower(w)]; stop {
			continue
		}
		kept = append(kept, w)
	}

	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, " "), true
}

func extractEmail(message string) (string, bool) {
	match := embeddedEmailRegex.FindString(message)
	return match, match != ""
}

// extractPhone prefers an exact 10-digit run. Otherwise every digit is
// collected; an international number written with "+" is handed over whole
// so the validator can drop the country code.
func extractPhone(message string) (string, bool) {
	if match := phoneRunRegex.FindString(message); match != "" {
		return match, true
	}

	digits := nonDigitRegex.ReplaceAllString(message, "")
	if len(digits) < phoneDigitsRequired {
		return "", false
	}

	if strings.Contains(message, "+") && len(digits) > phoneDigitsRequired {
		return "+" + digits, true
	}

	return digits[:phoneDigitsRequired], true
}

func extractYears(message string) (string, bool) {
	lower := strings.ToLower(normalizeApostrophes(message))
	for _, phrase := range noExperiencePhrases {
		if strings.Contains(lower, phrase) {
			return "0", true
		}
	}

	match := integerRegex.FindString(message)
	return match, match != ""
}

func extractPosition(message string) (string, bool) {
	return extractShortPhrase(message, positionFillers, positionMaxLength, positionMinResult)
}

func extractLocation(message string) (string, bool) {
	return extractShortPhrase(message, locationFillers, locationMaxLength, locationMinResult)
}

func extractShortPhrase(message string, fillers *regexp.Regexp, maxLength, minResult int) (string, bool) {
	if utf8.RuneCountInString(message) >= maxLength {
		return "", false
	}

	stripped := fillers.ReplaceAllString(normalizeApostrophes(message), " ")
	stripped = spacesRegex.ReplaceAllString(stripped, " ")
	stripped = strings.Trim(stripped, " .,!?;:-'\"")

	if utf8.RuneCountInString(stripped) < minResult {
		return "", false
	}
	// Casers keep state and cannot be shared between goroutines.
	return cases.Title(language.English, cases.NoLower).String(stripped), true
}

func extractTechStack(message string) (string, bool) {
	if strings.Contains(message, ",") {
		return strings.TrimSpace(message), true
	}

	if !mentionsTechnology(message) {
		return "", false
	}

	stripped := techFillers.ReplaceAllString(normalizeApostrophes(message), " ")
	stripped = spacesRegex.ReplaceAllString(stripped, " ")
	stripped = strings.Trim(stripped, " .!?;:")
	if stripped == "" {
		return strings.TrimSpace(message), true
	}
	return stripped, true
}

func mentionsTechnology(message string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})
	for _, token := range tokens {
		if _, ok := techKeywords[token]; ok {
			return true
		}
		if _, ok := techKeywords[strings.TrimRight(token, ".")]; ok {
			return true
		}
	}
	return false
}

// fillerRegex matches any of the phrases as whole words, longest first.
func fillerRegex(phrases ...string) *regexp.Regexp {
	sorted := slices.Clone(phrases)
	slices.SortStableFunc(sorted, func(a, b string) int { return len(b) - len(a) })

	quoted := make([]string, len(sorted))
	for i, p := range sorted {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func normalizeApostrophes(s string) string {
	return strings.ReplaceAll(s, "’", "'")
}
