package screening

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/utils"
)

const (
	relevantToken   = "RELEVANT"
	irrelevantToken = "IRRELEVANT"
)

// RelevanceFilter decides whether a message belongs to the screening
// conversation. It fails open: a backend error or a reply without a verdict
// counts as relevant.
type RelevanceFilter struct {
	backend
}

func NewRelevanceFilter(generator ai.Generator, logger *zap.Logger, maxLogLength int) *RelevanceFilter {
	return &RelevanceFilter{backend: newBackend(generator, logger, "relevance", maxLogLength)}
}

func (f *RelevanceFilter) IsRelevant(ctx context.Context, message, contextLabel string) bool {
	raw, err := f.complete(ctx, buildRelevancePrompt(message, contextLabel))
	if err != nil {
		f.logger.Warn("relevance check failed, treating message as relevant", zap.Error(err))
		return true
	}

	relevant, decided := classifyRelevance(raw)
	if !decided {
		f.logger.Warn("relevance response has no verdict, treating message as relevant",
			zap.String("response", utils.TruncateForLog(raw, f.maxLogLen)),
		)
		return true
	}

	f.logger.Debug("relevance decided", zap.Bool("relevant", relevant), zap.String("context", contextLabel))
	return relevant
}

// classifyRelevance reads the verdict word from a model reply. IRRELEVANT is
// checked as a standalone word so it is not mistaken for RELEVANT. decided is
// false when neither word is present.
func classifyRelevance(raw string) (relevant, decided bool) {
	words := strings.FieldsFunc(strings.ToUpper(raw), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	sawRelevant := false
	for _, w := range words {
		switch w {
		case irrelevantToken:
			return false, true
		case relevantToken:
			sawRelevant = true
		}
	}
	return sawRelevant, sawRelevant
}

func buildRelevancePrompt(message, contextLabel string) string {
	return fmt.Sprintf(`You are a recruitment chatbot filter. Determine if the user's message is relevant to a job recruitment screening process.

User message: %q
Context: %s

A message is RELEVANT if it:
- Provides personal information (name, email, phone, experience, position, location, skills)
- Answers the current question being asked
- Asks clarifying questions about the job or interview process
- Expresses willingness to continue or provides acknowledgments
- Requests to update previously provided information

A message is IRRELEVANT if it:
- Asks general knowledge questions (capitals, math problems, trivia, science facts)
- Requests unrelated tasks (writing stories, translating text, jokes)
- Contains off-topic conversation
- Asks about unrelated topics (weather, sports, entertainment)

Respond with ONLY one word: RELEVANT or IRRELEVANT`, message, contextLabel)
}
