package screening

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
)

// TotalQuestions is the fixed length of the technical quiz.
const TotalQuestions = 5

// QuestionGenerator asks the model for one question per quiz step and falls
// back to a fixed bank so the quiz always has TotalQuestions questions.
type QuestionGenerator struct {
	backend
}

func NewQuestionGenerator(generator ai.Generator, logger *zap.Logger, maxLogLength int) *QuestionGenerator {
	return &QuestionGenerator{backend: newBackend(generator, logger, "question_generator", maxLogLength)}
}

// Generate returns question number (1-based, clamped to 1..TotalQuestions).
func (g *QuestionGenerator) Generate(ctx context.Context, techStack string, number int) string {
	number = clampQuestionNumber(number)

	raw, err := g.complete(ctx, buildQuestionPrompt(techStack, number))
	if err != nil {
		g.logger.Warn("question generation failed, using fallback question",
			zap.Int("question_number", number),
			zap.Error(err),
		)
		return FallbackQuestion(techStack, number)
	}

	question := strings.TrimSpace(raw)
	if question == "" {
		return FallbackQuestion(techStack, number)
	}
	return question
}

// FallbackQuestion returns the number-th entry of the built-in question bank.
func FallbackQuestion(techStack string, number int) string {
	number = clampQuestionNumber(number)

	primary := strings.TrimSpace(strings.Split(techStack, ",")[0])
	if primary == "" {
		primary = "your primary technology"
	}

	bank := [TotalQuestions]string{
		fmt.Sprintf("Can you explain a challenging problem you've solved using %s?", primary),
		"What are the key principles you follow when designing scalable applications?",
		"How do you approach debugging complex issues in production?",
		"Describe your experience with version control and collaboration workflows.",
		"What testing strategies do you implement in your projects?",
	}
	return bank[number-1]
}

func clampQuestionNumber(n int) int {
	if n < 1 {
		return 1
	}
	if n > TotalQuestions {
		return TotalQuestions
	}
	return n
}

func buildQuestionPrompt(techStack string, number int) string {
	return fmt.Sprintf(`You are a technical interviewer. Generate a single, clear technical interview question for a candidate.

Candidate's Tech Stack: %s
Question Number: %d of %d

Generate a question that:
- Tests practical knowledge of their stated technologies
- Is appropriate for their tech stack
- Varies in difficulty (mix of fundamental and advanced topics)
- Is specific and clear

Return ONLY the question, no additional text or numbering.`, techStack, number, TotalQuestions)
}
