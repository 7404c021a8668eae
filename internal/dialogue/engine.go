package dialogue

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/screening"
)

var (
	ErrSessionComplete = errors.New("screening session is complete")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrNilSession      = errors.New("session is required")
)

type FieldExtractor interface {
	Extract(ctx context.Context, message string, field candidate.Field) (string, bool)
	Refine(value string, field candidate.Field) string
}

type RelevanceChecker interface {
	IsRelevant(ctx context.Context, message, contextLabel string) bool
}

type UpdateDetector interface {
	Detect(ctx context.Context, message string) screening.UpdateRequest
}

type QuestionSource interface {
	Generate(ctx context.Context, techStack string, number int) string
}

// Deps are the components an Engine sequences on every turn.
type Deps struct {
	Extractor FieldExtractor
	Relevance RelevanceChecker
	Updates   UpdateDetector
	Questions QuestionSource
	Logger    *zap.Logger
}

// Engine drives a Session through info gathering, confirmation and the
// technical quiz. A session must not be handled by two goroutines at once.
type Engine struct {
	extractor FieldExtractor
	relevance RelevanceChecker
	updates   UpdateDetector
	questions QuestionSource
	logger    *zap.Logger

	// pick chooses an index in [0, n) for the irrelevant reply opening.
	pick func(n int) int
}

func NewEngine(deps Deps) *Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		extractor: deps.Extractor,
		relevance: deps.Relevance,
		updates:   deps.Updates,
		questions: deps.Questions,
		logger:    log,
		pick:      rand.IntN,
	}
}

// Handle processes one user message and returns the assistant reply. Both
// messages are appended to the session transcript.
func (e *Engine) Handle(ctx context.Context, s *Session, message string) (string, error) {
	if s == nil {
		return "", ErrNilSession
	}
	if s.stage >= StageComplete {
		return "", ErrSessionComplete
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	log := logger.WithFields(e.logger, logger.DialogueFields(s.id, int(s.stage), string(s.currentField))...)
	s.appendMessage(RoleUser, message)

	var reply string
	switch {
	case !e.relevance.IsRelevant(ctx, message, s.ContextLabel()):
		log.Info("message is off-topic, redirecting")
		reply = irrelevantReply(s, irrelevantOpenings[e.pick(len(irrelevantOpenings))])
	case s.stage == StageInfoGathering && s.confirmationPending:
		reply = e.handleConfirmation(ctx, s, message, log)
	case s.stage == StageInfoGathering:
		reply = e.handleField(ctx, s, message, log)
	default:
		reply = e.handleAnswer(ctx, s, message, log)
	}

	s.appendMessage(RoleAssistant, reply)
	return reply, nil
}

func (e *Engine) handleField(ctx context.Context, s *Session, message string, log *zap.Logger) string {
	field := s.currentField

	value, ok := e.extractor.Extract(ctx, message, field)
	if !ok {
		log.Info("no value found in message")
		return repromptFor(field)
	}

	if _, err := s.profile.ValidateAndSave(field, value); err != nil {
		log.Info("value rejected", zap.Error(err))
		return repromptFor(field)
	}

	log.Info("field collected")

	next, ok := s.profile.NextUnset()
	if ok {
		s.currentField = next
		return FieldPrompt(next)
	}

	s.confirmationPending = true
	log.Info("all fields collected, waiting for confirmation")
	return confirmationPrompt(&s.profile)
}

func (e *Engine) handleConfirmation(ctx context.Context, s *Session, message string, log *zap.Logger) string {
	req := e.updates.Detect(ctx, message)
	if !req.WantsUpdate || !req.HasField() {
		return e.startQuiz(ctx, s, log)
	}

	log = log.With(zap.String(logger.FieldField, req.Field.String()))

	raw := req.NewValue
	if req.HasValue {
		raw = e.extractor.Refine(raw, req.Field)
	}

	if _, err := s.profile.ValidateAndSave(req.Field, raw); err != nil {
		log.Info("update rejected", zap.Error(err))
		return invalidUpdateReply(req.Field)
	}

	value, _ := s.profile.Get(req.Field)
	log.Info("field updated")
	return updatedReply(req.Field, value)
}

func (e *Engine) startQuiz(ctx context.Context, s *Session, log *zap.Logger) string {
	s.stage = StageTechnicalQuiz
	s.confirmationPending = false
	s.currentField = ""
	s.questionCount = 1
	s.currentQuestion = e.nextQuestion(ctx, s)

	log.Info("starting technical interview")
	return "Perfect! Let's begin the technical assessment.\n\n" + questionBlock(s.questionCount, s.currentQuestion)
}

func (e *Engine) handleAnswer(ctx context.Context, s *Session, message string, log *zap.Logger) string {
	s.technicalQA = append(s.technicalQA, QA{
		QuestionNumber: s.questionCount,
		Question:       s.currentQuestion,
		Answer:         message,
	})
	log.Info("answer recorded", zap.Int("question_number", s.questionCount))

	if s.questionCount >= screening.TotalQuestions {
		s.stage = StageComplete
		s.currentQuestion = ""
		log.Info("interview complete")
		return conclusion(&s.profile)
	}

	s.questionCount++
	s.currentQuestion = e.nextQuestion(ctx, s)
	return "Thank you for your answer!\n\n" + questionBlock(s.questionCount, s.currentQuestion)
}

func (e *Engine) nextQuestion(ctx context.Context, s *Session) string {
	techStack, _ := s.profile.Get(candidate.FieldTechStack)
	return e.questions.Generate(ctx, techStack, s.questionCount)
}
