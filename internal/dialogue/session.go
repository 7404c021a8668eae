package dialogue

import (
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/spigell/talentscout/internal/candidate"
)

// Stage is the top-level phase of a screening session.
type Stage int

const (
	StageInfoGathering Stage = 1
	StageTechnicalQuiz Stage = 2
	StageComplete      Stage = 3
)

func (s Stage) String() string {
	switch s {
	case StageInfoGathering:
		return "Info Gathering"
	case StageTechnicalQuiz:
		return "Technical Interview"
	case StageComplete:
		return "Completed"
	default:
		return "Unknown"
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// QA is an answered technical question.
type QA struct {
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
}

// Session is the state of one screening conversation. Only Engine mutates
// it; other packages read it through the accessors, which return copies.
type Session struct {
	id    string
	stage Stage

	// currentField and confirmationPending are meaningful in stage 1 only.
	currentField        candidate.Field
	confirmationPending bool

	// questionCount is the 1-based number of the question being answered.
	questionCount   int
	currentQuestion string

	technicalQA []QA
	messageLog  []Message
	profile     candidate.Profile
}

// NewSession starts a session at the first field with the greeting already in
// the transcript.
func NewSession() *Session {
	s := &Session{
		id:           uuid.NewString(),
		stage:        StageInfoGathering,
		currentField: candidate.FieldOrder[0],
	}
	s.appendMessage(RoleAssistant, Greeting())
	return s
}

func (s *Session) ID() string { return s.id }
func (s *Session) Stage() Stage { return s.stage }
func (s *Session) CurrentField() candidate.Field { return s.currentField }
func (s *Session) ConfirmationPending() bool { return s.confirmationPending }
func (s *Session) QuestionCount() int { return s.questionCount }
func (s *Session) CurrentQuestion() string { return s.currentQuestion }

// TechnicalQA returns a copy of the answered questions.
func (s *Session) TechnicalQA() []QA { return slices.Clone(s.technicalQA) }

// MessageLog returns a copy of the transcript.
func (s *Session) MessageLog() []Message { return slices.Clone(s.messageLog) }

// Profile returns a snapshot of the collected fields. Saving into it does
// not touch the session.
func (s *Session) Profile() *candidate.Profile {
	p := s.profile.Clone()
	return &p
}

func (s *Session) appendMessage(role Role, content string) {
	s.messageLog = append(s.messageLog, Message{Role: role, Content: content})
}

// ContextLabel describes where the conversation is, for the relevance check.
func (s *Session) ContextLabel() string {
	label := "Stage " + strconv.Itoa(int(s.stage))
	switch {
	case s.stage == StageInfoGathering && !s.confirmationPending:
		label += " - collecting " + s.currentField.String()
	case s.confirmationPending:
		label += " - waiting for confirmation or updates"
	}
	return label
}
