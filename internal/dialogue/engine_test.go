package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/screening"
)

func TestFullScreeningConversation(t *testing.T) {
	ctx := context.Background()
	gen := &routedGenerator{}
	e := newScreeningEngine(gen)
	s := NewSession()

	if s.Stage() != StageInfoGathering || s.CurrentField() != candidate.FieldName {
		t.Fatalf("unexpected initial state: stage=%d field=%q", s.Stage(), s.CurrentField())
	}
	if len(s.MessageLog()) != 1 || s.MessageLog()[0].Role != RoleAssistant || s.MessageLog()[0].Content != Greeting() {
		t.Fatalf("expected greeting as first transcript entry, got %+v", s.MessageLog())
	}

	steps := []struct {
		message   string
		field     candidate.Field
		expect    string
		nextField candidate.Field
	}{
		{"John Doe", candidate.FieldName, "John Doe", candidate.FieldEmail},
		{"sure, it's john@example.com", candidate.FieldEmail, "john@example.com", candidate.FieldPhone},
		{"+1 (987) 654-3210", candidate.FieldPhone, "9876543210", candidate.FieldYearsExperience},
		{"about 5 years", candidate.FieldYearsExperience, "5", candidate.FieldDesiredPosition},
		{"backend developer", candidate.FieldDesiredPosition, "Backend Developer", candidate.FieldLocation},
		{"I live in New York", candidate.FieldLocation, "New York", candidate.FieldTechStack},
	}

	for _, step := range steps {
		reply, err := e.Handle(ctx, s, step.message)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", step.message, err)
		}
		if got, _ := s.Profile().Get(step.field); got != step.expect {
			t.Fatalf("%q: expected %s=%q, got %q", step.message, step.field, step.expect, got)
		}
		if s.CurrentField() != step.nextField {
			t.Fatalf("%q: expected current field %q, got %q", step.message, step.nextField, s.CurrentField())
		}
		if reply != FieldPrompt(step.nextField) {
			t.Fatalf("%q: expected prompt for %s, got %q", step.message, step.nextField, reply)
		}
		if s.ConfirmationPending() {
			t.Fatalf("%q: confirmation must wait for all fields", step.message)
		}
	}

	reply, err := e.Handle(ctx, s, "Go, PostgreSQL, Docker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.ConfirmationPending() || !s.Profile().Complete() {
		t.Fatal("expected confirmation once all fields are set")
	}
	if !strings.Contains(reply, "- Experience: 5 years") || !strings.Contains(reply, "- Tech Stack: Go, PostgreSQL, Docker") {
		t.Fatalf("expected summary in confirmation, got %q", reply)
	}

	reply, err = e.Handle(ctx, s, "change my email to new@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := s.Profile().Get(candidate.FieldEmail); got != "new@x.com" {
		t.Fatalf("expected updated email, got %q", got)
	}
	if !s.ConfirmationPending() || s.Stage() != StageInfoGathering {
		t.Fatal("update must keep the session in confirmation")
	}
	if !strings.HasPrefix(reply, "Updated Email to: new@x.com") {
		t.Fatalf("unexpected update reply: %q", reply)
	}

	reply, err = e.Handle(ctx, s, "no")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ConfirmationPending() || s.Stage() != StageTechnicalQuiz || s.QuestionCount() != 1 {
		t.Fatalf("expected quiz start, got stage=%d pending=%v count=%d", s.Stage(), s.ConfirmationPending(), s.QuestionCount())
	}
	if !strings.Contains(reply, "**Question 1/5:**") {
		t.Fatalf("expected question 1/5, got %q", reply)
	}
	if !strings.Contains(s.CurrentQuestion(), "using Go?") {
		t.Fatalf("expected fallback question about the first technology, got %q", s.CurrentQuestion())
	}

	for n := 1; n <= screening.TotalQuestions; n++ {
		reply, err = e.Handle(ctx, s, fmt.Sprintf("answer %d", n))
		if err != nil {
			t.Fatalf("answer %d: unexpected error: %v", n, err)
		}
		if n < screening.TotalQuestions {
			if !strings.HasPrefix(reply, "Thank you for your answer!") || !strings.Contains(reply, fmt.Sprintf("**Question %d/5:**", n+1)) {
				t.Fatalf("answer %d: unexpected reply %q", n, reply)
			}
			if s.Stage() != StageTechnicalQuiz {
				t.Fatalf("answer %d: quiz ended early", n)
			}
		}
	}

	if s.Stage() != StageComplete || s.CurrentQuestion() != "" {
		t.Fatalf("expected completed session, got stage=%d question=%q", s.Stage(), s.CurrentQuestion())
	}
	if !strings.Contains(reply, "Thank you, John Doe,") || !strings.Contains(reply, "**new@x.com**") {
		t.Fatalf("expected conclusion addressed to the candidate, got %q", reply)
	}
	if len(s.TechnicalQA()) != screening.TotalQuestions {
		t.Fatalf("expected %d answers, got %d", screening.TotalQuestions, len(s.TechnicalQA()))
	}
	for i, qa := range s.TechnicalQA() {
		if qa.QuestionNumber != i+1 || qa.Answer != fmt.Sprintf("answer %d", i+1) || qa.Question == "" {
			t.Fatalf("unexpected qa entry %d: %+v", i, qa)
		}
	}

	// greeting + 7 fields + update + "no" + 5 answers, two entries per turn
	if want := 1 + 2*(7+1+1+5); len(s.MessageLog()) != want {
		t.Fatalf("expected %d transcript entries, got %d", want, len(s.MessageLog()))
	}
	if Progress(s) != 100 {
		t.Fatalf("expected 100%% progress, got %d", Progress(s))
	}

	if _, err := e.Handle(ctx, s, "hello?"); !errors.Is(err, ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete, got %v", err)
	}
}

func TestQuizSurvivesBackendOutage(t *testing.T) {
	ctx := context.Background()
	e := newScreeningEngine(&routedGenerator{down: true})
	s := confirmingSession()

	if _, err := e.Handle(ctx, s, "looks good"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Stage() != StageTechnicalQuiz {
		t.Fatalf("expected quiz to start when update detection fails, stage=%d", s.Stage())
	}

	for n := 1; n <= screening.TotalQuestions; n++ {
		if s.CurrentQuestion() != screening.FallbackQuestion("Python, Pandas", n) {
			t.Fatalf("question %d: expected fallback, got %q", n, s.CurrentQuestion())
		}
		if _, err := e.Handle(ctx, s, "my answer"); err != nil {
			t.Fatalf("answer %d: unexpected error: %v", n, err)
		}
	}

	if s.Stage() != StageComplete || len(s.TechnicalQA()) != screening.TotalQuestions {
		t.Fatalf("expected exactly %d answers and completion, got stage=%d answers=%d", screening.TotalQuestions, s.Stage(), len(s.TechnicalQA()))
	}
}

func TestIrrelevantMessageKeepsState(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		session func() *Session
		tail    string
	}{
		{
			name:    "collecting",
			session: NewSession,
			tail:    "Let's continue - I need your name.",
		},
		{
			name:    "confirming",
			session: confirmingSession,
			tail:    "or say 'no' to continue.",
		},
		{
			name: "quiz",
			session: func() *Session {
				s := confirmingSession()
				s.stage = StageTechnicalQuiz
				s.confirmationPending = false
				s.questionCount = 3
				s.currentQuestion = "What is a goroutine?"
				return s
			},
			tail: "(Question 3/5).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newScreeningEngine(&routedGenerator{relevance: "IRRELEVANT"})
			s := tt.session()
			before := *s
			beforeProfile := s.Profile().Clone()

			reply, err := e.Handle(ctx, s, "What's the capital of France?")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasPrefix(reply, irrelevantOpenings[0]) || !strings.HasSuffix(reply, tt.tail) {
				t.Fatalf("unexpected redirect: %q", reply)
			}
			if s.Stage() != before.stage || s.CurrentField() != before.currentField ||
				s.ConfirmationPending() != before.confirmationPending || s.QuestionCount() != before.questionCount ||
				len(s.TechnicalQA()) != len(before.technicalQA) || s.Profile().CountSet() != beforeProfile.CountSet() {
				t.Fatal("irrelevant message must not change the session")
			}
			if got := s.MessageLog()[len(s.MessageLog())-2]; got.Role != RoleUser || got.Content != "What's the capital of France?" {
				t.Fatalf("expected user message in transcript, got %+v", got)
			}
		})
	}
}

func TestCollectingReprompts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		field  candidate.Field
		value  string
		found  bool
		expect string
	}{
		{
			name:   "invalid email",
			field:  candidate.FieldEmail,
			value:  "a@@b",
			found:  true,
			expect: "Please provide a valid email address (e.g., name@example.com).",
		},
		{
			name:   "short phone",
			field:  candidate.FieldPhone,
			value:  "12345",
			found:  true,
			expect: "Please provide a valid 10-digit phone number (e.g., 9876543210).",
		},
		{
			name:   "negative years",
			field:  candidate.FieldYearsExperience,
			value:  "-2",
			found:  true,
			expect: "Please provide the number of years of experience (e.g., 5, or 0 for fresh graduates).",
		},
		{
			name:   "nothing extracted",
			field:  candidate.FieldDesiredPosition,
			expect: "I couldn't quite get that. Could you please provide your desired position?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := map[candidate.Field]string{}
			if tt.found {
				values[tt.field] = tt.value
			}
			e := newStubEngine(values, true, screening.UpdateRequest{})

			s := NewSession()
			s.currentField = tt.field

			reply, err := e.Handle(ctx, s, "whatever")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reply != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, reply)
			}
			if s.CurrentField() != tt.field || s.Profile().IsSet(tt.field) {
				t.Fatal("rejected value must leave the session unchanged")
			}
		})
	}
}

func TestFieldOrderIsRespected(t *testing.T) {
	ctx := context.Background()
	e := newStubEngine(map[candidate.Field]string{candidate.FieldEmail: "a@b.com"}, true, screening.UpdateRequest{})
	s := NewSession()

	for i := 0; i < 3; i++ {
		if _, err := e.Handle(ctx, s, "a@b.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if s.CurrentField() != candidate.FieldName || s.Profile().IsSet(candidate.FieldEmail) {
		t.Fatalf("email must not be collected before name, field=%q", s.CurrentField())
	}
}

func TestConfirmationUpdates(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		update    screening.UpdateRequest
		expect    string
		stage     Stage
		phone     string
		confirmed bool
	}{
		{
			name:      "accepted",
			update:    screening.UpdateRequest{WantsUpdate: true, Field: candidate.FieldPhone, NewValue: "+91 91234 56789", HasValue: true},
			expect:    "Updated Phone to: 9123456789\n\nWould you like to update anything else, or shall we continue to the technical interview?",
			stage:     StageInfoGathering,
			phone:     "9123456789",
			confirmed: true,
		},
		{
			name:      "invalid value",
			update:    screening.UpdateRequest{WantsUpdate: true, Field: candidate.FieldPhone, NewValue: "12345", HasValue: true},
			expect:    "Invalid value for phone. Please provide a valid value or say 'no' to continue.",
			stage:     StageInfoGathering,
			phone:     "9876543210",
			confirmed: true,
		},
		{
			name:      "missing value",
			update:    screening.UpdateRequest{WantsUpdate: true, Field: candidate.FieldPhone},
			expect:    "Invalid value for phone. Please provide a valid value or say 'no' to continue.",
			stage:     StageInfoGathering,
			phone:     "9876543210",
			confirmed: true,
		},
		{
			name:   "update without field starts the quiz",
			update: screening.UpdateRequest{WantsUpdate: true},
			expect: "Perfect! Let's begin the technical assessment.\n\n**Question 1/5:**\n\n" + screening.FallbackQuestion("Python, Pandas", 1),
			stage:  StageTechnicalQuiz,
			phone:  "9876543210",
		},
		{
			name:   "no update starts the quiz",
			update: screening.UpdateRequest{},
			expect: "Perfect! Let's begin the technical assessment.\n\n**Question 1/5:**\n\n" + screening.FallbackQuestion("Python, Pandas", 1),
			stage:  StageTechnicalQuiz,
			phone:  "9876543210",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newStubEngine(nil, true, tt.update)
			s := confirmingSession()

			reply, err := e.Handle(ctx, s, "anything")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reply != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, reply)
			}
			if s.Stage() != tt.stage || s.ConfirmationPending() != tt.confirmed {
				t.Fatalf("unexpected state: stage=%d pending=%v", s.Stage(), s.ConfirmationPending())
			}
			if got, _ := s.Profile().Get(candidate.FieldPhone); got != tt.phone {
				t.Fatalf("expected phone %q, got %q", tt.phone, got)
			}
			if got, _ := s.Profile().Get(candidate.FieldEmail); got != "jane@example.com" {
				t.Fatalf("untargeted field changed: %q", got)
			}
		})
	}
}

func TestUpdateValueIsRefined(t *testing.T) {
	ctx := context.Background()
	e := newScreeningEngine(&routedGenerator{})
	s := confirmingSession()

	reply, err := e.Handle(ctx, s, "please fix my experience to 7 years")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := s.Profile().Get(candidate.FieldYearsExperience); got != "7" {
		t.Fatalf("expected experience 7, got %q", got)
	}
	if !strings.HasPrefix(reply, "Updated Years Experience to: 7") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandleRejectsBadInput(t *testing.T) {
	e := newStubEngine(nil, true, screening.UpdateRequest{})

	if _, err := e.Handle(context.Background(), nil, "hi"); !errors.Is(err, ErrNilSession) {
		t.Fatalf("expected ErrNilSession, got %v", err)
	}

	s := NewSession()
	if _, err := e.Handle(context.Background(), s, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if len(s.MessageLog()) != 1 {
		t.Fatalf("empty message must not reach the transcript, got %d entries", len(s.MessageLog()))
	}
}

func TestContextLabel(t *testing.T) {
	s := NewSession()
	if got := s.ContextLabel(); got != "Stage 1 - collecting name" {
		t.Fatalf("unexpected label %q", got)
	}

	s.confirmationPending = true
	if got := s.ContextLabel(); got != "Stage 1 - waiting for confirmation or updates" {
		t.Fatalf("unexpected label %q", got)
	}

	s.confirmationPending = false
	s.stage = StageTechnicalQuiz
	if got := s.ContextLabel(); got != "Stage 2" {
		t.Fatalf("unexpected label %q", got)
	}
}
