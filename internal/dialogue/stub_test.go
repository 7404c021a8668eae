package dialogue

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/screening"
)

var errBackendDown = errors.New("backend unavailable")

// routedGenerator answers each kind of screening prompt with a canned reply.
// Empty replies fall back to sensible defaults; down fails every call.
type routedGenerator struct {
	relevance string
	update    string
	extract   string
	question  string
	down      bool
	calls     int
}

func (g *routedGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	g.calls++
	if g.down {
		return "", errBackendDown
	}

	switch {
	case strings.Contains(prompt, "recruitment chatbot filter"):
		if g.relevance == "" {
			return "RELEVANT", nil
		}
		return g.relevance, nil
	case strings.Contains(prompt, "wants to UPDATE"):
		if g.update == "" {
			return `{"wants_update": false, "field": null, "new_value": null}`, nil
		}
		return g.update, nil
	case strings.Contains(prompt, "technical interviewer"):
		if g.question == "" {
			return "", errBackendDown
		}
		return g.question, nil
	default:
		if g.extract == "" {
			return `{"value": null}`, nil
		}
		return g.extract, nil
	}
}

func (g *routedGenerator) Model() string { return "routed-stub" }

func newScreeningEngine(gen *routedGenerator) *Engine {
	log := zap.NewNop()
	e := NewEngine(Deps{
		Extractor: screening.NewExtractor(gen, log, 0),
		Relevance: screening.NewRelevanceFilter(gen, log, 0),
		Updates:   screening.NewUpdateDetector(gen, log, 0),
		Questions: screening.NewQuestionGenerator(gen, log, 0),
		Logger:    log,
	})
	e.pick = func(int) int { return 0 }
	return e
}

type stubExtractor struct {
	values map[candidate.Field]string
}

func (s stubExtractor) Extract(_ context.Context, _ string, field candidate.Field) (string, bool) {
	v, ok := s.values[field]
	return v, ok
}

func (s stubExtractor) Refine(value string, _ candidate.Field) string { return value }

type stubRelevance bool

func (s stubRelevance) IsRelevant(context.Context, string, string) bool { return bool(s) }

type stubUpdates screening.UpdateRequest

func (s stubUpdates) Detect(context.Context, string) screening.UpdateRequest {
	return screening.UpdateRequest(s)
}

type stubQuestions struct{}

func (stubQuestions) Generate(_ context.Context, techStack string, number int) string {
	return screening.FallbackQuestion(techStack, number)
}

func newStubEngine(extract map[candidate.Field]string, relevant bool, update screening.UpdateRequest) *Engine {
	e := NewEngine(Deps{
		Extractor: stubExtractor{values: extract},
		Relevance: stubRelevance(relevant),
		Updates:   stubUpdates(update),
		Questions: stubQuestions{},
	})
	e.pick = func(int) int { return 1 }
	return e
}

var completeProfile = map[candidate.Field]string{
	candidate.FieldName:            "Jane Roe",
	candidate.FieldEmail:           "jane@example.com",
	candidate.FieldPhone:           "9876543210",
	candidate.FieldYearsExperience: "4",
	candidate.FieldDesiredPosition: "Data Scientist",
	candidate.FieldLocation:        "Berlin",
	candidate.FieldTechStack:       "Python, Pandas",
}

// confirmingSession returns a session that has every field collected and
// waits for confirmation.
func confirmingSession() *Session {
	s := NewSession()
	for _, f := range candidate.FieldOrder {
		if _, err := s.profile.ValidateAndSave(f, completeProfile[f]); err != nil {
			panic(err)
		}
	}
	s.currentField = candidate.FieldTechStack
	s.confirmationPending = true
	return s
}
