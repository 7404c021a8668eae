package dialogue

import (
	"fmt"
	"strings"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/screening"
)

const (
	infoGatheringWeight = 40
	quizWeight          = 50
)

// Progress returns the interview completion as an integer percentage.
func Progress(s *Session) int {
	switch {
	case s.stage == StageInfoGathering:
		return infoGatheringWeight * s.profile.CountSet() / len(candidate.FieldOrder)
	case s.stage == StageTechnicalQuiz:
		return infoGatheringWeight + quizWeight*len(s.technicalQA)/screening.TotalQuestions
	case s.stage >= StageComplete:
		return 100
	default:
		return 0
	}
}

var infoLabels = map[candidate.Field]string{
	candidate.FieldName:            "Name",
	candidate.FieldEmail:           "Email",
	candidate.FieldPhone:           "Phone",
	candidate.FieldYearsExperience: "Experience",
	candidate.FieldDesiredPosition: "Position",
	candidate.FieldLocation:        "Location",
	candidate.FieldTechStack:       "Tech Stack",
}

// CandidateInfo renders the collected fields, one per line.
func CandidateInfo(p *candidate.Profile) string {
	if p.CountSet() == 0 {
		return "Information will appear here as you provide it during the interview."
	}

	lines := make([]string, 0, len(candidate.FieldOrder))
	for _, f := range candidate.FieldOrder {
		value, ok := p.Get(f)
		switch {
		case !ok:
			value = "Not provided yet"
		case f == candidate.FieldYearsExperience:
			value += " years"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", infoLabels[f], value))
	}
	return strings.Join(lines, "\n")
}

// StageOverview lists every stage marked as done, current or pending.
func StageOverview(s *Session) string {
	stages := []Stage{StageInfoGathering, StageTechnicalQuiz, StageComplete}

	lines := make([]string, 0, len(stages))
	for _, st := range stages {
		marker := "[ ]"
		switch {
		case st < s.stage:
			marker = "[x]"
		case st == s.stage:
			marker = "[>]"
		}
		lines = append(lines, fmt.Sprintf("%s %s", marker, st))
	}
	return strings.Join(lines, "\n")
}
