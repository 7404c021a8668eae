package dialogue

import (
	"errors"
	"slices"
	"time"

	"github.com/spigell/talentscout/internal/candidate"
)

var ErrNotComplete = errors.New("interview is not complete yet")

// Record is the export snapshot handed to storage collaborators.
type Record struct {
	Timestamp               time.Time         `json:"timestamp"`
	CandidateInfo           candidate.Profile `json:"candidate_info"`
	TechnicalInterview      []QA              `json:"technical_interview"`
	InterviewStageCompleted Stage             `json:"interview_stage_completed"`
}

// Export snapshots a finished session. The record shares nothing with s.
func Export(s *Session, now time.Time) (Record, error) {
	if s == nil {
		return Record{}, ErrNilSession
	}
	if s.stage < StageComplete {
		return Record{}, ErrNotComplete
	}

	return Record{
		Timestamp:               now,
		CandidateInfo:           s.profile.Clone(),
		TechnicalInterview:      slices.Clone(s.technicalQA),
		InterviewStageCompleted: s.stage,
	}, nil
}
