package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/talentscout/internal/candidate"
	"github.com/spigell/talentscout/internal/dialogue"
)

const (
	candidateSheet = "Candidate"
	interviewSheet = "Technical Interview"
)

// XLSXWriter renders the record as a workbook with a candidate sheet and a
// technical interview sheet.
type XLSXWriter struct{}

func (XLSXWriter) Write(dir string, record dialogue.Record) (string, error) {
	path, err := prepare(dir, record, FormatXLSX)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", candidateSheet); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(interviewSheet); err != nil {
		return "", err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return "", err
	}

	if err := writeCandidateSheet(f, record, headerStyle); err != nil {
		return "", fmt.Errorf("candidate sheet: %w", err)
	}
	if err := writeInterviewSheet(f, record, headerStyle); err != nil {
		return "", fmt.Errorf("interview sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}

func writeCandidateSheet(f *excelize.File, record dialogue.Record, headerStyle int) error {
	rows := [][]any{{"Field", "Value"}}
	for _, field := range candidate.FieldOrder {
		value, _ := record.CandidateInfo.Get(field)
		rows = append(rows, []any{field.Title(), value})
	}
	rows = append(rows,
		[]any{"Timestamp", record.Timestamp.Format("2006-01-02 15:04:05")},
		[]any{"Interview Stage Completed", int(record.InterviewStageCompleted)},
	)

	if err := setRows(f, candidateSheet, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(candidateSheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(candidateSheet, "B", "B", 50); err != nil {
		return err
	}
	return f.SetCellStyle(candidateSheet, "A1", "B1", headerStyle)
}

func writeInterviewSheet(f *excelize.File, record dialogue.Record, headerStyle int) error {
	rows := [][]any{{"#", "Question", "Answer"}}
	for _, qa := range record.TechnicalInterview {
		rows = append(rows, []any{qa.QuestionNumber, qa.Question, qa.Answer})
	}

	if err := setRows(f, interviewSheet, rows); err != nil {
		return err
	}
	if err := f.SetColWidth(interviewSheet, "B", "C", 70); err != nil {
		return err
	}
	return f.SetCellStyle(interviewSheet, "A1", "C1", headerStyle)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
