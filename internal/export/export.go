package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/talentscout/internal/dialogue"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

const timestampLayout = "20060102_150405"

var ErrUnknownFormat = errors.New("unknown export format")

// Writer persists an interview record into dir and returns the file path.
type Writer interface {
	Write(dir string, record dialogue.Record) (string, error)
}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownFormat)
	}
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatJSON:
		return JSONWriter{}, nil
	case FormatXLSX:
		return XLSXWriter{}, nil
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

// WriteAll writes the record once per format and returns the written paths.
// It stops at the first failure.
func WriteAll(dir string, record dialogue.Record, formats []Format) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		w, err := NewWriter(format)
		if err != nil {
			return paths, err
		}

		path, err := w.Write(dir, record)
		if err != nil {
			return paths, fmt.Errorf("writing %s export: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// FileName builds candidate_<Name_With_Underscores>_<YYYYmmdd_HHMMSS>.<ext>.
func FileName(record dialogue.Record, format Format) string {
	name := "unknown"
	if record.CandidateInfo.Name != nil && strings.TrimSpace(*record.CandidateInfo.Name) != "" {
		name = strings.TrimSpace(*record.CandidateInfo.Name)
	}

	name = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		}
		return r
	}, name)

	return fmt.Sprintf("candidate_%s_%s.%s", name, record.Timestamp.Format(timestampLayout), format)
}

func prepare(dir string, record dialogue.Record, format Format) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir %q: %w", dir, err)
	}
	return filepath.Join(dir, FileName(record, format)), nil
}
