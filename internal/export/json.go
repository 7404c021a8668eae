package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spigell/talentscout/internal/dialogue"
)

type JSONWriter struct{}

func (JSONWriter) Write(dir string, record dialogue.Record) (string, error) {
	path, err := prepare(dir, record, FormatJSON)
	if err != nil {
		return "", err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}

	if err := encodeJSON(file, record); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// encodeJSON writes the record and closes w. A failed close is reported
// because buffered data may not have reached disk.
func encodeJSON(w io.WriteCloser, record dialogue.Record) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing: %w", cerr)
		}
	}()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}
