package ops

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/strlens/strlens/internal/analysis"
	"github.com/strlens/strlens/internal/config"
	"github.com/strlens/strlens/internal/errors"
	"github.com/strlens/strlens/internal/store"
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string // required
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import restores strings from a JSONL export file. Properties are always
// re-derived from the value — the file's recorded properties and ids are not
// trusted — so an import can never create an entry whose id disagrees with
// its content hash. Existing entries with the same content are replaced.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := os.Open(input.Path)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	// Header line
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.NewInternal(err)
		}
		return nil, errors.NewInvalidRequest("import file is empty")
	}
	var header ExportHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil || !header.StrlensExport {
		return nil, errors.NewInvalidRequest("file is not a strlens export (missing header line)")
	}

	output := &ImportOutput{Errors: []ImportError{}}
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record ExportRecord
		if err := json.Unmarshal(line, &record); err != nil {
			output.Errors = append(output.Errors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		props := analysis.Analyze(record.Entry.Value)
		entry := store.Entry{
			ID:         props.ContentHash,
			Value:      record.Entry.Value,
			Properties: props,
			CreatedAt:  time.Now().Unix(),
		}
		if err := store.Put(ctx, database, &entry); err != nil {
			output.Errors = append(output.Errors, ImportError{
				Line:    lineNum,
				Code:    "STORE_ERROR",
				Message: err.Error(),
			})
			continue
		}
		output.Imported++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return output, nil
}
