package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/strlens/strlens/internal/config"
	"github.com/strlens/strlens/internal/errors"
	"github.com/strlens/strlens/internal/store"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: ~/.strlens/exports/strings-<timestamp>.jsonl
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the first line of a JSONL export file.
type ExportHeader struct {
	StrlensExport bool   `json:"_strlens_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
}

// ExportRecord is one exported string. Only the value matters for a later
// import — properties are re-derived — but the full entry is written so an
// export is a readable snapshot on its own.
type ExportRecord struct {
	Entry store.Entry `json:"entry"`
}

// Export writes all stored strings to a JSONL file in insertion order.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = defaultExportPath(now)
		if err != nil {
			return nil, err
		}
	}

	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Write to a temp file first, then atomic rename, so a failure mid-write
	// never clobbers an existing export.
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	enc := json.NewEncoder(file)

	header := ExportHeader{
		StrlensExport: true,
		SchemaVersion: "1.0",
		ExportedAt:    exportedAt,
	}
	if err := enc.Encode(header); err != nil {
		return nil, errors.NewInternal(err)
	}

	entries, err := store.List(ctx, database)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if err := enc.Encode(ExportRecord{Entry: e}); err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink destination
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	if err := os.Rename(tempPath, exportPath); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Count:      len(entries),
		ExportedAt: exportedAt,
	}, nil
}

// defaultExportPath generates the default export path:
// ~/.strlens/exports/strings-<timestamp>.jsonl
func defaultExportPath(now time.Time) (string, error) {
	exportsDir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("strings-%s.jsonl", now.Format("2006-01-02T150405"))
	return filepath.Join(exportsDir, filename), nil
}
