package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/strlens/strlens/internal/config"
	"github.com/strlens/strlens/internal/errors"
)

func TestImport_RoundTrip(t *testing.T) {
	database := setupDB(t)
	dir := t.TempDir()
	cfg := exportCfg(dir)
	ctx := context.Background()

	mustStore(t, database, cfg, "alpha")
	mustStore(t, database, cfg, "beta beta")

	path := filepath.Join(dir, "snapshot.jsonl")
	if _, err := Export(ctx, database, cfg, ExportInput{Path: path}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Import into a fresh store
	fresh := setupDB(t)
	out, err := Import(ctx, fresh, cfg, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 2 {
		t.Errorf("Imported = %d, want 2", out.Imported)
	}
	if len(out.Errors) != 0 {
		t.Errorf("Errors = %v, want none", out.Errors)
	}

	fetched, err := Fetch(ctx, fresh, FetchInput{Identifier: "beta beta"})
	if err != nil {
		t.Fatalf("Fetch after import failed: %v", err)
	}
	if fetched.Entry.Properties.WordCount != 2 {
		t.Errorf("WordCount = %d, want 2 (re-derived on import)", fetched.Entry.Properties.WordCount)
	}
}

func TestImport_RederivesProperties(t *testing.T) {
	database := setupDB(t)
	dir := t.TempDir()
	cfg := exportCfg(dir)
	ctx := context.Background()

	// A file with a lying id and properties: only the value is trusted
	path := filepath.Join(dir, "tampered.jsonl")
	content := `{"_strlens_export":true,"schema_version":"1.0","exported_at":1}
{"entry":{"id":"bogus","value":"racecar","properties":{"length":999,"is_palindrome":false,"unique_characters":0,"word_count":7,"content_hash":"bogus","character_frequency":{}},"created_at":1}}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}

	out, err := Import(ctx, database, cfg, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 1 {
		t.Fatalf("Imported = %d, want 1", out.Imported)
	}

	fetched, err := Fetch(ctx, database, FetchInput{Identifier: "racecar"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Entry.ID == "bogus" {
		t.Error("id from the file must not be trusted")
	}
	if fetched.Entry.Properties.Length != 7 {
		t.Errorf("Length = %d, want 7 (re-derived)", fetched.Entry.Properties.Length)
	}
	if !fetched.Entry.Properties.IsPalindrome {
		t.Error("IsPalindrome should be re-derived as true")
	}
}

func TestImport_MalformedLinesReported(t *testing.T) {
	database := setupDB(t)
	dir := t.TempDir()
	cfg := exportCfg(dir)

	path := filepath.Join(dir, "partial.jsonl")
	content := `{"_strlens_export":true,"schema_version":"1.0","exported_at":1}
{"entry":{"value":"good line"}}
this is not json
{"entry":{"value":"another good line"}}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}

	out, err := Import(context.Background(), database, cfg, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 2 {
		t.Errorf("Imported = %d, want 2 (bad line must not abort the run)", out.Imported)
	}
	if len(out.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(out.Errors))
	}
	if out.Errors[0].Line != 3 {
		t.Errorf("Errors[0].Line = %d, want 3", out.Errors[0].Line)
	}
	if out.Errors[0].Code != "PARSE_ERROR" {
		t.Errorf("Errors[0].Code = %q, want PARSE_ERROR", out.Errors[0].Code)
	}
}

func TestImport_MissingHeader(t *testing.T) {
	database := setupDB(t)
	dir := t.TempDir()
	cfg := exportCfg(dir)

	path := filepath.Join(dir, "headerless.jsonl")
	if err := os.WriteFile(path, []byte(`{"entry":{"value":"x"}}`+"\n"), 0600); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}

	_, err := Import(context.Background(), database, cfg, ImportInput{Path: path})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Import without header should return ErrInvalidRequest, got: %v", err)
	}
}

func TestImport_FileNotFound(t *testing.T) {
	database := setupDB(t)
	dir := t.TempDir()
	cfg := exportCfg(dir)

	_, err := Import(context.Background(), database, cfg, ImportInput{
		Path: filepath.Join(dir, "missing.jsonl"),
	})
	if !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("Import should return ErrFileNotFound, got: %v", err)
	}
}

func TestImport_MissingPath(t *testing.T) {
	database := setupDB(t)

	_, err := Import(context.Background(), database, config.DefaultConfig(), ImportInput{})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Import should return ErrInvalidRequest, got: %v", err)
	}
}
