package ops

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strlens/strlens/internal/config"
	"github.com/strlens/strlens/internal/errors"
	"github.com/strlens/strlens/internal/store"
)

// TestFullWorkflow exercises the complete lifecycle:
// store → fetch → list → query → export → delete → import → fetch
func TestFullWorkflow(t *testing.T) {
	dir := t.TempDir()
	database, err := store.Init(t.TempDir())
	require.NoError(t, err)
	defer database.Close()

	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{dir}
	ctx := context.Background()

	// 1. Store a few strings
	racecar, err := Store(ctx, database, cfg, StoreInput{Value: "racecar"})
	require.NoError(t, err)
	require.True(t, racecar.Entry.Properties.IsPalindrome)
	require.False(t, racecar.Replaced)

	_, err = Store(ctx, database, cfg, StoreInput{Value: "hello world"})
	require.NoError(t, err)

	// 2. Resubmitting replaces rather than erroring
	again, err := Store(ctx, database, cfg, StoreInput{Value: "racecar"})
	require.NoError(t, err)
	require.True(t, again.Replaced)
	require.Equal(t, racecar.Entry.ID, again.Entry.ID)

	// 3. Fetch by hash and by value
	fetched, err := Fetch(ctx, database, FetchInput{Identifier: racecar.Entry.ID})
	require.NoError(t, err)
	require.Equal(t, "racecar", fetched.Entry.Value)

	fetched, err = Fetch(ctx, database, FetchInput{Identifier: "hello world"})
	require.NoError(t, err)
	require.Equal(t, 2, fetched.Entry.Properties.WordCount)

	// 4. List keeps insertion order across the replace
	listOut, err := List(ctx, database, ListInput{})
	require.NoError(t, err)
	require.Len(t, listOut.Items, 2)
	require.Equal(t, "racecar", listOut.Items[0].Value)

	// 5. Natural-language query
	queryOut, err := Query(ctx, database, QueryInput{Query: "all single word palindromic strings"})
	require.NoError(t, err)
	require.Len(t, queryOut.Items, 1)
	require.Equal(t, "racecar", queryOut.Items[0].Value)

	// 6. Export a snapshot
	exportPath := filepath.Join(dir, "workflow.jsonl")
	exportOut, err := Export(ctx, database, cfg, ExportInput{Path: exportPath})
	require.NoError(t, err)
	require.Equal(t, 2, exportOut.Count)

	// 7. Delete one entry
	_, err = Delete(ctx, database, DeleteInput{ID: racecar.Entry.ID})
	require.NoError(t, err)

	_, err = Fetch(ctx, database, FetchInput{Identifier: racecar.Entry.ID})
	require.True(t, errors.Is(err, errors.ErrNotFound))

	// 8. Import restores it
	importOut, err := Import(ctx, database, cfg, ImportInput{Path: exportPath})
	require.NoError(t, err)
	require.Equal(t, 2, importOut.Imported)
	require.Empty(t, importOut.Errors)

	fetched, err = Fetch(ctx, database, FetchInput{Identifier: racecar.Entry.ID})
	require.NoError(t, err)
	require.Equal(t, "racecar", fetched.Entry.Value)
}
