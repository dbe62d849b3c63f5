// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/devotional/pkg/types"
)

func strPtr(s string) *string { return &s }

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(Path(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func sampleCollection() types.Collection {
	return types.Collection{
		{
			Date:               "March 16, 2024",
			ScriptureReference: strPtr("Psalm 23:1"),
			Scripture:          strPtr("The Lord is my shepherd; I shall not want."),
			Content:            "The shepherd knows each sheep by name and leads them to still waters.",
		},
		{
			Date:               "March 15, 2024",
			ScriptureReference: strPtr("Exodus 16:4"),
			Content:            "Manna in the wilderness teaches daily dependence on God's provision.",
		},
		{
			Date:    "March 14, 2024",
			Content: "Patience in the wilderness is learned one day at a time, 100% of the way.",
		},
	}
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "index", "devotionals.db"), Path("data"))
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := Path(filepath.Join(t.TempDir(), "nested"))
	idx, err := Open(path)
	require.NoError(t, err)
	defer idx.Close()

	assert.FileExists(t, path)
}

func TestSync_ReplacesRows(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Sync(ctx, sampleCollection()))
	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, idx.Sync(ctx, sampleCollection()[:1]))
	n, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSearch_MatchesContentNewestFirst(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.Sync(ctx, sampleCollection()))

	hits, err := idx.Search(ctx, "wilderness", 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "March 15, 2024", hits[0].Date)
	assert.Equal(t, 1, hits[0].Position)
	assert.Equal(t, "Exodus 16:4", hits[0].ScriptureReference)
	assert.Contains(t, hits[0].Excerpt, "wilderness")
	assert.Equal(t, "March 14, 2024", hits[1].Date)
	assert.Empty(t, hits[1].ScriptureReference)
}

func TestSearch_MatchesScriptureAndReference(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.Sync(ctx, sampleCollection()))

	hits, err := idx.Search(ctx, "shall not want", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "March 16, 2024", hits[0].Date)

	hits, err = idx.Search(ctx, "exodus", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "March 15, 2024", hits[0].Date)
}

func TestSearch_AllWordsRequired(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.Sync(ctx, sampleCollection()))

	hits, err := idx.Search(ctx, "wilderness manna", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "March 15, 2024", hits[0].Date)
}

func TestSearch_Limit(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.Sync(ctx, sampleCollection()))

	hits, err := idx.Search(ctx, "the", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearch_LikeWildcardsAreLiteral(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.Sync(ctx, sampleCollection()))

	hits, err := idx.Search(ctx, "100%", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "March 14, 2024", hits[0].Date)

	hits, err = idx.Search(ctx, "%", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearch_EmptyQuery(t *testing.T) {
	idx := openTestIndex(t)
	_, err := idx.Search(context.Background(), "   ", 0)
	assert.Error(t, err)
}

func TestSearch_NoMatches(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()
	require.NoError(t, idx.Sync(ctx, sampleCollection()))

	hits, err := idx.Search(ctx, "zebra", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestExcerpt(t *testing.T) {
	short := "Grace upon grace."
	assert.Equal(t, short, excerpt(short, "grace"))

	long := strings.Repeat("a ", 60) + "needle" + strings.Repeat(" b", 60)
	got := excerpt(long, "needle")
	assert.True(t, strings.HasPrefix(got, "…"))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Contains(t, got, "needle")

	assert.Equal(t, "one two", excerpt("one\n\ntwo", "missing"))
}

func TestExcerpt_CaseFoldChangesByteLength(t *testing.T) {
	// U+023A is two bytes; its lowercase form U+2C65 is three.
	content := strings.Repeat("Ⱥ", 60) + " faith"

	got := excerpt(content, "faith")

	assert.True(t, strings.HasPrefix(got, "…"))
	assert.True(t, strings.HasSuffix(got, "faith"))
	assert.True(t, utf8.ValidString(got))

	assert.Contains(t, excerpt("Grace and ȺMEN", "ⱥmen"), "ȺMEN")
}

func TestIndexFold(t *testing.T) {
	hay := []rune("Let us PRAY today")
	assert.Equal(t, 7, indexFold(hay, []rune("pray")))
	assert.Equal(t, -1, indexFold(hay, []rune("praise")))
	assert.Equal(t, -1, indexFold(hay, nil))
	assert.Equal(t, -1, indexFold([]rune("ab"), []rune("abc")))
}
