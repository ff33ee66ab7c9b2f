package adjudicate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structcost/takeoff/constants"
	"github.com/structcost/takeoff/internal/common"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "payloads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func samplePayload(docID string) *ParsedPayload {
	b := NewBuilder(docID, nil)
	b.Add(constants.SourceTextract,
		Candidate{Field: constants.FieldDimValue, Raw: `12"`, Page: 1, Confidence: 0.9},
		Candidate{Field: constants.FieldMaterial, Raw: "A36 STEEL", Page: 2, Confidence: 0.8},
	)
	b.AddNote("single adapter run")
	return b.Finalize()
}

func TestSQLitePutGetRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	want := samplePayload("doc-1")
	require.NoError(t, store.Put(ctx, want))

	got, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLitePutOverwritesByDocID(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, samplePayload("doc-1")))

	b := NewBuilder("doc-1", nil)
	b.Add(constants.SourceDonut,
		Candidate{Field: constants.FieldNote, Raw: "revised", Page: 1, Confidence: 0.4})
	updated := b.Finalize()
	require.NoError(t, store.Put(ctx, updated))

	got, err := store.Get(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got.Candidates, 1)
	assert.Equal(t, "revised", got.Candidates[0].Raw)
}

func TestSQLiteGetUnknownDocID(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PAYLOAD_NOT_FOUND", appErr.Code)
}

func TestSQLitePutRejectsInvalidPayload(t *testing.T) {
	store := newSQLiteStore(t)
	err := store.Put(context.Background(), &ParsedPayload{}) // empty doc_id
	assert.Error(t, err)
}

func TestSQLiteIsolatesDocuments(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, samplePayload("doc-a")))
	require.NoError(t, store.Put(ctx, samplePayload("doc-b")))

	a, err := store.Get(ctx, "doc-a")
	require.NoError(t, err)
	assert.Equal(t, "doc-a", a.DocID)

	b, err := store.Get(ctx, "doc-b")
	require.NoError(t, err)
	assert.Equal(t, "doc-b", b.DocID)
}
