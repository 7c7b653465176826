package store

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktracker/internal/records"
)

var dune = records.Fields{Section: "A1", Title: "Dune", Genre: "SciFi", Date: "2024-05-01"}

// testDocumentStore runs the behaviour every backend must share.
func testDocumentStore(t *testing.T, s DocumentStore) {
	ctx := context.Background()

	id, err := s.Create(ctx, dune)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	recs, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, recs, dune.WithID(id))

	edited := records.Fields{Section: "B2", Title: "Dune Messiah", Genre: "SciFi", Date: "2024-06-01"}
	require.NoError(t, s.UpdateByID(ctx, id, edited))

	// an unchanged update still succeeds
	require.NoError(t, s.UpdateByID(ctx, id, edited))

	recs, err = s.ListAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, recs, edited.WithID(id))

	// partial update keeps the other fields
	require.NoError(t, s.UpdateByID(ctx, id, records.Fields{Genre: "Classic"}))
	recs, err = s.ListAll(ctx)
	require.NoError(t, err)
	partial := edited
	partial.Genre = "Classic"
	assert.Contains(t, recs, partial.WithID(id))

	assert.Equal(t, ErrEmptyUpdate, s.UpdateByID(ctx, id, records.Fields{}))
	assert.Equal(t, ErrNotFound, errors.Cause(s.UpdateByID(ctx, "missing-id", edited)))

	require.NoError(t, s.DeleteByID(ctx, id))
	assert.Equal(t, ErrNotFound, errors.Cause(s.DeleteByID(ctx, id)))

	recs, err = s.ListAll(ctx)
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotEqual(t, id, r.ID)
	}
}
