package workflow

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionConfirmDeletesOnce(t *testing.T) {
	ctx := context.Background()
	s := newSpyStore()
	rec := &recorder{}
	v := NewListView(s, rec)
	s.PutDocument("abc123", dune.Document())
	keep := seed(s, dune)
	require.NoError(t, v.Reload(ctx))

	res := NewCompletion(s, v, rec).Resolve(ctx, "abc123", true)
	assert.Equal(t, Result{Op: OpDelete, Outcome: Success, Title: "Deleted!", Text: "Your book has been removed.", RecordID: "abc123"}, res)
	assert.Equal(t, 1, s.count("delete"))

	_, ok := v.Find("abc123")
	assert.False(t, ok)
	_, ok = v.Find(keep)
	assert.True(t, ok)

	recs, err := s.Memory.ListAll(ctx)
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotEqual(t, "abc123", r.ID)
	}
	assert.Equal(t, []Result{res}, rec.all())
}

func TestCompletionCancelIsSilent(t *testing.T) {
	ctx := context.Background()
	s := newSpyStore()
	rec := &recorder{}
	id := seed(s, dune)

	res, err := NewCompletion(s, NewListView(s, rec), rec).Run(ctx, id, &scripted{confirm: false})
	require.NoError(t, err)
	assert.Equal(t, Silent, res.Outcome)
	assert.Equal(t, 0, s.remoteCalls())
	assert.Equal(t, 0, s.count("list"))
	assert.Empty(t, rec.all())
}

func TestCompletionFailureLeavesRecord(t *testing.T) {
	ctx := context.Background()
	s := newSpyStore()
	s.failOn("delete", errors.New("unavailable"))
	rec := &recorder{}
	v := NewListView(s, rec)
	id := seed(s, dune)
	require.NoError(t, v.Reload(ctx))

	res, err := NewCompletion(s, v, rec).Run(ctx, id, &scripted{confirm: true})
	require.NoError(t, err)
	assert.Equal(t, Failure, res.Outcome)
	assert.Equal(t, "An error occurred while deleting the book.", res.Text)
	assert.Equal(t, 1, s.count("list"))

	_, ok := v.Find(id)
	assert.True(t, ok)
}

func TestCompletionPrompterError(t *testing.T) {
	s := newSpyStore()
	_, err := NewCompletion(s, NewListView(s, nil), nil).Run(context.Background(), "x", &scripted{err: errors.New("closed")})
	assert.Error(t, err)
	assert.Equal(t, 0, s.remoteCalls())
}
