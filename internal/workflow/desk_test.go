package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeskTracksEdits(t *testing.T) {
	ctx := context.Background()
	s := newSpyStore()
	d := NewDesk(s, nil)
	id := seed(s, dune)

	_, _, err := d.StartEdit(id)
	require.Error(t, err, "record not loaded into the view yet")

	require.NoError(t, d.View().Reload(ctx))
	wid, e, err := d.StartEdit(id)
	require.NoError(t, err)
	assert.Equal(t, id, e.RecordID())
	assert.Equal(t, 1, d.OpenEdits())

	got, ok := d.Edit(wid)
	require.True(t, ok)
	assert.Same(t, e, got)

	d.Forget(wid)
	_, ok = d.Edit(wid)
	assert.False(t, ok)
	assert.Equal(t, 0, d.OpenEdits())
}

func TestDeskFormAndCompletionShareView(t *testing.T) {
	ctx := context.Background()
	s := newSpyStore()
	d := NewDesk(s, nil)

	f := d.NewForm()
	assert.True(t, f.IsOpen())
	f.Fill(dune)
	res, err := f.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, d.View().Rows(), 1)

	d.Completion().Resolve(ctx, res.RecordID, true)
	assert.Empty(t, d.View().Rows())
}

func TestDeskForgetsStaleEdits(t *testing.T) {
	ctx := context.Background()
	s := newSpyStore()
	d := NewDesk(s, nil)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	id := seed(s, dune)
	require.NoError(t, d.View().Reload(ctx))

	old, _, err := d.StartEdit(id)
	require.NoError(t, err)
	now = now.Add(20 * time.Minute)
	fresh, _, err := d.StartEdit(id)
	require.NoError(t, err)
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, d.ForgetStale(30*time.Minute))
	_, ok := d.Edit(old)
	assert.False(t, ok, "abandoned edit is dropped")
	_, ok = d.Edit(fresh)
	assert.True(t, ok)
	assert.Zero(t, s.remoteCalls(), "dropping an edit never writes")
}
