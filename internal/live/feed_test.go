package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/infra/docstore"
	"booking-app/internal/infra/docstore/memory"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedFollowsCollection(t *testing.T) {
	store := memory.New()
	coll := docstore.NewClient(store).Collection("notes")
	f := NewFeed("notes", coll.OrderBy("n", docstore.Asc), func(d docstore.Document) int {
		return cast.ToInt(d.Data["n"])
	})
	f.Start(context.Background())
	f.Start(context.Background())
	t.Cleanup(f.Stop)

	require.Eventually(t, f.Ready, time.Second, 5*time.Millisecond)
	assert.Empty(t, f.Snapshot())

	ctx := context.Background()
	_, err := coll.Add(ctx, map[string]any{"n": 2})
	require.NoError(t, err)
	_, err = coll.Add(ctx, map[string]any{"n": 1})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(f.Snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{1, 2}, f.Snapshot())

	store.FailAlways("list", errors.New("offline"))
	_, err = coll.Add(ctx, map[string]any{"n": 3})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.Err() != nil }, time.Second, 5*time.Millisecond)
	var rerr *apperr.RemoteError
	assert.ErrorAs(t, f.Err(), &rerr)
	assert.Equal(t, []int{1, 2}, f.Snapshot())
	store.FailAlways("list", nil)
}
