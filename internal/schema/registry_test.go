package schema

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/columns"
	"booking-app/internal/infra/docstore"
	"booking-app/internal/infra/docstore/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newRegistry(t *testing.T) (*Registry, *memory.Store) {
	t.Helper()
	store := memory.New()
	c := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(docstore.NewClient(store), WithClock(c.Now))
	return r, store
}

func startAndWait(t *testing.T, r *Registry, want int) {
	t.Helper()
	r.Start(context.Background())
	t.Cleanup(r.Stop)
	waitForColumns(t, r, want)
}

func waitForColumns(t *testing.T, r *Registry, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return r.Ready() && len(r.Columns()) == want
	}, 2*time.Second, 5*time.Millisecond)
}

func dataIndexes(cols []columns.Column) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		out = append(out, c.DataIndex)
	}
	return out
}

func TestStartSeedsDefaultColumnsInOrder(t *testing.T) {
	r, _ := newRegistry(t)
	startAndWait(t, r, 5)

	assert.Equal(t, []string{"title", "rate1", "rate2", "rate3", "cta"}, dataIndexes(r.Columns()))
}

func TestEnsureDefaultColumnsIsIdempotent(t *testing.T) {
	r, _ := newRegistry(t)
	ctx := context.Background()

	created, err := r.EnsureDefaultColumns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	created, err = r.EnsureDefaultColumns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	startAndWait(t, r, 5)
}

func TestStartDoesNotSeedExistingSchema(t *testing.T) {
	r, _ := newRegistry(t)
	_, err := r.CreateColumn(context.Background(), columns.Input{Title: "Name", DataIndex: "name"})
	require.NoError(t, err)

	startAndWait(t, r, 1)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"name"}, dataIndexes(r.Columns()))
}

func TestSeedFailureLeavesPartialSchema(t *testing.T) {
	r, store := newRegistry(t)
	store.FailNext("add", errors.New("quota exceeded"))

	created, err := r.EnsureDefaultColumns(context.Background())
	var rerr *apperr.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 4, created)

	startAndWait(t, r, 4)
}

func TestStartWithPartialSeedPublishesSubset(t *testing.T) {
	r, store := newRegistry(t)
	store.FailNext("add", errors.New("quota exceeded"))

	startAndWait(t, r, 4)
	assert.NoError(t, r.Err())
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, r.Columns(), 4)
}

func TestCreateColumnValidation(t *testing.T) {
	r, _ := newRegistry(t)
	startAndWait(t, r, 5)
	ctx := context.Background()

	_, err := r.CreateColumn(ctx, columns.Input{DataIndex: "rate4"})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, columns.FieldTitle, verr.Field)

	_, err = r.CreateColumn(ctx, columns.Input{Title: "Rate"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, columns.FieldDataIndex, verr.Field)

	_, err = r.CreateColumn(ctx, columns.Input{Title: "Again", DataIndex: "rate1"})
	require.ErrorAs(t, err, &verr)

	_, err = r.CreateColumn(ctx, columns.Input{Title: "Call", DataIndex: "call", Type: columns.TypeButton})
	require.ErrorAs(t, err, &verr)

	col, err := r.CreateColumn(ctx, columns.Input{Title: "Weekend Rate", DataIndex: "rate4", Type: columns.TypeCurrency})
	require.NoError(t, err)
	assert.NotEmpty(t, col.ID)

	waitForColumns(t, r, 6)
	assert.Equal(t, "rate4", r.Columns()[5].DataIndex)
}

func TestUpdateColumn(t *testing.T) {
	r, _ := newRegistry(t)
	startAndWait(t, r, 5)
	ctx := context.Background()

	rate2 := r.Columns()[2]
	updated, err := r.UpdateColumn(ctx, rate2.ID, columns.Input{Title: "Half Day Rate", DataIndex: "rate2", Type: columns.TypeCurrency})
	require.NoError(t, err)
	assert.Equal(t, "Half Day Rate", updated.Title)
	assert.False(t, updated.Required)
	assert.True(t, rate2.CreatedAt.Equal(updated.CreatedAt))
	require.NotNil(t, updated.UpdatedAt)

	require.Eventually(t, func() bool {
		return r.Columns()[2].Title == "Half Day Rate"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"title", "rate1", "rate2", "rate3", "cta"}, dataIndexes(r.Columns()))

	_, err = r.UpdateColumn(ctx, "missing", columns.Input{Title: "X", DataIndex: "x"})
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteRequiredColumnIsRefused(t *testing.T) {
	r, _ := newRegistry(t)
	startAndWait(t, r, 5)

	title := r.Columns()[0]
	err := r.DeleteColumn(context.Background(), title.ID)
	var perr *apperr.PolicyError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Cannot delete required column", perr.Message)

	time.Sleep(20 * time.Millisecond)
	assert.Len(t, r.Columns(), 5)
}

func TestDeleteColumn(t *testing.T) {
	r, _ := newRegistry(t)
	startAndWait(t, r, 5)

	cta := r.Columns()[4]
	require.NoError(t, r.DeleteColumn(context.Background(), cta.ID))
	waitForColumns(t, r, 4)

	err := r.DeleteColumn(context.Background(), cta.ID)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSubscriptionErrorKeepsLastSchema(t *testing.T) {
	r, store := newRegistry(t)
	startAndWait(t, r, 5)

	store.FailAlways("list", errors.New("unavailable"))
	_, err := r.CreateColumn(context.Background(), columns.Input{Title: "Notes", DataIndex: "notes"})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return r.Err() != nil }, time.Second, 5*time.Millisecond)
	assert.Len(t, r.Columns(), 5)
}
