package roster

import (
	"context"
	"testing"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/profiles"
	"booking-app/internal/infra/docstore"
	"booking-app/internal/infra/docstore/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	s := NewStore(docstore.NewClient(memory.New()), WithClock(tick))
	s.Start(context.Background())
	t.Cleanup(s.Stop)
	require.Eventually(t, s.Ready, time.Second, 5*time.Millisecond)
	return s
}

func input(name string) profiles.Input {
	return profiles.Input{Name: name, Age: 24, Location: "Jaipur", Rate: "₹5000/hour", Phone: "9876543210"}
}

func TestCreateUpdateDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	in := input("Riya")
	in.ImageURL = "https://cdn.example.com/riya.png"
	p, err := s.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, profiles.StatusAvailable, p.Status)
	require.Eventually(t, func() bool { return len(s.Profiles()) == 1 }, time.Second, 5*time.Millisecond)

	edit := input("Riya S")
	edit.Status = profiles.StatusUnavailable
	updated, err := s.Update(ctx, p.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Riya S", updated.Name)
	assert.Equal(t, profiles.StatusUnavailable, updated.Status)
	assert.Equal(t, "https://cdn.example.com/riya.png", updated.ImageURL, "blank image keeps the stored photo")
	assert.True(t, p.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	_, err = s.Update(ctx, "missing", input("X"))
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = s.Update(ctx, p.ID, profiles.Input{Name: "Riya"})
	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, s.Delete(ctx, p.ID))
	require.NoError(t, s.Delete(ctx, p.ID))
	require.Eventually(t, func() bool { return len(s.Profiles()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestSetImage(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p, err := s.Create(ctx, input("Anya"))
	require.NoError(t, err)
	assert.Empty(t, p.ImageURL)

	withImage, err := s.SetImage(ctx, p.ID, "https://cdn.example.com/girls-profiles/anya.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/girls-profiles/anya.png", withImage.ImageURL)
	assert.Equal(t, "Anya", withImage.Name)

	_, err = s.SetImage(ctx, p.ID, "not a url")
	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = s.SetImage(ctx, "missing", "https://cdn.example.com/x.png")
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)

	require.Eventually(t, func() bool {
		got, ok := s.Get(p.ID)
		return ok && got.ImageURL != ""
	}, time.Second, 5*time.Millisecond)
}
