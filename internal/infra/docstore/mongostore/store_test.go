package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"booking-app/internal/infra/docstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := "booking_test_" + uuid.NewString()[:8]
	s, err := Connect(ctx, uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close()
	})
	return s
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, "plans", map[string]any{"title": "VIP", "createdAt": "2026-01-01"})
	require.NoError(t, err)

	require.NoError(t, s.Replace(ctx, "plans", id, map[string]any{"title": "Gold"}, "createdAt"))
	doc, err := s.Get(ctx, "plans", id)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Gold", "createdAt": "2026-01-01"}, doc.Data)

	docs, err := s.List(ctx, "plans")
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, s.Delete(ctx, "plans", id))
	require.NoError(t, s.Delete(ctx, "plans", id))
	_, err = s.Get(ctx, "plans", id)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Get(ctx, "plans", "not-an-object-id")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.NoError(t, s.Delete(ctx, "plans", "not-an-object-id"))
}

func TestNormalize(t *testing.T) {
	at := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

	got, ok := normalize(primitive.NewDateTimeFromTime(at)).(time.Time)
	require.True(t, ok)
	assert.True(t, at.Equal(got))
	assert.Equal(t, int64(7), normalize(int32(7)))
	assert.Equal(t, []any{"a", int64(1)}, normalize(primitive.A{"a", int32(1)}))
	assert.Equal(t, "x", normalize("x"))
}
