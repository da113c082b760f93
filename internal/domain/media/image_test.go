package media

import (
	"testing"
	"time"

	"booking-app/internal/infra/docstore"

	"github.com/stretchr/testify/assert"
)

func TestImageDocumentMapping(t *testing.T) {
	img := Image{
		Folder:      "plans",
		URL:         "https://res.cloudinary.com/demo/image/upload/v1/plans/a.webp",
		PublicID:    "plans/a",
		ContentType: "image/webp",
		Size:        2048,
		CreatedAt:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	got := FromDocument(docstore.Document{ID: "m1", Data: img.Data()})
	assert.Equal(t, "m1", got.ID)
	assert.Equal(t, img.URL, got.URL)
	assert.Equal(t, img.PublicID, got.PublicID)
	assert.Equal(t, int64(2048), got.Size)
	assert.True(t, img.CreatedAt.Equal(got.CreatedAt))
}
