package media

import (
	"time"

	"booking-app/internal/infra/docstore"

	"github.com/spf13/cast"
)

// Collection holds references to images uploaded to the CDN.
const Collection = "media"

type Image struct {
	ID          string    `json:"id"`
	Folder      string    `json:"folder"`
	URL         string    `json:"url"`
	PublicID    string    `json:"publicId,omitempty"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (img Image) Data() map[string]any {
	return map[string]any{
		"folder":      img.Folder,
		"url":         img.URL,
		"publicId":    img.PublicID,
		"contentType": img.ContentType,
		"size":        img.Size,
		"createdAt":   docstore.FormatTimestamp(img.CreatedAt),
	}
}

func FromDocument(doc docstore.Document) Image {
	return Image{
		ID:          doc.ID,
		Folder:      cast.ToString(doc.Data["folder"]),
		URL:         cast.ToString(doc.Data["url"]),
		PublicID:    cast.ToString(doc.Data["publicId"]),
		ContentType: cast.ToString(doc.Data["contentType"]),
		Size:        cast.ToInt64(doc.Data["size"]),
		CreatedAt:   docstore.ParseTimestamp(doc.Data["createdAt"]),
	}
}
