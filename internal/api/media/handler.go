package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"booking-app/internal/api/respond"
	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/media"
	"booking-app/internal/infra/cloudinary"
	"booking-app/internal/infra/docstore"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const defaultFolder = "plans"

type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename, folder string) (cloudinary.Result, error)
}

type Handler struct {
	uploader Uploader
	coll     *docstore.Collection
	now      func() time.Time
}

func New(uploader Uploader, client *docstore.Client) *Handler {
	return &Handler{uploader: uploader, coll: client.Collection(media.Collection), now: time.Now}
}

func uploadStatus(err error) int {
	var uerr *cloudinary.UploadError
	switch {
	case errors.Is(err, cloudinary.ErrEmpty):
		return http.StatusBadRequest
	case errors.Is(err, cloudinary.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, cloudinary.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, cloudinary.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &uerr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// POST /admin/media (multipart: file, folder)
func (h *Handler) Upload(c *gin.Context) {
	folder := strings.TrimSpace(c.PostForm("folder"))
	if folder == "" {
		folder = defaultFolder
	}
	img, ok := h.Receive(c, folder)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, img)
}

// Receive uploads the multipart "file" of the request into folder and
// records it in the media library. On failure it writes the error response
// and returns false.
func (h *Handler) Receive(c *gin.Context, folder string) (media.Image, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cloudinary.MaxSize+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return media.Image{}, false
	}
	if fh.Size > cloudinary.MaxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": cloudinary.ErrTooLarge.Error()})
		return media.Image{}, false
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read file"})
		return media.Image{}, false
	}
	defer f.Close()

	res, err := h.uploader.Upload(c.Request.Context(), f, fh.Filename, folder)
	if err != nil {
		status := uploadStatus(err)
		entry := log.WithFields(log.Fields{"folder": folder, "file": fh.Filename}).WithError(err)
		if status >= http.StatusInternalServerError {
			entry.Error("Image upload failed")
		} else {
			entry.Warn("Image upload rejected")
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return media.Image{}, false
	}

	img := media.Image{
		Folder:      folder,
		URL:         res.URL,
		PublicID:    res.PublicID,
		ContentType: res.ContentType,
		Size:        res.Size,
		CreatedAt:   h.now().UTC(),
	}
	id, err := h.coll.Add(c.Request.Context(), img.Data())
	if err != nil {
		respond.Error(c, apperr.Remote("save image", err))
		return media.Image{}, false
	}
	img.ID = id
	return img, true
}

// GET /admin/media
func (h *Handler) List(c *gin.Context) {
	docs, err := h.coll.OrderBy("createdAt", docstore.Desc).Documents(c.Request.Context())
	if err != nil {
		respond.Error(c, apperr.Remote("fetch images", err))
		return
	}
	out := make([]media.Image, 0, len(docs))
	for _, d := range docs {
		out = append(out, media.FromDocument(d))
	}
	c.JSON(http.StatusOK, gin.H{"images": out})
}
