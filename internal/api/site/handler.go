package site

import (
	"context"
	"net/http"

	"booking-app/internal/api/respond"
	"booking-app/internal/domain/media"
	"booking-app/internal/domain/site"
	"booking-app/internal/siteinfo"
	"booking-app/internal/workflow"

	"github.com/gin-gonic/gin"
)

// ImageReceiver uploads the image of a multipart request, writing the error
// response itself when it fails.
type ImageReceiver interface {
	Receive(c *gin.Context, folder string) (media.Image, bool)
}

type Handler struct {
	store  *siteinfo.Store
	images ImageReceiver
	flow   *workflow.Controller
}

func New(store *siteinfo.Store, images ImageReceiver, flow *workflow.Controller) *Handler {
	return &Handler{store: store, images: images, flow: flow}
}

// GET /site and GET /admin/settings
func (h *Handler) Get(c *gin.Context) {
	info, err := h.store.Get(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) save(c *gin.Context, in site.Input) {
	var info site.Info
	err := h.flow.Run(c.Request.Context(), workflow.KindSettings, workflow.PhaseEditing, "Website information updated successfully",
		func(ctx context.Context) (err error) {
			info, err = h.store.Save(ctx, in)
			return err
		})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// PUT /admin/settings
func (h *Handler) Update(c *gin.Context) {
	var input site.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.save(c, input)
}

// POST /admin/settings/logo (multipart: file)
func (h *Handler) UploadLogo(c *gin.Context) {
	img, ok := h.images.Receive(c, site.LogoFolder)
	if !ok {
		return
	}
	h.save(c, site.Input{LogoURL: &img.URL})
}
