package profiles

import (
	"context"
	"net/http"

	"booking-app/internal/api/respond"
	"booking-app/internal/domain/media"
	"booking-app/internal/domain/profiles"
	"booking-app/internal/roster"
	"booking-app/internal/tablegen"
	"booking-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// ImageReceiver uploads the image of a multipart request, writing the error
// response itself when it fails.
type ImageReceiver interface {
	Receive(c *gin.Context, folder string) (media.Image, bool)
}

type Handler struct {
	store  *roster.Store
	images ImageReceiver
	flow   *workflow.Controller
}

func New(store *roster.Store, images ImageReceiver, flow *workflow.Controller) *Handler {
	return &Handler{store: store, images: images, flow: flow}
}

type feedDTO struct {
	Profiles []profiles.Profile `json:"profiles"`
	Ready    bool               `json:"ready"`
	Error    string             `json:"error,omitempty"`
}

func (h *Handler) snapshot() feedDTO {
	out := feedDTO{Profiles: h.store.Profiles(), Ready: h.store.Ready()}
	if err := h.store.Err(); err != nil {
		out.Error = workflow.Message(err)
	}
	return out
}

// GET /profiles
func (h *Handler) Public(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profiles": profiles.Available(h.store.Profiles())})
}

// GET /admin/profiles?q=&page=
func (h *Handler) List(c *gin.Context) {
	q := c.Query("q")
	page := tablegen.Paginate(profiles.Search(h.store.Profiles(), q), cast.ToInt(c.DefaultQuery("page", "1")), tablegen.PerPage)
	out := gin.H{
		"profiles":   page.Items,
		"page":       page.Page,
		"perPage":    page.PerPage,
		"total":      page.Total,
		"totalPages": page.TotalPages,
	}
	if q != "" {
		out["query"] = q
	}
	if err := h.store.Err(); err != nil {
		out["error"] = workflow.Message(err)
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/profiles/:id
func (h *Handler) Get(c *gin.Context) {
	p, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) save(c *gin.Context, phase workflow.Phase, success string, fn func(ctx context.Context, in profiles.Input) (profiles.Profile, error)) (profiles.Profile, bool) {
	var input profiles.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return profiles.Profile{}, false
	}
	var p profiles.Profile
	err := h.flow.Run(c.Request.Context(), workflow.KindProfile, phase, success, func(ctx context.Context) (err error) {
		p, err = fn(ctx, input)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return profiles.Profile{}, false
	}
	return p, true
}

// POST /admin/profiles
func (h *Handler) Create(c *gin.Context) {
	if p, ok := h.save(c, workflow.PhaseCreating, "Profile created successfully", h.store.Create); ok {
		c.JSON(http.StatusCreated, p)
	}
}

// PUT /admin/profiles/:id
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	update := func(ctx context.Context, in profiles.Input) (profiles.Profile, error) {
		return h.store.Update(ctx, id, in)
	}
	if p, ok := h.save(c, workflow.PhaseEditing, "Profile updated successfully", update); ok {
		c.JSON(http.StatusOK, p)
	}
}

// POST /admin/profiles/:id/image (multipart: file)
func (h *Handler) UploadImage(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.store.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	img, ok := h.images.Receive(c, profiles.ImageFolder)
	if !ok {
		return
	}
	var p profiles.Profile
	err := h.flow.Run(c.Request.Context(), workflow.KindProfile, workflow.PhaseEditing, "Image uploaded successfully",
		func(ctx context.Context) (err error) {
			p, err = h.store.SetImage(ctx, id, img.URL)
			return err
		})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /admin/profiles/:id
func (h *Handler) Delete(c *gin.Context) {
	err := h.flow.Run(c.Request.Context(), workflow.KindProfile, workflow.PhaseDeleting, "Profile deleted successfully",
		func(ctx context.Context) error { return h.store.Delete(ctx, c.Param("id")) })
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted successfully"})
}

// GET /admin/profiles/stream
func (h *Handler) Stream(c *gin.Context) {
	respond.Stream(c, "profiles", func(put func(feedDTO)) func() {
		put(h.snapshot())
		return h.store.Subscribe(func([]profiles.Profile) { put(h.snapshot()) })
	})
}
