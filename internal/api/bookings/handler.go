package bookings

import (
	"context"
	"net/http"

	"booking-app/internal/api/respond"
	"booking-app/internal/domain/bookings"
	"booking-app/internal/reservations"
	"booking-app/internal/tablegen"
	"booking-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

type Handler struct {
	store *reservations.Store
	flow  *workflow.Controller
}

func New(store *reservations.Store, flow *workflow.Controller) *Handler {
	return &Handler{store: store, flow: flow}
}

type feedDTO struct {
	Bookings []bookings.Booking `json:"bookings"`
	Stats    bookings.Stats     `json:"stats"`
	Ready    bool               `json:"ready"`
	Error    string             `json:"error,omitempty"`
}

func (h *Handler) snapshot() feedDTO {
	list := h.store.Bookings()
	out := feedDTO{Bookings: list, Stats: bookings.Count(list), Ready: h.store.Ready()}
	if err := h.store.Err(); err != nil {
		out.Error = workflow.Message(err)
	}
	return out
}

// POST /bookings
func (h *Handler) Submit(c *gin.Context) {
	var input bookings.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.store.Create(c.Request.Context(), input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": b.ID, "status": b.Status, "message": "Booking submitted successfully!"})
}

// GET /admin/bookings?q=&status=&page=
func (h *Handler) List(c *gin.Context) {
	q := c.Query("q")
	list := bookings.Filter(bookings.Search(h.store.Bookings(), q), bookings.Status(c.Query("status")))
	page := tablegen.Paginate(list, cast.ToInt(c.DefaultQuery("page", "1")), tablegen.PerPage)
	out := gin.H{
		"bookings":   page.Items,
		"page":       page.Page,
		"perPage":    page.PerPage,
		"total":      page.Total,
		"totalPages": page.TotalPages,
		"stats":      h.store.Stats(),
	}
	if q != "" {
		out["query"] = q
	}
	if err := h.store.Err(); err != nil {
		out["error"] = workflow.Message(err)
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/bookings/:id
func (h *Handler) Get(c *gin.Context) {
	b, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /admin/bookings
func (h *Handler) Create(c *gin.Context) {
	var input bookings.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var b bookings.Booking
	err := h.flow.Run(c.Request.Context(), workflow.KindBooking, workflow.PhaseCreating, "Booking created successfully",
		func(ctx context.Context) (err error) {
			b, err = h.store.Create(ctx, input)
			return err
		})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// PUT /admin/bookings/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	var b bookings.Booking
	err := h.flow.Run(c.Request.Context(), workflow.KindBooking, workflow.PhaseEditing, "Booking marked as completed",
		func(ctx context.Context) (err error) {
			b, err = h.store.Complete(ctx, c.Param("id"))
			return err
		})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DELETE /admin/bookings/:id
func (h *Handler) Delete(c *gin.Context) {
	err := h.flow.Run(c.Request.Context(), workflow.KindBooking, workflow.PhaseDeleting, "Booking deleted successfully",
		func(ctx context.Context) error { return h.store.Delete(ctx, c.Param("id")) })
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}

// GET /admin/bookings/stream
func (h *Handler) Stream(c *gin.Context) {
	respond.Stream(c, "bookings", func(put func(feedDTO)) func() {
		put(h.snapshot())
		return h.store.Subscribe(func([]bookings.Booking) { put(h.snapshot()) })
	})
}
