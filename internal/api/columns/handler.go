package columns

import (
	"net/http"

	"booking-app/internal/api/respond"
	"booking-app/internal/domain/columns"
	"booking-app/internal/schema"
	"booking-app/internal/tablegen"
	"booking-app/internal/workflow"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	registry *schema.Registry
	flow     *workflow.Controller
}

func New(registry *schema.Registry, flow *workflow.Controller) *Handler {
	return &Handler{registry: registry, flow: flow}
}

type listDTO struct {
	Columns []columns.Column `json:"columns"`
	Ready   bool             `json:"ready"`
	Error   string           `json:"error,omitempty"`
}

func (h *Handler) snapshot() listDTO {
	out := listDTO{Columns: h.registry.Columns(), Ready: h.registry.Ready()}
	if err := h.registry.Err(); err != nil {
		out.Error = workflow.Message(err)
	}
	return out
}

// GET /admin/columns
func (h *Handler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot())
}

// GET /admin/columns/table
func (h *Handler) Table(c *gin.Context) {
	header, rows := tablegen.ColumnManagementTable(h.registry.Columns(), tablegen.RenderOptions{
		Busy: h.flow.Busy(workflow.KindColumn),
	})
	c.JSON(http.StatusOK, gin.H{"columns": header, "rows": rows})
}

// POST /admin/columns
func (h *Handler) Create(c *gin.Context) {
	var input columns.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	col, err := h.flow.CreateColumn(c.Request.Context(), input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

// PUT /admin/columns/:id
func (h *Handler) Update(c *gin.Context) {
	var input columns.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	col, err := h.flow.EditColumn(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

// DELETE /admin/columns/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.flow.DeleteColumn(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Column deleted successfully"})
}

// GET /admin/columns/stream
func (h *Handler) Stream(c *gin.Context) {
	respond.Stream(c, "columns", func(put func(listDTO)) func() {
		put(h.snapshot())
		return h.registry.Subscribe(func([]columns.Column) { put(h.snapshot()) })
	})
}
