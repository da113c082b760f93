package plans

import (
	"net/http"

	"booking-app/internal/api/respond"
	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/plans"
	"booking-app/internal/records"
	"booking-app/internal/tablegen"
	"booking-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

type Handler struct {
	records *records.Store
	gen     *tablegen.Generator
	flow    *workflow.Controller
}

func New(recs *records.Store, gen *tablegen.Generator, flow *workflow.Controller) *Handler {
	return &Handler{records: recs, gen: gen, flow: flow}
}

type tableDTO struct {
	Columns    []tablegen.Column `json:"columns"`
	Rows       []tablegen.Row    `json:"rows"`
	Query      string            `json:"query,omitempty"`
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
}

func (h *Handler) search(c *gin.Context) (string, tablegen.Page[plans.Plan]) {
	q := c.Query("q")
	page := cast.ToInt(c.DefaultQuery("page", "1"))
	return q, tablegen.Paginate(plans.Search(h.records.Plans(), q), page, tablegen.PerPage)
}

// bindFields reads a flat JSON object of field values. Non-string values are
// converted to their string form.
func bindFields(c *gin.Context) (map[string]string, bool) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if nested, ok := raw["fields"].(map[string]interface{}); ok {
		raw = nested
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		s, err := cast.ToStringE(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Field " + k + " must be a string", "field": k})
			return nil, false
		}
		fields[k] = s
	}
	return fields, true
}

// GET /plans
func (h *Handler) Public(c *gin.Context) {
	cols, rows := h.gen.PublicTable(h.records.Plans())
	c.JSON(http.StatusOK, gin.H{"columns": cols, "rows": rows})
}

// GET /admin/plans
func (h *Handler) List(c *gin.Context) {
	q, page := h.search(c)
	out := gin.H{"plans": page.Items, "page": page.Page, "perPage": page.PerPage, "total": page.Total, "totalPages": page.TotalPages}
	if q != "" {
		out["query"] = q
	}
	if err := h.records.Err(); err != nil {
		out["error"] = workflow.Message(err)
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/plans/table
func (h *Handler) Table(c *gin.Context) {
	q, page := h.search(c)
	cols, rows := h.gen.Table(page.Items, tablegen.RenderOptions{Busy: h.flow.Busy(workflow.KindRecord)})
	c.JSON(http.StatusOK, tableDTO{
		Columns:    cols,
		Rows:       rows,
		Query:      q,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// GET /admin/plans/form
func (h *Handler) CreateForm(c *gin.Context) {
	c.JSON(http.StatusOK, h.gen.CreateForm())
}

func (h *Handler) find(c *gin.Context) (plans.Plan, bool) {
	id := c.Param("id")
	p, ok := h.records.Get(id)
	if !ok {
		respond.Error(c, apperr.NotFound("plan", id))
	}
	return p, ok
}

// GET /admin/plans/:id
func (h *Handler) Get(c *gin.Context) {
	p, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /admin/plans/:id/form
func (h *Handler) EditForm(c *gin.Context) {
	p, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.gen.EditForm(p))
}

// POST /admin/plans
func (h *Handler) Create(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	p, err := h.flow.CreateRecord(c.Request.Context(), fields)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /admin/plans/:id
func (h *Handler) Update(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	p, err := h.flow.EditRecord(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /admin/plans/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.flow.DeleteRecord(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}

// GET /admin/plans/stream?q=
func (h *Handler) Stream(c *gin.Context) {
	q := c.Query("q")
	respond.Stream(c, "plans", func(put func([]plans.Plan)) func() {
		ls := records.NewLiveSearch(h.records, q, records.DefaultDebounce, put)
		put(ls.Results())
		return ls.Close
	})
}
