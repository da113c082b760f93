package admin

import (
	"net/http"

	"booking-app/internal/domain/bookings"
	"booking-app/internal/records"
	"booking-app/internal/reservations"
	"booking-app/internal/roster"
	"booking-app/internal/schema"
	"booking-app/internal/workflow"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	registry *schema.Registry
	records  *records.Store
	bookings *reservations.Store
	profiles *roster.Store
	flow     *workflow.Controller
}

func New(registry *schema.Registry, recs *records.Store, books *reservations.Store, profiles *roster.Store, flow *workflow.Controller) *Handler {
	return &Handler{registry: registry, records: recs, bookings: books, profiles: profiles, flow: flow}
}

type feedDTO struct {
	Ready bool   `json:"ready"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type bookingsDTO struct {
	bookings.Stats
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

type DashboardDTO struct {
	Bookings bookingsDTO `json:"bookings"`
	Profiles feedDTO     `json:"profiles"`
	Columns  feedDTO     `json:"columns"`
	Plans    feedDTO     `json:"plans"`
}

func feed(ready bool, count int, err error) feedDTO {
	out := feedDTO{Ready: ready, Count: count}
	if err != nil {
		out.Error = workflow.Message(err)
	}
	return out
}

// GET /admin/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	out := DashboardDTO{
		Bookings: bookingsDTO{Stats: h.bookings.Stats(), Ready: h.bookings.Ready()},
		Profiles: feed(h.profiles.Ready(), len(h.profiles.Profiles()), h.profiles.Err()),
		Columns:  feed(h.registry.Ready(), len(h.registry.Columns()), h.registry.Err()),
		Plans:    feed(h.records.Ready(), len(h.records.Plans()), h.records.Err()),
	}
	if err := h.bookings.Err(); err != nil {
		out.Bookings.Error = workflow.Message(err)
	}
	c.JSON(http.StatusOK, out)
}

// GET /admin/workflow
func (h *Handler) Workflow(c *gin.Context) {
	c.JSON(http.StatusOK, h.flow.State())
}
