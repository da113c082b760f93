// Package workflow sequences admin actions against the column registry, the
// record store and the other admin collections, one mutation at a time per
// entity kind.
package workflow

import (
	"errors"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/columns"
	"booking-app/internal/domain/plans"
	"booking-app/internal/tablegen"
)

type Kind string

const (
	KindColumn   Kind = "column"
	KindRecord   Kind = "record"
	KindBooking  Kind = "booking"
	KindProfile  Kind = "profile"
	KindSettings Kind = "settings"
)

// Phase is the mutation currently in flight for a kind.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseCreating Phase = "creating"
	PhaseEditing  Phase = "editing"
	PhaseDeleting Phase = "deleting"
)

// Modal is the dialog currently open for a kind.
type Modal string

const (
	ModalNone   Modal = ""
	ModalCreate Modal = "create"
	ModalEdit   Modal = "edit"
	ModalDelete Modal = "delete"
)

// ErrNoModal is returned by Submit, Confirm and Cancel when no matching
// dialog is open.
var ErrNoModal = errors.New("no dialog is open")

const maxNotices = 50

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Kind    Kind      `json:"kind"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Error   string    `json:"errorKind,omitempty"`
	At      time.Time `json:"at"`
}

type slot struct {
	phase  Phase
	modal  Modal
	column *columns.Column
	plan   *plans.Plan
	form   tablegen.Form
	err    error
}

func (s *slot) close() {
	s.modal = ModalNone
	s.column = nil
	s.plan = nil
	s.form = tablegen.Form{}
}

// SlotState is the observable state of one kind.
type SlotState struct {
	Phase      Phase  `json:"phase"`
	Pending    bool   `json:"pending"`
	Modal      Modal  `json:"modal,omitempty"`
	SelectedID string `json:"selectedId,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorKind  string `json:"errorKind,omitempty"`
	Field      string `json:"field,omitempty"`
}

func (s *slot) state() SlotState {
	st := SlotState{Phase: s.phase, Pending: s.phase != PhaseIdle, Modal: s.modal}
	switch {
	case s.column != nil:
		st.SelectedID = s.column.ID
	case s.plan != nil:
		st.SelectedID = s.plan.ID
	}
	if s.err != nil {
		st.Error = Message(s.err)
		st.ErrorKind = apperr.Kind(s.err)
		var verr *apperr.ValidationError
		if errors.As(s.err, &verr) {
			st.Field = verr.Field
		}
	}
	return st
}

type State struct {
	Columns  SlotState `json:"columns"`
	Records  SlotState `json:"records"`
	Bookings SlotState `json:"bookings"`
	Profiles SlotState `json:"profiles"`
	Settings SlotState `json:"settings"`
	Notices  []Notice  `json:"notices"`
}

// Message is the text shown to an admin for err.
func Message(err error) string {
	var (
		v *apperr.ValidationError
		p *apperr.PolicyError
		n *apperr.NotFoundError
		r *apperr.RemoteError
	)
	switch {
	case errors.As(err, &v):
		return v.Message
	case errors.As(err, &p):
		return p.Message
	case errors.As(err, &n):
		return "The " + n.Entity + " no longer exists"
	case errors.As(err, &r):
		return "Failed to " + r.Op
	case errors.Is(err, apperr.ErrBusy):
		return "Please wait for the current operation to finish"
	}
	return err.Error()
}
