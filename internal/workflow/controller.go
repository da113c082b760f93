package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/columns"
	"booking-app/internal/domain/plans"
	"booking-app/internal/tablegen"

	log "github.com/sirupsen/logrus"
)

type ColumnStore interface {
	Columns() []columns.Column
	CreateColumn(ctx context.Context, in columns.Input) (columns.Column, error)
	UpdateColumn(ctx context.Context, id string, in columns.Input) (columns.Column, error)
	DeleteColumn(ctx context.Context, id string) error
}

type RecordStore interface {
	Plans() []plans.Plan
	CreateRecord(ctx context.Context, fields map[string]string) (plans.Plan, error)
	UpdateRecord(ctx context.Context, id string, fields map[string]string) (plans.Plan, error)
	DeleteRecord(ctx context.Context, id string) error
}

// Forms builds record forms from the current schema.
type Forms interface {
	CreateForm() tablegen.Form
	EditForm(p plans.Plan) tablegen.Form
}

type Controller struct {
	columns ColumnStore
	records RecordStore
	forms   Forms
	now     func() time.Time

	mu      sync.Mutex
	slots   map[Kind]*slot
	notices []Notice
}

func New(cols ColumnStore, recs RecordStore, forms Forms) *Controller {
	return &Controller{
		columns: cols,
		records: recs,
		forms:   forms,
		now:     time.Now,
		slots: map[Kind]*slot{
			KindColumn:   {phase: PhaseIdle},
			KindRecord:   {phase: PhaseIdle},
			KindBooking:  {phase: PhaseIdle},
			KindProfile:  {phase: PhaseIdle},
			KindSettings: {phase: PhaseIdle},
		},
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Columns:  c.slots[KindColumn].state(),
		Records:  c.slots[KindRecord].state(),
		Bookings: c.slots[KindBooking].state(),
		Profiles: c.slots[KindProfile].state(),
		Settings: c.slots[KindSettings].state(),
		Notices:  append([]Notice{}, c.notices...),
	}
}

// Busy reports whether a mutation of kind is in flight.
func (c *Controller) Busy(kind Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots[kind].phase != PhaseIdle
}

// Notices returns the recent notices, oldest first.
func (c *Controller) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice{}, c.notices...)
}

func (c *Controller) noticeLocked(kind Kind, level Level, msg string, err error) {
	n := Notice{Kind: kind, Level: level, Message: msg, At: c.now()}
	entry := log.WithFields(log.Fields{"kind": kind, "notice": msg})
	if err != nil {
		n.Error = apperr.Kind(err)
		entry.WithError(err).Error("Admin operation failed")
	} else {
		entry.Info("Admin operation succeeded")
	}
	c.notices = append(c.notices, n)
	if len(c.notices) > maxNotices {
		c.notices = c.notices[len(c.notices)-maxNotices:]
	}
}

// open switches kind to modal when nothing is in flight.
func (c *Controller) open(kind Kind, modal Modal, fill func(s *slot) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slots[kind]
	if s.phase != PhaseIdle {
		return apperr.ErrBusy
	}
	s.close()
	s.err = nil
	if fill != nil {
		if err := fill(s); err != nil {
			s.err = err
			c.noticeLocked(kind, LevelError, Message(err), err)
			return err
		}
	}
	s.modal = modal
	return nil
}

// begin marks phase as in flight. want, when set, is the modal that must be
// open.
func (c *Controller) begin(kind Kind, phase Phase, want Modal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slots[kind]
	if s.phase != PhaseIdle {
		return apperr.ErrBusy
	}
	if want != ModalNone && s.modal != want {
		return ErrNoModal
	}
	s.phase = phase
	return nil
}

// finish settles an in-flight mutation. A successful interactive mutation
// closes its dialog; a failed one keeps it open for a retry unless the target
// is gone or the action is not allowed.
func (c *Controller) finish(kind Kind, interactive bool, success string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slots[kind]
	s.phase = PhaseIdle
	if err == nil {
		s.err = nil
		if interactive {
			s.close()
		}
		c.noticeLocked(kind, LevelSuccess, success, nil)
		return
	}
	s.err = err
	var (
		nf *apperr.NotFoundError
		pe *apperr.PolicyError
	)
	if interactive && (errors.As(err, &nf) || errors.As(err, &pe)) {
		s.close()
	}
	c.noticeLocked(kind, LevelError, Message(err), err)
}

// reject records a client-side validation failure without touching the
// phase. It is reported against the field, not as a notice.
func (c *Controller) reject(kind Kind, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[kind].err = err
	return err
}

// Run performs a one-shot mutation of kind with no dialog. It fails with
// ErrBusy while another mutation of kind is in flight and leaves a notice
// with success or the error.
func (c *Controller) Run(ctx context.Context, kind Kind, phase Phase, success string, fn func(ctx context.Context) error) error {
	if err := c.begin(kind, phase, ModalNone); err != nil {
		return err
	}
	err := fn(ctx)
	c.finish(kind, false, success, err)
	return err
}

// Cancel closes the open dialog of kind.
func (c *Controller) Cancel(kind Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slots[kind]
	if s.phase != PhaseIdle {
		return apperr.ErrBusy
	}
	if s.modal == ModalNone {
		return ErrNoModal
	}
	s.close()
	s.err = nil
	return nil
}
