package workflow

import (
	"context"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/columns"
)

func (c *Controller) findColumn(id string) (columns.Column, error) {
	col, ok := columns.Find(c.columns.Columns(), id)
	if !ok {
		return columns.Column{}, apperr.NotFound("column", id)
	}
	return col, nil
}

func (c *Controller) OpenCreateColumn() error {
	return c.open(KindColumn, ModalCreate, nil)
}

// OpenEditColumn selects the column as it is now. Later schema changes do
// not reach the open dialog.
func (c *Controller) OpenEditColumn(id string) (columns.Column, error) {
	var col columns.Column
	err := c.open(KindColumn, ModalEdit, func(s *slot) error {
		var err error
		if col, err = c.findColumn(id); err != nil {
			return err
		}
		s.column = &col
		return nil
	})
	return col, err
}

func (c *Controller) OpenDeleteColumn(id string) (columns.Column, error) {
	var col columns.Column
	err := c.open(KindColumn, ModalDelete, func(s *slot) error {
		var err error
		if col, err = c.findColumn(id); err != nil {
			return err
		}
		s.column = &col
		return nil
	})
	return col, err
}

// SubmitColumn saves the open create or edit dialog.
func (c *Controller) SubmitColumn(ctx context.Context, in columns.Input) (columns.Column, error) {
	c.mu.Lock()
	s := c.slots[KindColumn]
	modal, selected := s.modal, s.column
	c.mu.Unlock()

	switch modal {
	case ModalCreate:
		return c.createColumn(ctx, in, true)
	case ModalEdit:
		return c.editColumn(ctx, selected.ID, in, true)
	}
	return columns.Column{}, ErrNoModal
}

// ConfirmDeleteColumn deletes the column selected by OpenDeleteColumn.
func (c *Controller) ConfirmDeleteColumn(ctx context.Context) error {
	c.mu.Lock()
	s := c.slots[KindColumn]
	modal, selected := s.modal, s.column
	c.mu.Unlock()

	if modal != ModalDelete {
		return ErrNoModal
	}
	return c.deleteColumn(ctx, selected.ID, true)
}

func (c *Controller) CreateColumn(ctx context.Context, in columns.Input) (columns.Column, error) {
	return c.createColumn(ctx, in, false)
}

func (c *Controller) EditColumn(ctx context.Context, id string, in columns.Input) (columns.Column, error) {
	return c.editColumn(ctx, id, in, false)
}

func (c *Controller) DeleteColumn(ctx context.Context, id string) error {
	return c.deleteColumn(ctx, id, false)
}

func (c *Controller) createColumn(ctx context.Context, in columns.Input, interactive bool) (columns.Column, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return columns.Column{}, c.reject(KindColumn, err)
	}
	want := ModalNone
	if interactive {
		want = ModalCreate
	}
	if err := c.begin(KindColumn, PhaseCreating, want); err != nil {
		return columns.Column{}, err
	}
	col, err := c.columns.CreateColumn(ctx, in)
	c.finish(KindColumn, interactive, "Column created successfully", err)
	return col, err
}

func (c *Controller) editColumn(ctx context.Context, id string, in columns.Input, interactive bool) (columns.Column, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return columns.Column{}, c.reject(KindColumn, err)
	}
	want := ModalNone
	if interactive {
		want = ModalEdit
	}
	if err := c.begin(KindColumn, PhaseEditing, want); err != nil {
		return columns.Column{}, err
	}
	col, err := c.columns.UpdateColumn(ctx, id, in)
	c.finish(KindColumn, interactive, "Column updated successfully", err)
	return col, err
}

func (c *Controller) deleteColumn(ctx context.Context, id string, interactive bool) error {
	want := ModalNone
	if interactive {
		want = ModalDelete
	}
	if err := c.begin(KindColumn, PhaseDeleting, want); err != nil {
		return err
	}
	err := c.columns.DeleteColumn(ctx, id)
	c.finish(KindColumn, interactive, "Column deleted successfully", err)
	return err
}
