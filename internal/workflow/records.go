package workflow

import (
	"context"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/plans"
	"booking-app/internal/tablegen"
)

func (c *Controller) findPlan(id string) (plans.Plan, error) {
	p, ok := plans.Find(c.records.Plans(), id)
	if !ok {
		return plans.Plan{}, apperr.NotFound("plan", id)
	}
	return p, nil
}

// OpenCreateRecord returns an empty form over the current schema.
func (c *Controller) OpenCreateRecord() (tablegen.Form, error) {
	var form tablegen.Form
	err := c.open(KindRecord, ModalCreate, func(s *slot) error {
		form = c.forms.CreateForm()
		s.form = form
		return nil
	})
	return form, err
}

// OpenEditRecord returns a form prefilled with the plan as it is now. The
// form keeps the fields of the schema at open time.
func (c *Controller) OpenEditRecord(id string) (tablegen.Form, error) {
	var form tablegen.Form
	err := c.open(KindRecord, ModalEdit, func(s *slot) error {
		p, err := c.findPlan(id)
		if err != nil {
			return err
		}
		form = c.forms.EditForm(p)
		s.plan = &p
		s.form = form
		return nil
	})
	return form, err
}

func (c *Controller) OpenDeleteRecord(id string) (plans.Plan, error) {
	var p plans.Plan
	err := c.open(KindRecord, ModalDelete, func(s *slot) error {
		var err error
		if p, err = c.findPlan(id); err != nil {
			return err
		}
		s.plan = &p
		return nil
	})
	return p, err
}

// SubmitRecord saves the open create or edit form.
func (c *Controller) SubmitRecord(ctx context.Context, values map[string]string) (plans.Plan, error) {
	c.mu.Lock()
	s := c.slots[KindRecord]
	modal, selected, form := s.modal, s.plan, s.form
	c.mu.Unlock()

	switch modal {
	case ModalCreate:
		return c.createRecord(ctx, form, values, true)
	case ModalEdit:
		return c.editRecord(ctx, selected.ID, form, values, true)
	}
	return plans.Plan{}, ErrNoModal
}

func (c *Controller) ConfirmDeleteRecord(ctx context.Context) error {
	c.mu.Lock()
	s := c.slots[KindRecord]
	modal, selected := s.modal, s.plan
	c.mu.Unlock()

	if modal != ModalDelete {
		return ErrNoModal
	}
	return c.deleteRecord(ctx, selected.ID, true)
}

func (c *Controller) CreateRecord(ctx context.Context, values map[string]string) (plans.Plan, error) {
	return c.createRecord(ctx, c.forms.CreateForm(), values, false)
}

func (c *Controller) EditRecord(ctx context.Context, id string, values map[string]string) (plans.Plan, error) {
	return c.editRecord(ctx, id, c.forms.CreateForm(), values, false)
}

func (c *Controller) DeleteRecord(ctx context.Context, id string) error {
	return c.deleteRecord(ctx, id, false)
}

func (c *Controller) createRecord(ctx context.Context, form tablegen.Form, values map[string]string, interactive bool) (plans.Plan, error) {
	if err := form.Check(values); err != nil {
		return plans.Plan{}, c.reject(KindRecord, err)
	}
	want := ModalNone
	if interactive {
		want = ModalCreate
	}
	if err := c.begin(KindRecord, PhaseCreating, want); err != nil {
		return plans.Plan{}, err
	}
	p, err := c.records.CreateRecord(ctx, form.Values(values))
	c.finish(KindRecord, interactive, "Plan created successfully", err)
	return p, err
}

func (c *Controller) editRecord(ctx context.Context, id string, form tablegen.Form, values map[string]string, interactive bool) (plans.Plan, error) {
	if err := form.Check(values); err != nil {
		return plans.Plan{}, c.reject(KindRecord, err)
	}
	want := ModalNone
	if interactive {
		want = ModalEdit
	}
	if err := c.begin(KindRecord, PhaseEditing, want); err != nil {
		return plans.Plan{}, err
	}
	p, err := c.records.UpdateRecord(ctx, id, form.Values(values))
	c.finish(KindRecord, interactive, "Plan updated successfully", err)
	return p, err
}

func (c *Controller) deleteRecord(ctx context.Context, id string, interactive bool) error {
	want := ModalNone
	if interactive {
		want = ModalDelete
	}
	if err := c.begin(KindRecord, PhaseDeleting, want); err != nil {
		return err
	}
	err := c.records.DeleteRecord(ctx, id)
	c.finish(KindRecord, interactive, "Plan deleted successfully", err)
	return err
}
