// Package tablegen turns the column schema into table and form descriptions.
// Nothing here knows a field name: every column and input comes from the
// schema.
package tablegen

import (
	"booking-app/internal/domain/columns"
	"booking-app/internal/domain/plans"
)

// Kind tells a client how to draw a column.
type Kind string

const (
	KindValue   Kind = "value"
	KindAction  Kind = "action"
	KindActions Kind = "actions"
)

const (
	ActionsKey   = "actions"
	ActionsLabel = "Actions"
	EmptyValue   = "-"
	BookNowLabel = "Book Now"
)

// Row action names.
const (
	ActionBook   = "book"
	ActionView   = "view"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

type Column struct {
	Key   string             `json:"key"`
	Label string             `json:"label"`
	Kind  Kind               `json:"kind"`
	Type  columns.ColumnType `json:"type,omitempty"`
}

type Action struct {
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

type Cell struct {
	Key     string   `json:"key"`
	Text    string   `json:"text,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

type Row struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

type RenderOptions struct {
	// Busy disables the row actions while a mutation is in flight.
	Busy bool
}

type renderer struct {
	kind Kind
	cell func(col Column, p plans.Plan, opts RenderOptions) Cell
}

var valueRenderer = renderer{kind: KindValue, cell: renderValue}

var renderers = map[columns.ColumnType]renderer{
	columns.TypeText:     valueRenderer,
	columns.TypeCurrency: valueRenderer,
	columns.TypeButton:   {kind: KindAction, cell: renderBookNow},
}

// rendererFor falls back to plain values for types this build does not know.
func rendererFor(t columns.ColumnType) renderer {
	if r, ok := renderers[t]; ok {
		return r
	}
	return valueRenderer
}

func renderValue(col Column, p plans.Plan, _ RenderOptions) Cell {
	v, ok := p.Value(col.Key)
	if !ok || v == "" {
		v = EmptyValue
	}
	return Cell{Key: col.Key, Text: v}
}

func renderBookNow(col Column, _ plans.Plan, _ RenderOptions) Cell {
	return Cell{Key: col.Key, Actions: []Action{{Name: ActionBook, Label: BookNowLabel}}}
}

func renderRowActions(col Column, _ plans.Plan, opts RenderOptions) Cell {
	return Cell{Key: col.Key, Actions: []Action{
		{Name: ActionView, Disabled: opts.Busy},
		{Name: ActionEdit, Disabled: opts.Busy},
		{Name: ActionDelete, Disabled: opts.Busy},
	}}
}

// PublicColumns lists the schema columns in order. Only the first button
// column is kept.
func PublicColumns(cols []columns.Column) []Column {
	out := make([]Column, 0, len(cols)+1)
	button := false
	for _, c := range cols {
		if c.Type == columns.TypeButton {
			if button {
				continue
			}
			button = true
		}
		out = append(out, Column{
			Key:   c.DataIndex,
			Label: c.Title,
			Kind:  rendererFor(c.Type).kind,
			Type:  c.Type,
		})
	}
	return out
}

// GenerateTableColumns is PublicColumns followed by the Actions column.
func GenerateTableColumns(cols []columns.Column) []Column {
	return append(PublicColumns(cols), Column{Key: ActionsKey, Label: ActionsLabel, Kind: KindActions})
}

// RenderTable renders one row per plan. Fields without a column are ignored
// and columns without a field show EmptyValue.
func RenderTable(tcols []Column, list []plans.Plan, opts RenderOptions) []Row {
	rows := make([]Row, 0, len(list))
	for _, p := range list {
		row := Row{ID: p.ID, Cells: make([]Cell, 0, len(tcols))}
		for _, col := range tcols {
			var cell Cell
			if col.Kind == KindActions {
				cell = renderRowActions(col, p, opts)
			} else {
				cell = rendererFor(col.Type).cell(col, p, opts)
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}
