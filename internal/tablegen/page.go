package tablegen

import "booking-app/internal/domain/columns"

// PerPage is the admin table page size.
const PerPage = 10

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginate returns page (1-based) of items. Pages past the end are empty,
// however large; pages below 1 are clamped to 1.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = PerPage
	}
	if page < 1 {
		page = 1
	}
	p := Page[T]{
		Page:       page,
		PerPage:    perPage,
		Total:      len(items),
		TotalPages: len(items) / perPage,
	}
	if len(items)%perPage != 0 {
		p.TotalPages++
	}
	if page > p.TotalPages {
		p.Items = []T{}
		return p
	}
	start := (page - 1) * perPage
	p.Items = items[start : start+min(perPage, len(items)-start)]
	return p
}

// ColumnManagementTable lists the schema itself for the column admin view.
func ColumnManagementTable(cols []columns.Column, opts RenderOptions) ([]Column, []Row) {
	header := []Column{
		{Key: columns.FieldTitle, Label: "Column Title", Kind: KindValue},
		{Key: columns.FieldDataIndex, Label: "Data Index", Kind: KindValue},
		{Key: columns.FieldType, Label: "Type", Kind: KindValue},
		{Key: columns.FieldRequired, Label: "Required", Kind: KindValue},
		{Key: ActionsKey, Label: ActionsLabel, Kind: KindActions},
	}
	rows := make([]Row, 0, len(cols))
	for _, c := range cols {
		required := "No"
		if c.Required {
			required = "Yes"
		}
		rows = append(rows, Row{ID: c.ID, Cells: []Cell{
			{Key: columns.FieldTitle, Text: c.Title},
			{Key: columns.FieldDataIndex, Text: c.DataIndex},
			{Key: columns.FieldType, Text: string(c.Type)},
			{Key: columns.FieldRequired, Text: required},
			{Key: ActionsKey, Actions: []Action{
				{Name: ActionEdit, Disabled: opts.Busy},
				{Name: ActionDelete, Disabled: c.Required || opts.Busy},
			}},
		}})
	}
	return header, rows
}
