package tablegen

import (
	"sync"

	"booking-app/internal/domain/columns"
	"booking-app/internal/domain/plans"
)

// ColumnSource is a live column schema.
type ColumnSource interface {
	Columns() []columns.Column
	Subscribe(fn func([]columns.Column)) func()
}

// Generator keeps table and form descriptions in step with a ColumnSource.
type Generator struct {
	mu     sync.RWMutex
	cols   []columns.Column
	public []Column
	table  []Column

	unsub func()
}

func NewGenerator(src ColumnSource) *Generator {
	g := &Generator{}
	g.Update(src.Columns())
	unsub := src.Subscribe(g.Update)
	g.mu.Lock()
	g.unsub = unsub
	g.mu.Unlock()
	return g
}

// Update regenerates everything from cols.
func (g *Generator) Update(cols []columns.Column) {
	cols = append([]columns.Column(nil), cols...)
	public := PublicColumns(cols)
	table := GenerateTableColumns(cols)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.cols = cols
	g.public = public
	g.table = table
}

func (g *Generator) Columns() []columns.Column {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]columns.Column(nil), g.cols...)
}

func (g *Generator) TableColumns() []Column {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Column(nil), g.table...)
}

func (g *Generator) PublicColumns() []Column {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Column(nil), g.public...)
}

// CreateForm is an empty form over the current schema.
func (g *Generator) CreateForm() Form {
	return GenerateForm(g.Columns(), nil)
}

// EditForm is a form over the current schema prefilled with p.
func (g *Generator) EditForm(p plans.Plan) Form {
	return GenerateForm(g.Columns(), p.Fields)
}

// Table renders list with the admin columns.
func (g *Generator) Table(list []plans.Plan, opts RenderOptions) ([]Column, []Row) {
	cols := g.TableColumns()
	return cols, RenderTable(cols, list, opts)
}

// PublicTable renders list for visitors, without row actions.
func (g *Generator) PublicTable(list []plans.Plan) ([]Column, []Row) {
	cols := g.PublicColumns()
	return cols, RenderTable(cols, list, RenderOptions{})
}

func (g *Generator) Close() {
	g.mu.Lock()
	unsub := g.unsub
	g.unsub = nil
	g.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
