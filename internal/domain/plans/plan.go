package plans

import (
	"time"

	"booking-app/internal/infra/docstore"

	"github.com/spf13/cast"
)

const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Plan is one booking-plan row. Fields are keyed by column dataIndex and may
// include values for columns that no longer exist.
type Plan struct {
	ID        string            `json:"id"`
	Fields    map[string]string `json:"fields"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Value returns the field stored under key.
func (p Plan) Value(key string) (string, bool) {
	v, ok := p.Fields[key]
	return v, ok
}

func FromDocument(doc docstore.Document) Plan {
	p := Plan{
		ID:        doc.ID,
		Fields:    make(map[string]string, len(doc.Data)),
		CreatedAt: docstore.ParseTimestamp(doc.Data[FieldCreatedAt]),
		UpdatedAt: docstore.ParseTimestamp(doc.Data[FieldUpdatedAt]),
	}
	for k, v := range doc.Data {
		if k == FieldCreatedAt || k == FieldUpdatedAt {
			continue
		}
		p.Fields[k] = cast.ToString(v)
	}
	return p
}

func FromDocuments(docs []docstore.Document) []Plan {
	out := make([]Plan, 0, len(docs))
	for _, d := range docs {
		out = append(out, FromDocument(d))
	}
	return out
}

// Find returns the plan with the given id.
func Find(list []Plan, id string) (Plan, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
