package columns

import (
	"strings"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/infra/docstore"

	"github.com/spf13/cast"
)

// ColumnType selects how a column is stored, rendered and edited.
type ColumnType string

const (
	TypeText     ColumnType = "text"
	TypeCurrency ColumnType = "currency"
	TypeButton   ColumnType = "button"
)

func (t ColumnType) Valid() bool {
	switch t {
	case TypeText, TypeCurrency, TypeButton:
		return true
	}
	return false
}

// Stored reports whether records carry a value for columns of this type.
// Button columns are render-only.
func (t ColumnType) Stored() bool {
	return t != TypeButton
}

// Document keys of a column.
const (
	FieldTitle     = "title"
	FieldDataIndex = "dataIndex"
	FieldType      = "type"
	FieldRequired  = "required"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// reserved keys cannot be used as a dataIndex since records use them.
var reserved = map[string]bool{"id": true, "createdAt": true, "updatedAt": true}

type Column struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	DataIndex string     `json:"dataIndex"`
	Type      ColumnType `json:"type"`
	Required  bool       `json:"required"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Input is the editable part of a column.
type Input struct {
	Title     string     `json:"title"`
	DataIndex string     `json:"dataIndex"`
	Type      ColumnType `json:"type"`
	Required  bool       `json:"required"`
}

// Normalize trims the text fields and defaults an empty type to text.
func (in Input) Normalize() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.DataIndex = strings.TrimSpace(in.DataIndex)
	in.Type = ColumnType(strings.ToLower(strings.TrimSpace(string(in.Type))))
	if in.Type == "" {
		in.Type = TypeText
	}
	return in
}

func (in Input) Validate() error {
	switch {
	case in.Title == "":
		return apperr.Validation(FieldTitle, "Column title is required")
	case in.DataIndex == "":
		return apperr.Validation(FieldDataIndex, "Data index is required")
	case strings.ContainsAny(in.DataIndex, " .$"):
		return apperr.Validation(FieldDataIndex, "Data index cannot contain spaces, dots or $")
	case reserved[in.DataIndex]:
		return apperr.Validation(FieldDataIndex, "Data index "+in.DataIndex+" is reserved")
	case !in.Type.Valid():
		return apperr.Validation(FieldType, "Unknown column type "+string(in.Type))
	}
	return nil
}

// Data is the document body for the input, without timestamps.
func (in Input) Data() map[string]any {
	return map[string]any{
		FieldTitle:     in.Title,
		FieldDataIndex: in.DataIndex,
		FieldType:      string(in.Type),
		FieldRequired:  in.Required,
	}
}

func (c Column) Input() Input {
	return Input{Title: c.Title, DataIndex: c.DataIndex, Type: c.Type, Required: c.Required}
}

func FromDocument(doc docstore.Document) Column {
	c := Column{
		ID:        doc.ID,
		Title:     cast.ToString(doc.Data[FieldTitle]),
		DataIndex: cast.ToString(doc.Data[FieldDataIndex]),
		Type:      ColumnType(cast.ToString(doc.Data[FieldType])),
		Required:  cast.ToBool(doc.Data[FieldRequired]),
		CreatedAt: docstore.ParseTimestamp(doc.Data[FieldCreatedAt]),
	}
	if updated := docstore.ParseTimestamp(doc.Data[FieldUpdatedAt]); !updated.IsZero() {
		c.UpdatedAt = &updated
	}
	return c
}

func FromDocuments(docs []docstore.Document) []Column {
	out := make([]Column, 0, len(docs))
	for _, d := range docs {
		out = append(out, FromDocument(d))
	}
	return out
}

// Find returns the column with the given id.
func Find(cols []Column, id string) (Column, bool) {
	for _, c := range cols {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// Stored returns the columns whose values live on records, in order.
func Stored(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if c.Type.Stored() {
			out = append(out, c)
		}
	}
	return out
}

// CheckConflicts validates in against the other columns of the schema:
// dataIndex must be unique and at most one button column may exist. The
// column being edited is identified by selfID.
func CheckConflicts(cols []Column, in Input, selfID string) error {
	for _, c := range cols {
		if c.ID == selfID {
			continue
		}
		if c.DataIndex == in.DataIndex {
			return apperr.Validation(FieldDataIndex, "Data index "+in.DataIndex+" is already used by "+c.Title)
		}
		if in.Type == TypeButton && c.Type == TypeButton {
			return apperr.Validation(FieldType, "Only one button column is allowed")
		}
	}
	return nil
}
