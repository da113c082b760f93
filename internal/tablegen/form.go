package tablegen

import (
	"strings"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/columns"
)

const CurrencyPlaceholder = "₹ 0000"

type FormField struct {
	Name        string             `json:"name"`
	Label       string             `json:"label"`
	Type        columns.ColumnType `json:"type"`
	Input       string             `json:"input"`
	Placeholder string             `json:"placeholder,omitempty"`
	Required    bool               `json:"required"`
	Value       string             `json:"value"`
}

type Form struct {
	Fields []FormField `json:"fields"`
}

var placeholders = map[columns.ColumnType]string{
	columns.TypeCurrency: CurrencyPlaceholder,
}

// GenerateForm builds one text input per stored column, in schema order,
// prefilled from values.
func GenerateForm(cols []columns.Column, values map[string]string) Form {
	form := Form{Fields: make([]FormField, 0, len(cols))}
	for _, c := range columns.Stored(cols) {
		form.Fields = append(form.Fields, FormField{
			Name:        c.DataIndex,
			Label:       c.Title,
			Type:        c.Type,
			Input:       "text",
			Placeholder: placeholders[c.Type],
			Required:    c.Required,
			Value:       values[c.DataIndex],
		})
	}
	return form
}

// Check reports the first required field left blank in values.
func (f Form) Check(values map[string]string) error {
	for _, field := range f.Fields {
		if field.Required && strings.TrimSpace(values[field.Name]) == "" {
			return apperr.Validation(field.Name, field.Label+" is required")
		}
	}
	return nil
}

// Values keeps the entries of values that belong to a form field.
func (f Form) Values(values map[string]string) map[string]string {
	out := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		if v, ok := values[field.Name]; ok {
			out[field.Name] = v
		}
	}
	return out
}
