package columns

// Defaults is the schema seeded when the column collection is empty.
func Defaults() []Input {
	return []Input{
		{Title: "Service Title", DataIndex: "title", Type: TypeText, Required: true},
		{Title: "2 Hours Rate", DataIndex: "rate1", Type: TypeCurrency, Required: true},
		{Title: "4 Hours Rate", DataIndex: "rate2", Type: TypeCurrency, Required: true},
		{Title: "Full Night Rate", DataIndex: "rate3", Type: TypeCurrency, Required: true},
		{Title: "CTA", DataIndex: "cta", Type: TypeButton, Required: false},
	}
}
