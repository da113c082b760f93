package docstore

import (
	"cmp"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

func sortDocuments(docs []Document, field string, dir Direction) {
	if field == "" {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		c := compareValues(docs[i].Data[field], docs[j].Data[field])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
}

// compareValues orders missing values first, numbers numerically and
// everything else by string form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if af, err := cast.ToFloat64E(a); err == nil {
		if bf, err := cast.ToFloat64E(b); err == nil {
			return cmp.Compare(af, bf)
		}
	}
	return strings.Compare(cast.ToString(a), cast.ToString(b))
}
