package plans

import "strings"

// Search keeps the plans with at least one field value containing query,
// ignoring case. A blank query matches everything.
func Search(list []Plan, query string) []Plan {
	out := make([]Plan, 0, len(list))
	if strings.TrimSpace(query) == "" {
		return append(out, list...)
	}
	q := strings.ToLower(query)
	for _, p := range list {
		for _, v := range p.Fields {
			if v != "" && strings.Contains(strings.ToLower(v), q) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
