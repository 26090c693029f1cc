package filter

import "strings"

// TextMatch is a case-insensitive substring predicate.
type TextMatch struct {
	Column string
	Value  string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern returns the ILIKE pattern for a substring search with LIKE
// wildcards in v escaped.
func LikePattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}
