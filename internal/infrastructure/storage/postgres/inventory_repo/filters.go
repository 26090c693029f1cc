package inventory_repo

import (
	"github.com/Masterminds/squirrel"

	"stockscope/internal/domain/filter"
)

// whereCriteria translates c into SQL predicates. Column names come from
// the domain field sets, never from request input.
func whereCriteria(c filter.Criteria) []squirrel.Sqlizer {
	var out []squirrel.Sqlizer

	for _, t := range c.Text {
		out = append(out, squirrel.ILike{t.Column: filter.LikePattern(t.Value)})
	}

	for _, r := range c.Ranges {
		for _, b := range r.Lower {
			if b.Inclusive {
				out = append(out, squirrel.GtOrEq{r.Column: b.Value})
			} else {
				out = append(out, squirrel.Gt{r.Column: b.Value})
			}
		}
		for _, b := range r.Upper {
			if b.Inclusive {
				out = append(out, squirrel.LtOrEq{r.Column: b.Value})
			} else {
				out = append(out, squirrel.Lt{r.Column: b.Value})
			}
		}
		for _, v := range r.Exact {
			out = append(out, squirrel.Eq{r.Column: v})
		}
	}

	for _, w := range c.Dates {
		from, to := w.Bounds()
		if from != nil {
			out = append(out, squirrel.GtOrEq{w.Column: *from})
		}
		if to != nil {
			out = append(out, squirrel.Lt{w.Column: *to})
		}
	}

	if c.StatusColumn != "" {
		out = append(out, statusPredicates(c)...)
	}
	return out
}

func statusPredicates(c filter.Criteria) []squirrel.Sqlizer {
	var out []squirrel.Sqlizer
	switch c.Status {
	case filter.ViewActive:
		out = append(out, squirrel.Eq{c.StatusColumn: "active"})
	case filter.ViewSold:
		out = append(out, squirrel.Eq{c.StatusColumn: "passive"}, squirrel.NotEq{c.CustomerColumn: nil})
	case filter.ViewRemoved:
		out = append(out, squirrel.Eq{c.StatusColumn: "passive"}, squirrel.Eq{c.CustomerColumn: nil})
	}
	if c.CustomerRef != nil {
		out = append(out, squirrel.Eq{c.CustomerColumn: *c.CustomerRef})
	}
	return out
}

// applyCriteria adds the predicates of c and an optional notes search to q.
func applyCriteria(q squirrel.SelectBuilder, c filter.Criteria, notesColumn, notes string) squirrel.SelectBuilder {
	for _, p := range whereCriteria(c) {
		q = q.Where(p)
	}
	if notes != "" {
		q = q.Where(squirrel.ILike{notesColumn: filter.LikePattern(notes)})
	}
	return q
}
