package filter

import (
	"net/url"
	"strings"
	"time"

	"stockscope/internal/core/apperror"
	"stockscope/internal/core/id"
)

// Criteria is the parsed, typed form of a filter request. All predicates
// are combined with AND.
type Criteria struct {
	Text   []TextMatch
	Ranges []Range
	Dates  []DateWindow

	Status         StatusView
	StatusColumn   string
	CustomerColumn string
	// CustomerRef forces passive lots sold to this customer.
	CustomerRef *id.ID
}

// Builder parses request parameters against a FieldSet.
type Builder struct {
	Fields   FieldSet
	Between  BetweenPolicy
	Location *time.Location
}

// Parse builds Criteria from params.
func (b Builder) Parse(params url.Values) (Criteria, error) {
	var c Criteria

	for _, f := range b.Fields.Text {
		if v := strings.TrimSpace(params.Get(f.Param)); v != "" {
			c.Text = append(c.Text, TextMatch{Column: f.Column, Value: v})
		}
	}

	policy := b.Between
	if policy == "" {
		policy = BetweenDegrade
	}
	ranges, err := ParseNumeric(params, b.Fields, policy)
	if err != nil {
		return c, err
	}
	c.Ranges = ranges

	loc := b.Location
	if loc == nil {
		loc = time.UTC
	}
	if b.Fields.CreatedColumn != "" {
		w, err := ParseDateWindow(params, "date", b.Fields.CreatedColumn, loc)
		if err != nil {
			return c, err
		}
		if w != nil {
			c.Dates = append(c.Dates, *w)
		}
	}
	if b.Fields.PassiveColumn != "" {
		w, err := ParseDateWindow(params, "passiveDate", b.Fields.PassiveColumn, loc)
		if err != nil {
			return c, err
		}
		if w != nil {
			c.Dates = append(c.Dates, *w)
		}
	}

	if b.Fields.hasStatus() {
		c.StatusColumn = b.Fields.StatusColumn
		c.CustomerColumn = b.Fields.CustomerColumn

		view, err := ParseStatusView(params.Get("statusType"))
		if err != nil {
			return c, err
		}
		c.Status = view

		ref, err := id.ParseOptional(params.Get("customerId"))
		if err != nil {
			return c, apperror.NewValidation("customerId must be a valid id")
		}
		c.CustomerRef = ref
	}

	return c, nil
}
