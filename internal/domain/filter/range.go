package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"stockscope/internal/core/apperror"
)

// Op is a numeric comparison operator.
type Op string

const (
	OpEq      Op = "eq"
	OpLt      Op = "lt"
	OpLte     Op = "lte"
	OpGt      Op = "gt"
	OpGte     Op = "gte"
	OpBetween Op = "between"
)

func parseOp(s string) (Op, bool) {
	switch op := Op(strings.ToLower(strings.TrimSpace(s))); op {
	case OpEq, OpLt, OpLte, OpGt, OpGte, OpBetween:
		return op, true
	}
	return "", false
}

// BetweenPolicy decides what "between" does when one value is missing.
type BetweenPolicy string

const (
	// BetweenDegrade keeps the supplied value as a one-sided inclusive bound.
	BetweenDegrade BetweenPolicy = "degrade"
	// BetweenReject fails with a validation error.
	BetweenReject BetweenPolicy = "reject"
)

// ParseBetweenPolicy accepts "degrade", "reject" or empty (degrade).
func ParseBetweenPolicy(s string) (BetweenPolicy, error) {
	switch p := BetweenPolicy(strings.ToLower(s)); p {
	case "":
		return BetweenDegrade, nil
	case BetweenDegrade, BetweenReject:
		return p, nil
	}
	return "", fmt.Errorf("unknown between policy %q", s)
}

// Bound is one side of a range.
type Bound struct {
	Value     float64
	Inclusive bool
}

// Range is the conjunction of the comparisons supplied for one column.
// Every comparison is kept literally: gt 5 and gte 7 give two lower
// bounds, and two eq values give two Exact entries.
type Range struct {
	Column string
	Lower  []Bound
	Upper  []Bound
	Exact  []float64
}

// Empty reports whether no comparison was collected.
func (r Range) Empty() bool {
	return len(r.Lower) == 0 && len(r.Upper) == 0 && len(r.Exact) == 0
}

func (r *Range) add(op Op, v float64) {
	switch op {
	case OpEq:
		r.Exact = append(r.Exact, v)
	case OpLt:
		r.Upper = append(r.Upper, Bound{Value: v})
	case OpLte:
		r.Upper = append(r.Upper, Bound{Value: v, Inclusive: true})
	case OpGt:
		r.Lower = append(r.Lower, Bound{Value: v})
	case OpGte:
		r.Lower = append(r.Lower, Bound{Value: v, Inclusive: true})
	}
}

// ParseNumeric reads the comparison parameters of every numeric field.
//
// A comparison slot is used only when both its operator and value are
// present. "between" is only meaningful in slot 1 and spans Value1..Value2
// inclusively.
func ParseNumeric(params url.Values, fields FieldSet, policy BetweenPolicy) ([]Range, error) {
	var ranges []Range
	for _, f := range fields.Numeric {
		r, err := parseRange(params, f, policy)
		if err != nil {
			return nil, err
		}
		if !r.Empty() {
			ranges = append(ranges, r)
		}
	}
	return ranges, nil
}

func parseRange(params url.Values, f Field, policy BetweenPolicy) (Range, error) {
	r := Range{Column: f.Column}

	op1, v1, err := readSlot(params, f.Param, 1)
	if err != nil {
		return r, err
	}
	op2, v2, err := readSlot(params, f.Param, 2)
	if err != nil {
		return r, err
	}
	if op2 == OpBetween {
		return r, apperror.NewValidation(fmt.Sprintf("%sComparison2 cannot be between", f.Param))
	}

	if op1 == OpBetween {
		switch {
		case v1 != nil && v2 != nil:
			r.add(OpGte, *v1)
			r.add(OpLte, *v2)
		case policy == BetweenReject:
			return r, apperror.NewValidation(fmt.Sprintf("%s between needs both values", f.Param))
		case v1 != nil:
			r.add(OpGte, *v1)
		case v2 != nil:
			r.add(OpLte, *v2)
		}
		return r, nil
	}

	if op1 != "" && v1 != nil {
		r.add(op1, *v1)
	}
	if op2 != "" && v2 != nil {
		r.add(op2, *v2)
	}
	return r, nil
}

func readSlot(params url.Values, prefix string, slot int) (Op, *float64, error) {
	opKey := fmt.Sprintf("%sComparison%d", prefix, slot)
	valKey := fmt.Sprintf("%sValue%d", prefix, slot)

	var op Op
	if raw := strings.TrimSpace(params.Get(opKey)); raw != "" {
		parsed, ok := parseOp(raw)
		if !ok {
			return "", nil, apperror.NewValidation(fmt.Sprintf("unknown operator %q for %s", raw, opKey))
		}
		op = parsed
	}

	raw := strings.TrimSpace(params.Get(valKey))
	if raw == "" {
		return op, nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", nil, apperror.NewValidation(fmt.Sprintf("%s must be a number", valKey))
	}
	return op, &v, nil
}
