// Package filter turns flat query parameters into typed predicates.
//
// Parsing happens once at the HTTP boundary. Repositories translate the
// resulting Criteria into SQL; nothing here knows about a database.
package filter

// Field maps a query parameter prefix to a column.
type Field struct {
	Param  string
	Column string
}

// FieldSet declares which parameters an entity accepts.
type FieldSet struct {
	// Numeric fields accept <param>Comparison1/Value1/Comparison2/Value2.
	Numeric []Field
	// Text fields accept <param>=<substring>.
	Text []Field

	// CreatedColumn is targeted by dateExact/dateBefore/dateAfter.
	CreatedColumn string
	// PassiveColumn is targeted by passiveDateExact/Before/After. Empty disables them.
	PassiveColumn string

	// StatusColumn and CustomerColumn enable statusType and customerId.
	StatusColumn   string
	CustomerColumn string
}

func (fs FieldSet) hasStatus() bool {
	return fs.StatusColumn != "" && fs.CustomerColumn != ""
}
