package gateway

// Op is a filter comparison operator.
type Op string

// The two operators the backend contract supports. There is no OR, no
// range queries; multiple filters always AND-compose.
const (
	OpEquals    Op = "=="
	OpNotEquals Op = "!="
)

// Filter is a single field predicate. A nil Value is meaningful: with
// OpEquals it matches records whose field is null (the backlog idiom),
// with OpNotEquals it matches records whose field is set to any
// non-null value.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Equals builds a field == value predicate.
func Equals(field string, value any) Filter {
	return Filter{Field: field, Op: OpEquals, Value: value}
}

// NotEquals builds a field != value predicate.
func NotEquals(field string, value any) Filter {
	return Filter{Field: field, Op: OpNotEquals, Value: value}
}

// Matches evaluates the predicate against a record's fields. A missing
// field is treated as null.
func (f Filter) Matches(fields map[string]any) bool {
	value := fields[f.Field]

	switch f.Op {
	case OpEquals:
		return equalValues(value, f.Value)
	case OpNotEquals:
		if f.Value == nil {
			return value != nil
		}
		return !equalValues(value, f.Value)
	}
	return false
}

// equalValues compares two scalar field values. Document field values
// are comparable scalars (string, bool, int, time.Time) or nil; filters
// never target array or map fields.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
