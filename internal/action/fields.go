package action

import (
	"fmt"

	"github.com/xkilldash9x/botctl/api/schemas"
)

// Fields is the page an action reads from: element values by id and the values
// of checked checkboxes by group name.
type Fields interface {
	// Value returns the raw value of the field with the given id and whether
	// such a field exists.
	Value(id string) (string, bool)
	// Checked returns the values of the checked checkboxes named name, in
	// document order.
	Checked(name string) []string
}

// MissingFieldError reports that a builder referenced a field the source does not have.
type MissingFieldError struct {
	ID string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %q not found", e.ID)
}

type noFields struct{}

func (noFields) Value(string) (string, bool) { return "", false }
func (noFields) Checked(string) []string { return nil }

// reader applies coercions to a Fields source and remembers the first missing
// field so builders can read everything they need without checking each call.
type reader struct {
	fields Fields
	err    error
}

func (r *reader) raw(id string) string {
	v, ok := r.fields.Value(id)
	if !ok && r.err == nil {
		r.err = &MissingFieldError{ID: id}
	}
	return wellFormed(v)
}

func (r *reader) text(id string) string { return Trim(r.raw(id)) }
func (r *reader) integer(id string) *schemas.Number { return number(ParseInt(r.raw(id))) }
func (r *reader) float(id string) *schemas.Number { return number(ParseFloat(r.raw(id))) }
func (r *reader) list(id string) []string { return SplitList(r.raw(id)) }

func (r *reader) numbers(id string) []*schemas.Number {
	parts := SplitNumbers(r.raw(id))
	out := make([]*schemas.Number, len(parts))
	for i, p := range parts {
		out[i] = number(p)
	}
	return out
}

func number(f *float64) *schemas.Number {
	if f == nil {
		return nil
	}
	n := schemas.Number(*f)
	return &n
}

// flag mirrors a "True"/"False" select.
func (r *reader) flag(id string) bool { return r.raw(id) == "True" }

func (r *reader) checked(name string) []string {
	out := []string{}
	for _, v := range r.fields.Checked(name) {
		out = append(out, wellFormed(v))
	}
	return out
}

// recorder is a Fields source that accepts every lookup and remembers what was
// asked for. It is used to list the inputs of an action.
type recorder struct {
	values  []string
	checked []string
}

func (rec *recorder) Value(id string) (string, bool) {
	rec.values = append(rec.values, id)
	return "", true
}

func (rec *recorder) Checked(name string) []string {
	rec.checked = append(rec.checked, name)
	return nil
}
