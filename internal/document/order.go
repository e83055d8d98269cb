package document

import "encoding/json"

// Order is the display sequence of sections. It never holds duplicates and
// is never mutated in place; Move returns a fresh slice.
type Order []Section

// DefaultOrder is the order a new document starts with.
func DefaultOrder() Order {
	out := make(Order, len(Sections))
	copy(out, Sections)
	return out
}

// NewOrder validates a sequence of sections.
func NewOrder(sections ...Section) (Order, error) {
	seen := make(map[Section]bool, len(sections))
	out := make(Order, 0, len(sections))
	for _, s := range sections {
		if !s.Valid() {
			return nil, invalid("sectionOrder", ErrUnknownSection, "%q", s)
		}
		if seen[s] {
			return nil, invalid("sectionOrder", ErrDuplicateSection, "%q", s)
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// ParseOrder is NewOrder over raw identifiers.
func ParseOrder(ids []string) (Order, error) {
	sections := make([]Section, 0, len(ids))
	for _, id := range ids {
		s, err := ParseSection(id)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return NewOrder(sections...)
}

// Move removes the section at from and inserts it at to, where to indexes the
// already-shortened sequence (drag-reorder semantics): moving 0 to 2 in
// [A B C D] gives [B C A D].
func (o Order) Move(from, to int) (Order, error) {
	if from < 0 || from >= len(o) {
		return nil, invalid("fromIndex", ErrIndexOutOfRange, "%d not in [0,%d)", from, len(o))
	}
	if to < 0 || to >= len(o) {
		return nil, invalid("toIndex", ErrIndexOutOfRange, "%d not in [0,%d)", to, len(o))
	}
	moved := o[from]
	rest := make(Order, 0, len(o))
	rest = append(rest, o[:from]...)
	rest = append(rest, o[from+1:]...)

	out := make(Order, 0, len(o))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out, nil
}

// Strings returns the identifiers for storage.
func (o Order) Strings() []string {
	out := make([]string, len(o))
	for i, s := range o {
		out[i] = string(s)
	}
	return out
}

func (o *Order) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	parsed, err := ParseOrder(ids)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
