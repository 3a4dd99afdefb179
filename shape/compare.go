package shape

import "strconv"

type OutcomeKind int

const (
	OutcomeEqual          OutcomeKind = 0
	OutcomeLengthMismatch OutcomeKind = 1
	OutcomeFieldMismatch  OutcomeKind = 2
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeEqual:
		return "equal"
	case OutcomeLengthMismatch:
		return "length mismatch"
	case OutcomeFieldMismatch:
		return "field mismatch"
	}
	return "unknown"
}

// Outcome is the result of comparing two schemas. A mismatch is a normal
// result, not an error.
type Outcome struct {
	Kind OutcomeKind

	// LengthMismatch
	N1, N2 int

	// FieldMismatch
	Index  int
	Field  string
	V1, V2 string
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeLengthMismatch:
		return "length mismatch: " + strconv.Itoa(o.N1) + " != " + strconv.Itoa(o.N2)
	case OutcomeFieldMismatch:
		return "row " + strconv.Itoa(o.Index) + " " + o.Field + " mismatch: " + o.V1 + " != " + o.V2
	}
	return o.Kind.String()
}

// Compare walks both tables in lockstep and reports the first difference.
func Compare(a, b *Schema) Outcome {
	if len(a.rows) != len(b.rows) {
		return Outcome{Kind: OutcomeLengthMismatch, N1: len(a.rows), N2: len(b.rows)}
	}
	for i := range a.rows {
		r, q := a.rows[i], b.rows[i]
		switch {
		case r.Depth != q.Depth:
			return fieldMismatch(i, "depth", strconv.Itoa(r.Depth), strconv.Itoa(q.Depth))
		case r.Key != q.Key:
			return fieldMismatch(i, "key", r.Key, q.Key)
		case r.Type != q.Type:
			return fieldMismatch(i, "type", r.Type.String(), q.Type.String())
		case r.Parent != q.Parent:
			return fieldMismatch(i, "parent", strconv.Itoa(r.Parent), strconv.Itoa(q.Parent))
		}
	}
	return Outcome{Kind: OutcomeEqual}
}

func fieldMismatch(i int, field, v1, v2 string) Outcome {
	return Outcome{Kind: OutcomeFieldMismatch, Index: i, Field: field, V1: v1, V2: v2}
}
