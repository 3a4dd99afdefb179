package report

import "github.com/dangunter/alsdata/shape"

// Visitor receives the structure of a schema from Walk. Depth starts at 1
// for root rows.
type Visitor interface {
	Begin()
	End()
	BeginItemize(depth int)
	EndItemize(depth int)
	BeginItem(depth int)
	EndItem(depth int)
	One(value string)
	Pair(key, value string)
}

// Walk visits the rows of s as a tree. Scalars become items (Pair for keyed
// rows, One for array elements). A keyed container becomes an item labelled
// key{} or key[] followed by its children one level deeper. An array element
// container is inlined when it is the only child of its array; otherwise it
// gets its own {} or [] item so distinct shapes stay apart.
func Walk(s *shape.Schema, v Visitor) {
	w := walker{s: s, v: v, children: childIndex(s)}
	v.Begin()
	w.itemize(shape.NoParent, 1)
	v.End()
}

type walker struct {
	s        *shape.Schema
	v        Visitor
	children map[int][]int
}

func (w *walker) itemize(parent, depth int) {
	w.v.BeginItemize(depth)
	siblings := w.children[parent]
	for _, i := range siblings {
		w.item(i, depth, len(siblings) > 1)
	}
	w.v.EndItemize(depth)
}

func (w *walker) item(i, depth int, shared bool) {
	row := w.s.Row(i)
	if !row.Type.Composite() {
		w.v.BeginItem(depth)
		if row.Key != "" {
			w.v.Pair(row.Key, row.Type.String())
		} else {
			w.v.One(row.Type.String())
		}
		w.v.EndItem(depth)
		return
	}

	if row.Key == "" && !shared {
		w.itemize(i, depth)
		return
	}

	w.v.BeginItem(depth)
	w.v.One(row.Key + containerSymbol(row.Type))
	w.itemize(i, depth+1)
	w.v.EndItem(depth)
}

func containerSymbol(t shape.Type) string {
	if t == shape.TypeArray {
		return "[]"
	}
	return "{}"
}

// childIndex maps every row to its children in one pass over the table.
func childIndex(s *shape.Schema) map[int][]int {
	res := make(map[int][]int)
	for i := 0; i < s.Len(); i++ {
		p := s.Row(i).Parent
		res[p] = append(res[p], i)
	}
	return res
}
