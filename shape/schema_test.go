package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRowsKeyOrderInvariance(t *testing.T) {
	// {"a": {"x": 1}, "b": {"x": 1, "y": 2}} visited in two different orders.
	first := FromRows([]Row{
		{Depth: 0, Key: "a", Type: TypeDict, Parent: NoParent},
		{Depth: 1, Key: "x", Type: TypeInt, Parent: 0},
		{Depth: 0, Key: "b", Type: TypeDict, Parent: NoParent},
		{Depth: 1, Key: "x", Type: TypeInt, Parent: 2},
		{Depth: 1, Key: "y", Type: TypeInt, Parent: 2},
	})
	second := FromRows([]Row{
		{Depth: 0, Key: "b", Type: TypeDict, Parent: NoParent},
		{Depth: 1, Key: "y", Type: TypeInt, Parent: 0},
		{Depth: 1, Key: "x", Type: TypeInt, Parent: 0},
		{Depth: 0, Key: "a", Type: TypeDict, Parent: NoParent},
		{Depth: 1, Key: "x", Type: TypeInt, Parent: 3},
	})

	assert.Equal(t, OutcomeEqual, Compare(first, second).Kind)
	assert.Equal(t, first.Hash(), second.Hash())
	assert.Equal(t, []Row{
		{Depth: 0, Key: "a", Type: TypeDict, Parent: NoParent},
		{Depth: 0, Key: "b", Type: TypeDict, Parent: NoParent},
		{Depth: 1, Key: "x", Type: TypeInt, Parent: 0},
		{Depth: 1, Key: "x", Type: TypeInt, Parent: 1},
		{Depth: 1, Key: "y", Type: TypeInt, Parent: 1},
	}, first.Rows())
}

func TestFromRowsSubtreeTieBreak(t *testing.T) {
	// Two array elements differ only below the first level.
	first := FromRows([]Row{
		{Depth: 0, Key: "l", Type: TypeArray, Parent: NoParent},
		{Depth: 1, Key: "", Type: TypeDict, Parent: 0},
		{Depth: 2, Key: "v", Type: TypeStr, Parent: 1},
		{Depth: 1, Key: "", Type: TypeDict, Parent: 0},
		{Depth: 2, Key: "v", Type: TypeInt, Parent: 3},
	})
	second := FromRows([]Row{
		{Depth: 0, Key: "l", Type: TypeArray, Parent: NoParent},
		{Depth: 1, Key: "", Type: TypeDict, Parent: 0},
		{Depth: 2, Key: "v", Type: TypeInt, Parent: 1},
		{Depth: 1, Key: "", Type: TypeDict, Parent: 0},
		{Depth: 2, Key: "v", Type: TypeStr, Parent: 3},
	})

	assert.True(t, first.Equal(second))
	assert.Equal(t, Row{Depth: 2, Key: "v", Type: TypeInt, Parent: 1}, first.Row(3))
	assert.Equal(t, Row{Depth: 2, Key: "v", Type: TypeStr, Parent: 2}, first.Row(4))
}

func TestFromRowsSubSchema(t *testing.T) {
	// Sub-schemas start below depth zero.
	s := FromRows([]Row{
		{Depth: 3, Key: "", Type: TypeDict, Parent: NoParent},
		{Depth: 4, Key: "k", Type: TypeStr, Parent: 0},
		{Depth: 4, Key: "a", Type: TypeArray, Parent: 0},
		{Depth: 5, Key: "", Type: TypeFloat, Parent: 2},
	})
	assert.Equal(t, []Row{
		{Depth: 3, Key: "", Type: TypeDict, Parent: NoParent},
		{Depth: 4, Key: "a", Type: TypeArray, Parent: 0},
		{Depth: 4, Key: "k", Type: TypeStr, Parent: 0},
		{Depth: 5, Key: "", Type: TypeFloat, Parent: 1},
	}, s.Rows())
}

func TestFromRowsDoesNotModifyInput(t *testing.T) {
	rows := []Row{
		{Depth: 0, Key: "b", Type: TypeDict, Parent: NoParent},
		{Depth: 1, Key: "x", Type: TypeInt, Parent: 0},
		{Depth: 0, Key: "a", Type: TypeInt, Parent: NoParent},
	}
	orig := append([]Row(nil), rows...)
	_ = FromRows(rows)
	assert.Equal(t, orig, rows)
}

func TestCompareEmpty(t *testing.T) {
	empty := FromRows(nil)
	assert.Equal(t, OutcomeEqual, Compare(empty, FromRows([]Row{})).Kind)
	assert.Equal(t, empty.Hash(), FromRows([]Row{}).Hash())

	one := FromRows([]Row{{Depth: 0, Key: "a", Type: TypeInt, Parent: NoParent}})
	o := Compare(empty, one)
	assert.Equal(t, OutcomeLengthMismatch, o.Kind)
	assert.Equal(t, 0, o.N1)
	assert.Equal(t, 1, o.N2)
}

func TestCompareLengthMismatch(t *testing.T) {
	a := mustProcess(t, map[string]any{"a": 1})
	b := mustProcess(t, map[string]any{"a": 1, "b": 2})

	o := Compare(a, b)
	assert.Equal(t, OutcomeLengthMismatch, o.Kind)
	assert.Equal(t, 1, o.N1)
	assert.Equal(t, 2, o.N2)
	assert.Equal(t, "length mismatch: 1 != 2", o.String())
	assert.False(t, a.Equal(b))
}

func TestCompareFieldMismatch(t *testing.T) {
	a := mustProcess(t, map[string]any{"a": 1})

	o := Compare(a, mustProcess(t, map[string]any{"a": "s"}))
	assert.Equal(t, Outcome{Kind: OutcomeFieldMismatch, Index: 0, Field: "type", V1: "int", V2: "str"}, o)
	assert.Equal(t, "row 0 type mismatch: int != str", o.String())

	o = Compare(a, mustProcess(t, map[string]any{"b": 1}))
	assert.Equal(t, OutcomeFieldMismatch, o.Kind)
	assert.Equal(t, "key", o.Field)
	assert.Equal(t, "a", o.V1)
	assert.Equal(t, "b", o.V2)

	c := mustProcess(t, map[string]any{"a": map[string]any{"x": 1}, "b": 2})
	d := mustProcess(t, map[string]any{"a": 1, "b": map[string]any{"x": 1}})
	o = Compare(c, d)
	assert.Equal(t, OutcomeFieldMismatch, o.Kind)
	assert.Equal(t, 0, o.Index)
	assert.Equal(t, "type", o.Field)
}

func TestCompareParentMismatch(t *testing.T) {
	a := FromRows([]Row{
		{Depth: 0, Key: "a", Type: TypeDict, Parent: NoParent},
		{Depth: 0, Key: "b", Type: TypeDict, Parent: NoParent},
		{Depth: 1, Key: "x", Type: TypeInt, Parent: 0},
	})
	b := FromRows([]Row{
		{Depth: 0, Key: "a", Type: TypeDict, Parent: NoParent},
		{Depth: 0, Key: "b", Type: TypeDict, Parent: NoParent},
		{Depth: 1, Key: "x", Type: TypeInt, Parent: 1},
	})

	o := Compare(a, b)
	assert.Equal(t, Outcome{Kind: OutcomeFieldMismatch, Index: 2, Field: "parent", V1: "0", V2: "1"}, o)
	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestSchemaDateIgnoredByEquality(t *testing.T) {
	a := mustProcess(t, map[string]any{"time": 100})
	b := mustProcess(t, map[string]any{"time": 200})
	assert.NotEqual(t, a.Date(), b.Date())
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestSchemaRowsIsCopy(t *testing.T) {
	s := mustProcess(t, map[string]any{"a": 1})
	rows := s.Rows()
	rows[0].Key = "changed"
	assert.Equal(t, "a", s.Row(0).Key)
}

func TestSchemaString(t *testing.T) {
	s := mustProcess(t, map[string]any{"a": []any{1}})
	assert.Equal(t, "  0 |   0 a                    array  -1\n  1 |   1                      int    0\n", s.String())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "int", TypeInt.String())
	assert.Equal(t, "float", TypeFloat.String())
	assert.Equal(t, "str", TypeStr.String())
	assert.Equal(t, "dict", TypeDict.String())
	assert.Equal(t, "array", TypeArray.String())
	assert.True(t, TypeDict.Composite())
	assert.False(t, TypeStr.Composite())
}
