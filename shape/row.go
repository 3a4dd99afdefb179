package shape

import (
	"cmp"
	"fmt"
)

// Type is the inferred kind of a value in a document.
type Type uint8

const (
	TypeInt   Type = 1
	TypeFloat Type = 2
	TypeStr   Type = 3
	TypeDict  Type = 4
	TypeArray Type = 5
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeStr:
		return "str"
	case TypeDict:
		return "dict"
	case TypeArray:
		return "array"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Composite reports whether rows of this type may have children.
func (t Type) Composite() bool {
	return t == TypeDict || t == TypeArray
}

// NoParent is the parent index of a root row.
const NoParent = -1

// Row is one flattened node of a schema tree. An empty Key marks an array
// element.
type Row struct {
	Depth  int
	Key    string
	Type   Type
	Parent int
}

func (r Row) String() string {
	return fmt.Sprintf("(%d, %q, %s, %d)", r.Depth, r.Key, r.Type, r.Parent)
}

// cmpKey orders rows by (depth, key, type) only. Parent positions change
// during canonicalization and are compared separately.
func (r Row) cmpKey(o Row) int {
	if c := cmp.Compare(r.Depth, o.Depth); c != 0 {
		return c
	}
	if c := cmp.Compare(r.Key, o.Key); c != 0 {
		return c
	}
	return cmp.Compare(r.Type, o.Type)
}
