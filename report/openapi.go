package report

import (
	"github.com/dangunter/alsdata/shape"
	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPI converts s to an OpenAPI 3 schema object. Every observed key is
// required. Arrays whose elements took several distinct shapes get a oneOf
// item schema.
func OpenAPI(s *shape.Schema) *openapi3.Schema {
	children := childIndex(s)
	return newObjectSchema(s, children, children[shape.NoParent])
}

func rowSchema(s *shape.Schema, children map[int][]int, i int) *openapi3.Schema {
	switch s.Row(i).Type {
	case shape.TypeInt:
		return openapi3.NewIntegerSchema()
	case shape.TypeFloat:
		return openapi3.NewFloat64Schema()
	case shape.TypeStr:
		return openapi3.NewStringSchema()
	case shape.TypeDict:
		return newObjectSchema(s, children, children[i])
	case shape.TypeArray:
		return newArraySchema(s, children, children[i])
	}
	panic("should be unreachable")
}

func newObjectSchema(s *shape.Schema, children map[int][]int, fields []int) *openapi3.Schema {
	ps := make(openapi3.Schemas, len(fields))
	rs := make([]string, len(fields))
	for n, i := range fields {
		k := s.Row(i).Key
		ps[k] = rowSchema(s, children, i).NewRef()
		rs[n] = k
	}
	return &openapi3.Schema{
		Type:       openapi3.TypeObject,
		Required:   rs,
		Properties: ps,
	}
}

func newArraySchema(s *shape.Schema, children map[int][]int, elems []int) *openapi3.Schema {
	a := openapi3.NewArraySchema()
	switch len(elems) {
	case 0:
	case 1:
		a.Items = rowSchema(s, children, elems[0]).NewRef()
	default:
		shapes := make([]*openapi3.Schema, len(elems))
		for n, i := range elems {
			shapes[n] = rowSchema(s, children, i)
		}
		a.Items = openapi3.NewOneOfSchema(shapes...).NewRef()
	}
	return a
}
