package infer

import (
	"errors"

	"github.com/valyala/fastjson"
)

var (
	ErrNotObject = errors.New("document root is not an object")
)

// ParseDocumentBytes decodes a JSON document into the value tree consumed by
// shape.Builder: map[string]any, []any, int64, float64, string, bool and nil.
// Booleans and nulls are passed through so the builder can report them.
func ParseDocumentBytes(b []byte) (map[string]any, error) {
	return parseDocumentBytesUsingFastJson(b)
}

func ParseDocumentFastJson(v *fastjson.Value) (map[string]any, error) {
	if v.Type() != fastjson.TypeObject {
		return nil, ErrNotObject
	}
	o, err := v.Object()
	if err != nil {
		return nil, err
	}
	return parseFastJsonObject(o)
}

func parseDocumentBytesUsingFastJson(b []byte) (map[string]any, error) {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return nil, err
	}
	return ParseDocumentFastJson(v)
}

func parseFastJsonValue(v *fastjson.Value) (any, error) {
	switch v.Type() {
	case fastjson.TypeObject:
		o, err := v.Object()
		if err != nil {
			return nil, err
		}
		return parseFastJsonObject(o)
	case fastjson.TypeArray:
		a, err := v.Array()
		if err != nil {
			return nil, err
		}
		return parseFastJsonArray(a)
	case fastjson.TypeString:
		return string(v.GetStringBytes()), nil
	case fastjson.TypeNumber:
		return parseFastJsonNumber(v)
	case fastjson.TypeTrue:
		return true, nil
	case fastjson.TypeFalse:
		return false, nil
	case fastjson.TypeNull:
		return nil, nil
	}

	panic("should be unreachable")
}

func parseFastJsonObject(o *fastjson.Object) (map[string]any, error) {
	res := make(map[string]any, o.Len())

	var visitErr error
	o.Visit(func(key []byte, v *fastjson.Value) {
		if visitErr != nil {
			return
		}
		child, childErr := parseFastJsonValue(v)
		if childErr != nil {
			visitErr = childErr
			return
		}

		res[string(key)] = child
	})

	if visitErr != nil {
		return nil, visitErr
	}

	return res, nil
}

func parseFastJsonArray(vs []*fastjson.Value) ([]any, error) {
	res := make([]any, len(vs))
	for i, v := range vs {
		e, err := parseFastJsonValue(v)
		if err != nil {
			return nil, err
		}
		res[i] = e
	}
	return res, nil
}

// parseFastJsonNumber keeps integers that fit in an int64 as integers so that
// 1 and 1.0 infer different types.
func parseFastJsonNumber(v *fastjson.Value) (any, error) {
	if i, err := v.Int64(); err == nil {
		return i, nil
	}
	return v.Float64()
}
