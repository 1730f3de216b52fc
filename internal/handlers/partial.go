package handlers

import (
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

var errNoFields = errors.New("no updatable fields in body")

// parsePartialUpdate turns a JSON body into the set of fields it actually
// carries, so an update touches only what the caller sent. A present
// array value (members, admin) replaces the stored one wholesale, it is
// never merged element by element. The id fields are stripped: the
// document key comes from the path, not the body.
func parsePartialUpdate(pool *fastjson.ParserPool, body []byte) (map[string]any, error) {
	p := pool.Get()
	defer pool.Put(p)

	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	obj, err := v.Object()
	if err != nil {
		return nil, fmt.Errorf("body must be a JSON object: %w", err)
	}

	fields := make(map[string]any, obj.Len())
	obj.Visit(func(key []byte, value *fastjson.Value) {
		k := string(key)
		if k == "_id" || k == "id" {
			return
		}
		fields[k] = decodeValue(value)
	})

	if len(fields) == 0 {
		return nil, errNoFields
	}
	return fields, nil
}

func decodeValue(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return string(b)
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeArray:
		items, _ := v.Array()
		out := make([]any, 0, len(items))
		for _, item := range items {
			out = append(out, decodeValue(item))
		}
		return out
	case fastjson.TypeObject:
		obj, _ := v.Object()
		out := map[string]any{}
		obj.Visit(func(key []byte, item *fastjson.Value) {
			out[string(key)] = decodeValue(item)
		})
		return out
	default:
		return nil
	}
}
