package swretail

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// Query encodes the OptionQuery value. An unset query yields nil.
func (o Options) Query() (url.Values, error) {
	q, ok := o.values[OptionQuery]
	if !ok || q == nil {
		return nil, nil
	}
	return encodeQuery(q)
}

func encodeQuery(q any) (url.Values, error) {
	switch t := q.(type) {
	case url.Values:
		return t, nil
	case map[string][]string:
		return url.Values(t), nil
	case map[string]string:
		out := make(url.Values, len(t))
		for k, v := range t {
			out.Set(k, v)
		}
		return out, nil
	case map[string]any:
		out := make(url.Values, len(t))
		for k, v := range t {
			addQueryValue(out, k, v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("swretail: unsupported query type %T", q)
	}
}

// addQueryValue flattens v under key. Slices become repeated keys, nested
// maps become key[sub], nil is dropped and booleans encode as 1/0.
func addQueryValue(out url.Values, key string, v any) {
	switch t := v.(type) {
	case nil:
		return
	case string:
		out.Add(key, t)
		return
	case json.Number:
		out.Add(key, t.String())
		return
	case bool:
		if t {
			out.Add(key, "1")
		} else {
			out.Add(key, "0")
		}
		return
	case []byte:
		out.Add(key, string(t))
		return
	case map[string]any:
		for sub, sv := range t {
			addQueryValue(out, key+"["+sub+"]", sv)
		}
		return
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			addQueryValue(out, key, rv.Index(i).Interface())
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			out.Add(key, fmt.Sprint(v))
			return
		}
		iter := rv.MapRange()
		for iter.Next() {
			addQueryValue(out, key+"["+iter.Key().String()+"]", iter.Value().Interface())
		}
	case reflect.Float32, reflect.Float64:
		out.Add(key, strconv.FormatFloat(rv.Float(), 'f', -1, 64))
	default:
		out.Add(key, fmt.Sprint(v))
	}
}
