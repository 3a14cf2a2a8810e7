package swretail

import "maps"

// Option names understood by APIRequest.
const (
	// OptionQuery holds the query string: url.Values, map[string]string,
	// map[string][]string or map[string]any.
	OptionQuery = "query"
	// OptionJSON holds a value sent as the JSON request body.
	OptionJSON = "json"
	// OptionHeaders holds extra request headers as map[string]string.
	OptionHeaders = "headers"
)

// Options is an immutable set of per-call request options. The zero value
// is empty and ready to use.
type Options struct {
	values map[string]any
}

// Set returns a copy of o with key set to value, replacing any previous
// value. o itself is not modified.
func (o Options) Set(key string, value any) Options {
	values := make(map[string]any, len(o.values)+1)
	maps.Copy(values, o.values)
	values[key] = value
	return Options{values: values}
}

// Get returns the value stored under key.
func (o Options) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of options set.
func (o Options) Len() int {
	return len(o.values)
}

// JSON returns the OptionJSON value, or nil.
func (o Options) JSON() any {
	return o.values[OptionJSON]
}

// Headers returns the OptionHeaders value, or nil when unset or not a
// map[string]string.
func (o Options) Headers() map[string]string {
	h, _ := o.values[OptionHeaders].(map[string]string)
	return h
}
