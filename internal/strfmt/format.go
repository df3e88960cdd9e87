package strfmt

import (
	"strconv"
	"strings"
)

// Pair is a single key/value entry of an ordered mapping.
type Pair struct {
	Key   string
	Value string
}

// Values is an ordered mapping of substitution keys to values.
// Iteration order is insertion order; a later Set on an existing key
// replaces the value in place.
type Values []Pair

// Positional builds Values keyed "0", "1", ... in argument order.
func Positional(args ...string) Values {
	v := make(Values, 0, len(args))
	for i, a := range args {
		v = append(v, Pair{Key: strconv.Itoa(i), Value: a})
	}
	return v
}

// Named builds Values from alternating key, value arguments.
// A trailing key without a value is ignored.
func Named(kv ...string) Values {
	v := make(Values, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		v = v.Set(kv[i], kv[i+1])
	}
	return v
}

// Set returns v with key assigned to value.
func (v Values) Set(key, value string) Values {
	for i := range v {
		if v[i].Key == key {
			v[i].Value = value
			return v
		}
	}
	return append(v, Pair{Key: key, Value: value})
}

// Get returns the value stored for key.
func (v Values) Get(key string) (string, bool) {
	for _, p := range v {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Join renders the values as "key=value" items separated by sep.
func (v Values) Join(sep string) string {
	parts := make([]string, len(v))
	for i, p := range v {
		parts[i] = p.Key + "=" + p.Value
	}
	return strings.Join(parts, sep)
}

// Format replaces every "{key}" in s with the value for key, visiting keys
// in the order of values. Placeholders without a matching key are left as
// they are. Inserted values are not expanded again within the same call,
// except by keys that come later in values.
//
//	Format("Hello {0}, you look {1}!", Positional("Jane", "stunning"))
//	// Hello Jane, you look stunning!
func Format(s string, values Values) string {
	for _, p := range values {
		s = strings.ReplaceAll(s, "{"+p.Key+"}", p.Value)
	}
	return s
}
