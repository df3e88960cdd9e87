// Package attrs holds the ordered rendering attributes of an asset.
package attrs

import (
	"strings"

	"github.com/owzim/blick/internal/strfmt"
)

// Store is an ordered attribute map. The zero value is ready to use.
type Store struct {
	values strfmt.Values
}

// Set assigns value to key. Key may list aliases separated by "|", in which
// case every alias receives the same value.
func (s *Store) Set(key, value string) {
	for _, k := range strings.Split(key, "|") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		s.values = s.values.Set(k, value)
	}
}

// SetAll applies Set for every entry of values, in order.
func (s *Store) SetAll(values strfmt.Values) {
	for _, p := range values {
		s.Set(p.Key, p.Value)
	}
}

// Get returns the value stored for key.
func (s *Store) Get(key string) (string, bool) {
	return s.values.Get(key)
}

// Len returns the number of stored attributes.
func (s *Store) Len() int {
	return len(s.values)
}

// Serialize renders key=<quote>value<quote> pairs joined by a single space,
// in insertion order. An empty store serializes to "".
func (s *Store) Serialize(quote string) string {
	parts := make([]string, len(s.values))
	for i, p := range s.values {
		parts[i] = p.Key + "=" + quote + p.Value + quote
	}
	return strings.Join(parts, " ")
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() Store {
	return Store{values: append(strfmt.Values(nil), s.values...)}
}
