package models

import (
	json "github.com/goccy/go-json"
)

// OrderedMap is a map that remembers insertion order. Overwriting an existing
// key keeps its original position.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

type orderedEntry[K comparable, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

func (m *OrderedMap[K, V]) Set(key K, value V) {
	if m.values == nil {
		m.values = make(map[K]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key and reports whether it was present.
func (m *OrderedMap[K, V]) Delete(key K) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Last returns the most recently inserted entry.
func (m *OrderedMap[K, V]) Last() (K, V, bool) {
	var zeroK K
	var zeroV V
	if len(m.keys) == 0 {
		return zeroK, zeroV, false
	}
	k := m.keys[len(m.keys)-1]
	return k, m.values[k], true
}

// Each calls fn for every entry in insertion order until fn returns false.
func (m *OrderedMap[K, V]) Each(fn func(key K, value V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Clone returns a shallow copy; values are copied by assignment.
func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	out := &OrderedMap[K, V]{
		keys:   make([]K, len(m.keys)),
		values: make(map[K]V, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// MarshalJSON encodes the map as an array of {"key","value"} entries so that
// the order survives a round trip.
func (m *OrderedMap[K, V]) MarshalJSON() ([]byte, error) {
	entries := make([]orderedEntry[K, V], 0, len(m.keys))
	for _, k := range m.keys {
		entries = append(entries, orderedEntry[K, V]{Key: k, Value: m.values[k]})
	}
	return json.Marshal(entries)
}

func (m *OrderedMap[K, V]) UnmarshalJSON(data []byte) error {
	var entries []orderedEntry[K, V]
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	m.keys = nil
	m.values = make(map[K]V, len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return nil
}
