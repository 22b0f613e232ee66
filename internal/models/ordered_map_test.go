package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMap_KeepsInsertionOrder(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)
	m.Set("b", 4)

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	k, v, ok := m.Last()
	assert.True(t, ok)
	assert.Equal(t, "c", k)
	assert.Equal(t, 3, v)
}

func TestOrderedMap_Delete(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, []string{"b"}, m.Keys())
	assert.Equal(t, 1, m.Len())
}

func TestOrderedMap_LastOnEmpty(t *testing.T) {
	_, _, ok := NewOrderedMap[int64, int64]().Last()
	assert.False(t, ok)
}

func TestOrderedMap_EachStops(t *testing.T) {
	m := NewOrderedMap[int, int]()
	for i := 0; i < 5; i++ {
		m.Set(i, i)
	}
	var seen []int
	m.Each(func(k, _ int) bool {
		seen = append(seen, k)
		return k < 2
	})
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestOrderedMap_Clone(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Set("a", 1)
	c := m.Clone()
	c.Set("b", 2)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, c.Len())
}

func TestOrderedMap_JSONRoundTrip(t *testing.T) {
	m := NewOrderedMap[Date, string]()
	m.Set(Date{2024, 3, 2}, "second")
	m.Set(Date{2024, 3, 1}, "first")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":"2024-03-02","value":"second"},{"key":"2024-03-01","value":"first"}]`, string(data))

	got := NewOrderedMap[Date, string]()
	require.NoError(t, json.Unmarshal(data, got))
	assert.Equal(t, m.Keys(), got.Keys())
}
