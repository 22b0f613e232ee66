package models

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorFor_RoundTrip(t *testing.T) {
	for _, u := range []TimeUnit{UnitHour, UnitDay, UnitWeek, UnitMonth, UnitYear} {
		t.Run(u.String(), func(t *testing.T) {
			d, err := DescriptorFor(u)
			require.NoError(t, err)
			got, err := d.Unit()
			require.NoError(t, err)
			assert.Equal(t, u, got)
		})
	}
}

func TestDescriptorFor_Shapes(t *testing.T) {
	d, err := DescriptorFor(UnitHour)
	require.NoError(t, err)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"TimeBased","nanoseconds":3600000000000}`, string(data))

	d, err = DescriptorFor(UnitWeek)
	require.NoError(t, err)
	data, err = json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"DayBased","days":7}`, string(data))

	d, err = DescriptorFor(UnitYear)
	require.NoError(t, err)
	data, err = json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"MonthBased","months":12}`, string(data))
}

func TestUnitDescriptor_Unknown(t *testing.T) {
	three := 3
	_, err := UnitDescriptor{Type: "DayBased", Days: &three}.Unit()
	assert.ErrorIs(t, err, ErrData)

	_, err = UnitDescriptor{Type: "Weird"}.Unit()
	assert.ErrorIs(t, err, ErrData)

	_, err = DescriptorFor(TimeUnit(99))
	assert.ErrorIs(t, err, ErrData)
}

func TestExportImport_RoundTrip(t *testing.T) {
	a := populatedAddiction(t)

	data, err := ExportDocuments([]*Addiction{a})
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    {")

	got, err := ImportDocuments(data)
	require.NoError(t, err)
	require.Len(t, got, 1)

	b := got[0]
	assert.Equal(t, a.Name(), b.Name())
	assert.True(t, a.LastRelapse().Equal(b.LastRelapse()))
	assert.Equal(t, a.IsStopped(), b.IsStopped())
	assert.Equal(t, a.TimeStopped(), b.TimeStopped())
	assert.Equal(t, a.History().Keys(), b.History().Keys())
	assert.Equal(t, a.Priority(), b.Priority())
	assert.Equal(t, a.SortedNotes(SortAsc), b.SortedNotes(SortAsc))
	assert.Equal(t, a.TimeSaving(), b.TimeSaving())
	assert.Equal(t, a.Savings().Keys(), b.Savings().Keys())
	assert.Equal(t, a.Milestones().Items(), b.Milestones().Items())
	assert.Equal(t, a.Relapses().GetAll(), b.Relapses().GetAll())
	assert.Equal(t, a.AverageRelapseDuration(), b.AverageRelapseDuration())
}

func TestToDocument_Format(t *testing.T) {
	doc := ToDocument(populatedAddiction(t))
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"last_relapse":{"epochSeconds":1704110400,"nanosecondsOfSecond":0}`)
	assert.Contains(t, s, `"daily_notes":{"2024-01-01":"day one"}`)
	assert.Contains(t, s, `"time_saving":"07:30"`)
	assert.Contains(t, s, `"savings":{"money":{"first":12.5,"second":"EUR"}}`)
	assert.Contains(t, s, `"milestones":[{"first":1,"second":{"type":"DayBased","days":7}}]`)
	assert.Contains(t, s, `"relapses":{"size":3,"buffer":[90,null,null]}`)
}

func TestOrderedObject_KeepsOrder(t *testing.T) {
	var o OrderedObject[int64]
	require.NoError(t, json.Unmarshal([]byte(`{"30":1,"10":2,"20":3}`), &o))

	keys := make([]string, 0, len(o))
	for _, e := range o {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"30", "10", "20"}, keys)

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"30":1,"10":2,"20":3}`, string(data))
}

func TestImportDocuments_Malformed(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"name":         "Smoking",
			"last_relapse": map[string]any{"epochSeconds": 1704110400, "nanosecondsOfSecond": 0},
			"is_stopped":   false,
			"time_stopped": 0,
			"history":      map[string]any{},
			"priority":     1,
			"daily_notes":  map[string]any{},
			"time_saving":  "00:00",
			"savings":      map[string]any{},
			"milestones":   []any{},
			"relapses":     map[string]any{"size": 3, "buffer": []any{nil, nil, nil}},
		}
	}
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"empty name", func(d map[string]any) { d["name"] = "" }},
		{"nanos out of range", func(d map[string]any) {
			d["last_relapse"] = map[string]any{"epochSeconds": 1, "nanosecondsOfSecond": 1000000000}
		}},
		{"priority out of range", func(d map[string]any) { d["priority"] = 5 }},
		{"bad time saving", func(d map[string]any) { d["time_saving"] = "25:00" }},
		{"bad history key", func(d map[string]any) { d["history"] = map[string]any{"yesterday": 0} }},
		{"bad note date", func(d map[string]any) { d["daily_notes"] = map[string]any{"01/02/2024": "x"} }},
		{"bad descriptor", func(d map[string]any) {
			d["milestones"] = []any{map[string]any{"first": 1, "second": map[string]any{"type": "DayBased", "days": 3}}}
		}},
		{"negative milestone count", func(d map[string]any) {
			d["milestones"] = []any{map[string]any{"first": -5, "second": map[string]any{"type": "DayBased", "days": 1}}}
		}},
		{"zero milestone count", func(d map[string]any) {
			d["milestones"] = []any{map[string]any{"first": 0, "second": map[string]any{"type": "MonthBased", "months": 12}}}
		}},
		{"bad buffer size", func(d map[string]any) {
			d["relapses"] = map[string]any{"size": 5, "buffer": []any{}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid()
			tt.mutate(doc)
			data, err := json.Marshal([]any{doc})
			require.NoError(t, err)

			_, err = ImportDocuments(data)
			assert.ErrorIs(t, err, ErrData)
		})
	}

	data, err := json.Marshal([]any{valid()})
	require.NoError(t, err)
	_, err = ImportDocuments(data)
	assert.NoError(t, err)
}

func TestImportDocuments_NotJSON(t *testing.T) {
	_, err := ImportDocuments([]byte(strings.Repeat("{", 3)))
	assert.ErrorIs(t, err, ErrData)

	_, err = ImportDocuments([]byte(`[null]`))
	assert.ErrorIs(t, err, ErrData)
}
