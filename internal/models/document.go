package models

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const exportIndent = "    "

// Document is the export/interchange form of an Addiction.
type Document struct {
	Name        string                        `json:"name"`
	LastRelapse InstantDocument               `json:"last_relapse"`
	IsStopped   bool                          `json:"is_stopped"`
	TimeStopped int64                         `json:"time_stopped"`
	History     OrderedObject[int64]          `json:"history"`
	Priority    int                           `json:"priority"`
	DailyNotes  OrderedObject[string]         `json:"daily_notes"`
	TimeSaving  string                        `json:"time_saving"`
	Savings     OrderedObject[SavingDocument] `json:"savings"`
	Milestones  []MilestoneDocument           `json:"milestones"`
	Relapses    RelapsesDocument              `json:"relapses"`
}

type InstantDocument struct {
	EpochSeconds        int64 `json:"epochSeconds"`
	NanosecondsOfSecond int64 `json:"nanosecondsOfSecond"`
}

type SavingDocument struct {
	First  float64 `json:"first"`
	Second string  `json:"second"`
}

type MilestoneDocument struct {
	First  int            `json:"first"`
	Second UnitDescriptor `json:"second"`
}

// UnitDescriptor describes a milestone unit the way the export format
// encodes time amounts.
type UnitDescriptor struct {
	Type        string `json:"type"`
	Nanoseconds *int64 `json:"nanoseconds,omitempty"`
	Days        *int   `json:"days,omitempty"`
	Months      *int   `json:"months,omitempty"`
}

type RelapsesDocument struct {
	Size   int      `json:"size"`
	Buffer []*int64 `json:"buffer"`
}

const (
	descriptorTimeBased  = "TimeBased"
	descriptorDayBased   = "DayBased"
	descriptorMonthBased = "MonthBased"

	hourNanoseconds int64 = 3600000000000
)

func DescriptorFor(u TimeUnit) (UnitDescriptor, error) {
	intPtr := func(v int) *int { return &v }
	switch u {
	case UnitHour:
		ns := hourNanoseconds
		return UnitDescriptor{Type: descriptorTimeBased, Nanoseconds: &ns}, nil
	case UnitDay:
		return UnitDescriptor{Type: descriptorDayBased, Days: intPtr(1)}, nil
	case UnitWeek:
		return UnitDescriptor{Type: descriptorDayBased, Days: intPtr(7)}, nil
	case UnitMonth:
		return UnitDescriptor{Type: descriptorMonthBased, Months: intPtr(1)}, nil
	case UnitYear:
		return UnitDescriptor{Type: descriptorMonthBased, Months: intPtr(12)}, nil
	}
	return UnitDescriptor{}, fmt.Errorf("%w: no descriptor for time unit %d", ErrData, int(u))
}

// Unit inverts DescriptorFor. Anything outside the five known shapes is an ErrData.
func (d UnitDescriptor) Unit() (TimeUnit, error) {
	switch {
	case d.Type == descriptorTimeBased && d.Nanoseconds != nil && *d.Nanoseconds == hourNanoseconds:
		return UnitHour, nil
	case d.Type == descriptorDayBased && d.Days != nil && *d.Days == 1:
		return UnitDay, nil
	case d.Type == descriptorDayBased && d.Days != nil && *d.Days == 7:
		return UnitWeek, nil
	case d.Type == descriptorMonthBased && d.Months != nil && *d.Months == 1:
		return UnitMonth, nil
	case d.Type == descriptorMonthBased && d.Months != nil && *d.Months == 12:
		return UnitYear, nil
	}
	return 0, fmt.Errorf("%w: unknown milestone unit descriptor %+v", ErrData, d)
}

// ToDocument converts a record to its export form.
func ToDocument(a *Addiction) *Document {
	doc := &Document{
		Name: a.name,
		LastRelapse: InstantDocument{
			EpochSeconds:        a.lastRelapse.Unix(),
			NanosecondsOfSecond: int64(a.lastRelapse.Nanosecond()),
		},
		IsStopped:   a.isStopped,
		TimeStopped: a.timeStopped,
		History:     make(OrderedObject[int64], 0, a.history.Len()),
		Priority:    int(a.priority),
		DailyNotes:  make(OrderedObject[string], 0, a.dailyNotes.Len()),
		TimeSaving:  a.timeSaving.String(),
		Savings:     make(OrderedObject[SavingDocument], 0, a.savings.Len()),
		Milestones:  make([]MilestoneDocument, 0, a.milestones.Len()),
		Relapses: RelapsesDocument{
			Size:   a.relapses.Capacity(),
			Buffer: a.relapses.GetAll(),
		},
	}
	a.history.Each(func(ts, d int64) bool {
		doc.History = append(doc.History, ObjectEntry[int64]{Key: strconv.FormatInt(ts, 10), Value: d})
		return true
	})
	a.dailyNotes.Each(func(d Date, text string) bool {
		doc.DailyNotes = append(doc.DailyNotes, ObjectEntry[string]{Key: d.String(), Value: text})
		return true
	})
	a.savings.Each(func(name string, s Saving) bool {
		doc.Savings = append(doc.Savings, ObjectEntry[SavingDocument]{Key: name, Value: SavingDocument{First: s.Amount, Second: s.Unit}})
		return true
	})
	for _, m := range a.milestones.Items() {
		// units are validated on insert, so a descriptor always exists
		desc, _ := DescriptorFor(m.Unit)
		doc.Milestones = append(doc.Milestones, MilestoneDocument{First: m.Count, Second: desc})
	}
	return doc
}

// FromDocument is the inverse of ToDocument.
func FromDocument(doc *Document, opts ...AddictionOption) (*Addiction, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrData)
	}
	if doc.LastRelapse.NanosecondsOfSecond < 0 || doc.LastRelapse.NanosecondsOfSecond >= int64(time.Second) {
		return nil, fmt.Errorf("%w: last_relapse nanoseconds %d out of range", ErrData, doc.LastRelapse.NanosecondsOfSecond)
	}
	priority := Priority(doc.Priority)
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: priority %d out of range", ErrData, doc.Priority)
	}
	timeSaving, err := ParseTimeOfDay(doc.TimeSaving)
	if err != nil {
		return nil, fmt.Errorf("%w: time_saving: %v", ErrData, err)
	}

	history := NewOrderedMap[int64, int64]()
	for _, e := range doc.History {
		ts, err := strconv.ParseInt(e.Key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: history key %q is not a timestamp", ErrData, e.Key)
		}
		history.Set(ts, e.Value)
	}

	notes := NewOrderedMap[Date, string]()
	for _, e := range doc.DailyNotes {
		d, err := ParseDate(e.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: daily_notes key %q is not a date", ErrData, e.Key)
		}
		notes.Set(d, e.Value)
	}

	savings := NewOrderedMap[string, Saving]()
	for _, e := range doc.Savings {
		savings.Set(e.Key, Saving{Amount: e.Value.First, Unit: e.Value.Second})
	}

	milestones := NewMilestoneSet()
	for _, m := range doc.Milestones {
		unit, err := m.Second.Unit()
		if err != nil {
			return nil, err
		}
		milestone, err := NewMilestone(m.First, unit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrData, err)
		}
		milestones.Add(milestone)
	}

	relapses, err := restoreHistoryBuffer(doc.Relapses.Size, doc.Relapses.Buffer)
	if err != nil {
		return nil, err
	}

	return restoreAddiction(addictionFields{
		name:        doc.Name,
		lastRelapse: time.Unix(doc.LastRelapse.EpochSeconds, doc.LastRelapse.NanosecondsOfSecond),
		isStopped:   doc.IsStopped,
		timeStopped: doc.TimeStopped,
		history:     history,
		priority:    priority,
		dailyNotes:  notes,
		timeSaving:  timeSaving,
		savings:     savings,
		milestones:  milestones,
		relapses:    relapses,
	}, opts...), nil
}

// ExportDocuments renders records as an indented JSON array, one document each.
func ExportDocuments(records []*Addiction) ([]byte, error) {
	docs := make([]*Document, 0, len(records))
	for _, a := range records {
		docs = append(docs, ToDocument(a))
	}
	return json.MarshalIndent(docs, "", exportIndent)
}

// ImportDocuments parses an export file produced by ExportDocuments.
func ImportDocuments(data []byte, opts ...AddictionOption) ([]*Addiction, error) {
	var docs []*Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrData, err)
	}
	out := make([]*Addiction, 0, len(docs))
	for i, doc := range docs {
		if doc == nil {
			return nil, fmt.Errorf("%w: document %d is null", ErrData, i)
		}
		a, err := FromDocument(doc, opts...)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// ObjectEntry is one member of an OrderedObject.
type ObjectEntry[V any] struct {
	Key   string
	Value V
}

// OrderedObject is a JSON object whose members keep their order.
type OrderedObject[V any] []ObjectEntry[V]

func (o OrderedObject[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *OrderedObject[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	out := OrderedObject[V]{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out = append(out, ObjectEntry[V]{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return err
	}
	*o = out
	return nil
}
