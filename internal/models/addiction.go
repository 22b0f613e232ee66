package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

var priorityNames = [...]string{"HIGH", "MEDIUM", "LOW"}

func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

func (p Priority) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

func ParsePriority(s string) (Priority, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range priorityNames {
		if n == name {
			return Priority(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
}

// Addiction is a single tracked addiction: its relapse state machine, journal,
// savings and milestones. It is not safe for concurrent use.
type Addiction struct {
	name        string
	lastRelapse time.Time
	isStopped   bool
	timeStopped int64
	history     *OrderedMap[int64, int64]
	priority    Priority
	dailyNotes  *OrderedMap[Date, string]
	timeSaving  TimeOfDay
	savings     *OrderedMap[string, Saving]
	milestones  *MilestoneSet
	relapses    *HistoryBuffer

	averageRelapseDuration int64
	now                    func() time.Time
}

type AddictionOption func(*Addiction)

// WithClock replaces time.Now as the record's clock.
func WithClock(now func() time.Time) AddictionOption {
	return func(a *Addiction) {
		a.now = now
	}
}

// NewAddiction creates a record with an empty history, journal, savings,
// milestone set and relapse buffer.
func NewAddiction(name string, lastRelapse time.Time, isStopped bool, timeStopped int64, priority Priority, opts ...AddictionOption) (*Addiction, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %d", ErrValidation, int(priority))
	}
	return restoreAddiction(addictionFields{
		name:        name,
		lastRelapse: lastRelapse,
		isStopped:   isStopped,
		timeStopped: timeStopped,
		priority:    priority,
	}, opts...), nil
}

type addictionFields struct {
	name        string
	lastRelapse time.Time
	isStopped   bool
	timeStopped int64
	history     *OrderedMap[int64, int64]
	priority    Priority
	dailyNotes  *OrderedMap[Date, string]
	timeSaving  TimeOfDay
	savings     *OrderedMap[string, Saving]
	milestones  *MilestoneSet
	relapses    *HistoryBuffer
}

// restoreAddiction builds a record from fully specified fields, filling nil
// collections with empty ones.
func restoreAddiction(f addictionFields, opts ...AddictionOption) *Addiction {
	a := &Addiction{
		name:        f.name,
		lastRelapse: f.lastRelapse,
		isStopped:   f.isStopped,
		timeStopped: f.timeStopped,
		history:     f.history,
		priority:    f.priority,
		dailyNotes:  f.dailyNotes,
		timeSaving:  f.timeSaving,
		savings:     f.savings,
		milestones:  f.milestones,
		relapses:    f.relapses,
		now:         time.Now,
	}
	if a.history == nil {
		a.history = NewOrderedMap[int64, int64]()
	}
	if a.dailyNotes == nil {
		a.dailyNotes = NewOrderedMap[Date, string]()
	}
	if a.savings == nil {
		a.savings = NewOrderedMap[string, Saving]()
	}
	if a.milestones == nil {
		a.milestones = NewMilestoneSet()
	}
	if a.relapses == nil {
		a.relapses = NewHistoryBuffer(RelapseBufferCapacity)
	}
	for _, opt := range opts {
		opt(a)
	}
	a.recalculateAverage()
	return a
}

// The collection accessors return copies. Mutate through the methods below so
// the relapse average stays current.
func (a *Addiction) Name() string                          { return a.name }
func (a *Addiction) LastRelapse() time.Time                { return a.lastRelapse }
func (a *Addiction) IsStopped() bool                       { return a.isStopped }
func (a *Addiction) TimeStopped() int64                    { return a.timeStopped }
func (a *Addiction) History() *OrderedMap[int64, int64]    { return a.history.Clone() }
func (a *Addiction) Priority() Priority                    { return a.priority }
func (a *Addiction) DailyNotes() *OrderedMap[Date, string] { return a.dailyNotes.Clone() }
func (a *Addiction) TimeSaving() TimeOfDay                 { return a.timeSaving }
func (a *Addiction) Savings() *OrderedMap[string, Saving]  { return a.savings.Clone() }
func (a *Addiction) Milestones() *MilestoneSet             { return a.milestones.Clone() }
func (a *Addiction) Relapses() *HistoryBuffer              { return a.relapses.Clone() }

// AverageRelapseDuration is the mean of the relapse buffer in seconds, or -1
// when no duration has been recorded yet.
func (a *Addiction) AverageRelapseDuration() int64 {
	return a.averageRelapseDuration
}

// IsFuture reports whether the last relapse is a scheduled quit date that
// has not been reached yet.
func (a *Addiction) IsFuture() bool {
	return a.lastRelapse.After(a.now())
}

// StopAbstaining closes the current interval and moves the record to the
// stopped state.
func (a *Addiction) StopAbstaining() {
	now := a.now()
	a.isStopped = true
	a.timeStopped = now.UnixMilli()
	a.relapses.Push(now.Unix() - a.lastRelapse.Unix())
	a.recalculateAverage()
	a.putLastHistory(now.UnixMilli())
}

// Relapse resets the record's timer to now. The prior interval is only
// recorded when the record was stopped and the last relapse is not in the
// future.
func (a *Addiction) Relapse() {
	now := a.now()
	if a.isStopped && !a.lastRelapse.After(now) {
		a.relapses.Push(now.Unix() - a.lastRelapse.Unix())
		a.putLastHistory(now.UnixMilli())
	}
	// the open relapse marker always wins on a shared timestamp
	a.history.Set(now.UnixMilli(), 0)
	a.isStopped = false
	a.recalculateAverage()
	a.lastRelapse = now
}

// putLastHistory records key with the time elapsed since the latest entry.
func (a *Addiction) putLastHistory(key int64) {
	var elapsed int64
	if last, _, ok := a.history.Last(); ok {
		elapsed = key - last
	}
	a.history.Set(key, elapsed)
}

// recalculateAverage divides by the buffer capacity, not by the number of
// populated slots.
func (a *Addiction) recalculateAverage() {
	if a.relapses.Len() == 0 {
		a.averageRelapseDuration = -1
		return
	}
	a.averageRelapseDuration = a.relapses.Sum() / int64(a.relapses.Capacity())
}

func (a *Addiction) SetPriority(p Priority) error {
	if !p.Valid() {
		return fmt.Errorf("%w: unknown priority %d", ErrValidation, int(p))
	}
	a.priority = p
	return nil
}

func (a *Addiction) SetTimeSaving(t TimeOfDay) {
	a.timeSaving = t
}

// PutNote stores the journal entry for date, replacing any existing one.
func (a *Addiction) PutNote(date Date, text string) {
	a.dailyNotes.Set(date, text)
}

func (a *Addiction) DeleteNote(date Date) bool {
	return a.dailyNotes.Delete(date)
}

// PutSaving adds or updates the named saving.
func (a *Addiction) PutSaving(name string, s Saving) error {
	if err := ValidateSavingName(name); err != nil {
		return err
	}
	if strings.TrimSpace(s.Unit) == "" {
		return fmt.Errorf("%w: saving unit is required", ErrValidation)
	}
	a.savings.Set(name, s)
	return nil
}

func (a *Addiction) DeleteSaving(name string) bool {
	return a.savings.Delete(name)
}

// AddMilestone reports whether m was newly added.
func (a *Addiction) AddMilestone(m Milestone) bool {
	return a.milestones.Add(m)
}

func (a *Addiction) RemoveMilestone(m Milestone) bool {
	return a.milestones.Remove(m)
}

type Note struct {
	Date Date
	Text string
}

// SortedNotes returns the journal ordered by date.
func (a *Addiction) SortedNotes(order SortOrder) []Note {
	notes := make([]Note, 0, a.dailyNotes.Len())
	a.dailyNotes.Each(func(d Date, text string) bool {
		notes = append(notes, Note{Date: d, Text: text})
		return true
	})
	sort.SliceStable(notes, func(i, j int) bool {
		if order == SortDesc {
			return notes[j].Date.Before(notes[i].Date)
		}
		return notes[i].Date.Before(notes[j].Date)
	})
	return notes
}

// MilestoneCompleted reports whether the current abstinence period has
// reached m. A stopped record is measured up to the moment it stopped.
func (a *Addiction) MilestoneCompleted(m Milestone, now time.Time) bool {
	end := now
	if a.isStopped {
		end = time.UnixMilli(a.timeStopped)
	}
	return !m.ReachedAt(a.lastRelapse).After(end)
}

// VisibleMilestones applies the listing preferences to the milestone set.
func (a *Addiction) VisibleMilestones(order SortOrder, hideCompleted bool, now time.Time) []Milestone {
	items := SortMilestones(a.milestones.Items(), order)
	if !hideCompleted {
		return items
	}
	out := items[:0]
	for _, m := range items {
		if !a.MilestoneCompleted(m, now) {
			out = append(out, m)
		}
	}
	return out
}

// Clone returns a deep copy sharing only the clock.
func (a *Addiction) Clone() *Addiction {
	c := *a
	c.history = a.history.Clone()
	c.dailyNotes = a.dailyNotes.Clone()
	c.savings = a.savings.Clone()
	c.milestones = a.milestones.Clone()
	c.relapses = a.relapses.Clone()
	return &c
}
