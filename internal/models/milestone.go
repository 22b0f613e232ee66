package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

type TimeUnit int

const (
	UnitHour TimeUnit = iota
	UnitDay
	UnitWeek
	UnitMonth
	UnitYear
)

var timeUnitNames = [...]string{"HOUR", "DAY", "WEEK", "MONTH", "YEAR"}

func (u TimeUnit) String() string {
	if u < UnitHour || u > UnitYear {
		return fmt.Sprintf("TimeUnit(%d)", int(u))
	}
	return timeUnitNames[u]
}

func ParseTimeUnit(s string) (TimeUnit, error) {
	// plural forms ("days") are accepted
	name := strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(s)), "S")
	for i, n := range timeUnitNames {
		if n == name {
			return TimeUnit(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown time unit %q", ErrValidation, s)
}

func (u TimeUnit) MarshalText() ([]byte, error) {
	if u < UnitHour || u > UnitYear {
		return nil, fmt.Errorf("invalid time unit %d", int(u))
	}
	return []byte(u.String()), nil
}

func (u *TimeUnit) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Milestone is a target abstinence length such as 30 days. Two milestones
// are the same when count and unit match.
type Milestone struct {
	Count int      `json:"count"`
	Unit  TimeUnit `json:"unit"`
}

func NewMilestone(count int, unit TimeUnit) (Milestone, error) {
	if count <= 0 {
		return Milestone{}, fmt.Errorf("%w: milestone count must be positive, got %d", ErrValidation, count)
	}
	if unit < UnitHour || unit > UnitYear {
		return Milestone{}, fmt.Errorf("%w: unknown time unit %d", ErrValidation, int(unit))
	}
	return Milestone{Count: count, Unit: unit}, nil
}

// ReachedAt returns the instant the milestone is reached when counting from start.
// Months and years follow the calendar.
func (m Milestone) ReachedAt(start time.Time) time.Time {
	switch m.Unit {
	case UnitHour:
		return start.Add(time.Duration(m.Count) * time.Hour)
	case UnitDay:
		return start.AddDate(0, 0, m.Count)
	case UnitWeek:
		return start.AddDate(0, 0, 7*m.Count)
	case UnitMonth:
		return start.AddDate(0, m.Count, 0)
	default:
		return start.AddDate(m.Count, 0, 0)
	}
}

// approxHours orders milestones of different units.
func (m Milestone) approxHours() float64 {
	switch m.Unit {
	case UnitHour:
		return float64(m.Count)
	case UnitDay:
		return float64(m.Count) * 24
	case UnitWeek:
		return float64(m.Count) * 24 * 7
	case UnitMonth:
		return float64(m.Count) * 24 * 365.25 / 12
	default:
		return float64(m.Count) * 24 * 365.25
	}
}

func (m Milestone) String() string {
	return fmt.Sprintf("%d %s", m.Count, m.Unit)
}

// MilestoneSet is an insertion-ordered set of milestones.
type MilestoneSet struct {
	items *OrderedMap[Milestone, struct{}]
}

func NewMilestoneSet(items ...Milestone) *MilestoneSet {
	s := &MilestoneSet{items: NewOrderedMap[Milestone, struct{}]()}
	for _, m := range items {
		s.Add(m)
	}
	return s
}

// Add inserts m and reports whether it was not already present.
func (s *MilestoneSet) Add(m Milestone) bool {
	if s.Contains(m) {
		return false
	}
	s.items.Set(m, struct{}{})
	return true
}

func (s *MilestoneSet) Remove(m Milestone) bool {
	return s.items.Delete(m)
}

func (s *MilestoneSet) Contains(m Milestone) bool {
	_, ok := s.items.Get(m)
	return ok
}

func (s *MilestoneSet) Len() int {
	return s.items.Len()
}

// Items returns the milestones in insertion order.
func (s *MilestoneSet) Items() []Milestone {
	return s.items.Keys()
}

func (s *MilestoneSet) Clone() *MilestoneSet {
	return &MilestoneSet{items: s.items.Clone()}
}

func (s *MilestoneSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

func (s *MilestoneSet) UnmarshalJSON(data []byte) error {
	var items []Milestone
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	for _, m := range items {
		if _, err := NewMilestone(m.Count, m.Unit); err != nil {
			return err
		}
	}
	*s = *NewMilestoneSet(items...)
	return nil
}

// SortOrder is the user's preferred listing order for notes and milestones.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortMilestones orders milestones by their approximate length.
func SortMilestones(items []Milestone, order SortOrder) []Milestone {
	out := make([]Milestone, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if order == SortDesc {
			return out[i].approxHours() > out[j].approxHours()
		}
		return out[i].approxHours() < out[j].approxHours()
	})
	return out
}
