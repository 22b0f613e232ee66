package models

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// RelapseBufferCapacity is the number of recent relapse durations that feed
// the moving average. It is part of the persisted format and never changes.
const RelapseBufferCapacity = 3

// HistoryBuffer keeps the N most recently pushed values. Unfilled slots are
// reported as empty rather than zero.
type HistoryBuffer struct {
	slots  []*int64
	cursor int
	count  int
}

func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity <= 0 {
		capacity = RelapseBufferCapacity
	}
	return &HistoryBuffer{slots: make([]*int64, capacity)}
}

// Push stores v as the newest value, overwriting the oldest one when full.
func (b *HistoryBuffer) Push(v int64) {
	val := v
	b.slots[b.cursor] = &val
	b.cursor = (b.cursor + 1) % len(b.slots)
	if b.count < len(b.slots) {
		b.count++
	}
}

// Get returns the i-th logical slot, 0 being the oldest value held.
func (b *HistoryBuffer) Get(i int) (int64, bool) {
	if i < 0 || i >= b.count {
		return 0, false
	}
	start := 0
	if b.count == len(b.slots) {
		start = b.cursor
	}
	return *b.slots[(start+i)%len(b.slots)], true
}

// GetAll returns every logical slot, oldest first. The result always has
// Capacity() elements; empty slots are nil.
func (b *HistoryBuffer) GetAll() []*int64 {
	out := make([]*int64, len(b.slots))
	for i := range out {
		if v, ok := b.Get(i); ok {
			out[i] = &v
		}
	}
	return out
}

func (b *HistoryBuffer) Capacity() int {
	return len(b.slots)
}

// Len returns the number of populated slots.
func (b *HistoryBuffer) Len() int {
	return b.count
}

func (b *HistoryBuffer) Sum() int64 {
	var sum int64
	for _, v := range b.slots {
		if v != nil {
			sum += *v
		}
	}
	return sum
}

func (b *HistoryBuffer) Clone() *HistoryBuffer {
	out := NewHistoryBuffer(len(b.slots))
	for _, v := range b.GetAll() {
		if v != nil {
			out.Push(*v)
		}
	}
	return out
}

type historyBufferData struct {
	Size   int      `json:"size"`
	Buffer []*int64 `json:"buffer"`
}

// MarshalJSON writes {"size":N,"buffer":[...]} with null for empty slots.
func (b *HistoryBuffer) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyBufferData{Size: len(b.slots), Buffer: b.GetAll()})
}

func (b *HistoryBuffer) UnmarshalJSON(data []byte) error {
	var raw historyBufferData
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	restored, err := restoreHistoryBuffer(raw.Size, raw.Buffer)
	if err != nil {
		return err
	}
	*b = *restored
	return nil
}

// restoreHistoryBuffer rebuilds a buffer from its GetAll form.
func restoreHistoryBuffer(size int, values []*int64) (*HistoryBuffer, error) {
	if size != RelapseBufferCapacity {
		return nil, fmt.Errorf("%w: relapse buffer size %d, expected %d", ErrData, size, RelapseBufferCapacity)
	}
	if len(values) > size {
		return nil, fmt.Errorf("%w: relapse buffer holds %d values, capacity %d", ErrData, len(values), size)
	}
	b := NewHistoryBuffer(size)
	for _, v := range values {
		if v != nil {
			b.Push(*v)
		}
	}
	return b, nil
}
