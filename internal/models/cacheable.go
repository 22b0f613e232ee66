package models

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Schema versions of the positional cache payload.
const (
	// SchemaUnknown marks payloads written before the version tag existed.
	// Their shape is guessed from the slot count.
	SchemaUnknown = 0
	// SchemaLegacy is the 7-slot shape without notes, time saving, savings
	// and milestones.
	SchemaLegacy = 1
	// SchemaCurrent is the 11-slot shape produced by ToCacheable.
	SchemaCurrent = 2

	legacySlotCount  = 7
	currentSlotCount = 11
)

// Cacheable is the positional representation handed to the persistence store.
//
// Current shape: name, lastRelapse, isStopped, timeStopped, history, priority,
// dailyNotes, timeSaving, savings, milestones, relapses.
// Legacy shape: name, lastRelapse, isStopped, timeStopped, history, priority,
// relapses.
type Cacheable []any

// ToCacheable returns the 11-slot payload. Collections are shared with the record.
func (a *Addiction) ToCacheable() Cacheable {
	return Cacheable{
		a.name,
		a.lastRelapse,
		a.isStopped,
		a.timeStopped,
		a.history,
		a.priority,
		a.dailyNotes,
		a.timeSaving,
		a.savings,
		a.milestones,
		a.relapses,
	}
}

// FromCacheable rebuilds a record from a cache payload. A 7-slot payload is
// the legacy shape and gets defaults for the fields it lacks; any other
// length is read as the current shape.
//
// The slot count is the only version signal here, so two schema versions
// with the same count cannot be told apart. Use DecodeCacheable with an
// explicit version where one is stored.
func FromCacheable(c Cacheable, opts ...AddictionOption) (*Addiction, error) {
	if len(c) == legacySlotCount {
		return fromLegacyCacheable(c, opts...)
	}
	return fromCurrentCacheable(c, opts...)
}

func fromLegacyCacheable(c Cacheable, opts ...AddictionOption) (*Addiction, error) {
	var f addictionFields
	var err error
	if f, err = readCommonSlots(c); err != nil {
		return nil, err
	}
	if f.relapses, err = slotAs[*HistoryBuffer](c, 6); err != nil {
		return nil, err
	}
	f.dailyNotes = NewOrderedMap[Date, string]()
	f.timeSaving = Midnight
	f.savings = NewOrderedMap[string, Saving]()
	f.milestones = NewMilestoneSet()
	return restoreAddiction(f, opts...), nil
}

func fromCurrentCacheable(c Cacheable, opts ...AddictionOption) (*Addiction, error) {
	var f addictionFields
	var err error
	if f, err = readCommonSlots(c); err != nil {
		return nil, err
	}
	if f.dailyNotes, err = slotAs[*OrderedMap[Date, string]](c, 6); err != nil {
		return nil, err
	}
	if f.timeSaving, err = slotAs[TimeOfDay](c, 7); err != nil {
		return nil, err
	}
	if f.savings, err = slotAs[*OrderedMap[string, Saving]](c, 8); err != nil {
		return nil, err
	}
	if f.milestones, err = slotAs[*MilestoneSet](c, 9); err != nil {
		return nil, err
	}
	if f.relapses, err = slotAs[*HistoryBuffer](c, 10); err != nil {
		return nil, err
	}
	return restoreAddiction(f, opts...), nil
}

// readCommonSlots reads slots 0-5, which both shapes share.
func readCommonSlots(c Cacheable) (addictionFields, error) {
	var f addictionFields
	var err error
	if f.name, err = slotAs[string](c, 0); err != nil {
		return f, err
	}
	if f.lastRelapse, err = slotAs[time.Time](c, 1); err != nil {
		return f, err
	}
	if f.isStopped, err = slotAs[bool](c, 2); err != nil {
		return f, err
	}
	if f.timeStopped, err = slotAs[int64](c, 3); err != nil {
		return f, err
	}
	if f.history, err = slotAs[*OrderedMap[int64, int64]](c, 4); err != nil {
		return f, err
	}
	if f.priority, err = slotAs[Priority](c, 5); err != nil {
		return f, err
	}
	if !f.priority.Valid() {
		return f, fmt.Errorf("%w: slot 5 holds priority %d out of range", ErrTypeMismatch, int(f.priority))
	}
	return f, nil
}

func slotAs[T any](c Cacheable, i int) (T, error) {
	var zero T
	if i >= len(c) {
		return zero, fmt.Errorf("%w: slot %d missing, payload has %d slots", ErrTypeMismatch, i, len(c))
	}
	v, ok := c[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: slot %d holds %T, expected %T", ErrTypeMismatch, i, c[i], zero)
	}
	return v, nil
}

// EncodeCacheable converts every slot to its JSON form.
func EncodeCacheable(c Cacheable) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(c))
	for i, slot := range c {
		data, err := json.Marshal(slot)
		if err != nil {
			return nil, fmt.Errorf("encode slot %d: %w", i, err)
		}
		out[i] = data
	}
	return out, nil
}

// DecodeCacheable turns persisted JSON slots back into a typed payload.
// SchemaUnknown falls back to the slot-count heuristic of FromCacheable.
func DecodeCacheable(raw []json.RawMessage, version int) (Cacheable, error) {
	switch version {
	case SchemaUnknown:
		if len(raw) == legacySlotCount {
			return decodeSlots(raw, legacySlotDecoders)
		}
		return decodeSlots(raw, currentSlotDecoders)
	case SchemaLegacy:
		if len(raw) != legacySlotCount {
			return nil, fmt.Errorf("%w: schema %d expects %d slots, got %d", ErrTypeMismatch, version, legacySlotCount, len(raw))
		}
		return decodeSlots(raw, legacySlotDecoders)
	case SchemaCurrent:
		if len(raw) != currentSlotCount {
			return nil, fmt.Errorf("%w: schema %d expects %d slots, got %d", ErrTypeMismatch, version, currentSlotCount, len(raw))
		}
		return decodeSlots(raw, currentSlotDecoders)
	default:
		return nil, fmt.Errorf("%w: unsupported schema version %d", ErrTypeMismatch, version)
	}
}

type slotDecoder func(json.RawMessage) (any, error)

func decodeAs[T any]() slotDecoder {
	return func(data json.RawMessage) (any, error) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// decodeRef decodes into a freshly allocated *T, for types whose JSON form
// is implemented on the pointer.
func decodeRef[T any]() slotDecoder {
	return func(data json.RawMessage) (any, error) {
		v := new(T)
		if err := json.Unmarshal(data, v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

var commonSlotDecoders = []slotDecoder{
	decodeAs[string](),
	decodeAs[time.Time](),
	decodeAs[bool](),
	decodeAs[int64](),
	decodeRef[OrderedMap[int64, int64]](),
	decodeAs[Priority](),
}

var legacySlotDecoders = append(append([]slotDecoder{}, commonSlotDecoders...),
	decodeRef[HistoryBuffer](),
)

var currentSlotDecoders = append(append([]slotDecoder{}, commonSlotDecoders...),
	decodeRef[OrderedMap[Date, string]](),
	decodeAs[TimeOfDay](),
	decodeRef[OrderedMap[string, Saving]](),
	decodeRef[MilestoneSet](),
	decodeRef[HistoryBuffer](),
)

func decodeSlots(raw []json.RawMessage, decoders []slotDecoder) (Cacheable, error) {
	if len(raw) < len(decoders) {
		return nil, fmt.Errorf("%w: payload has %d slots, expected %d", ErrTypeMismatch, len(raw), len(decoders))
	}
	out := make(Cacheable, len(decoders))
	for i, dec := range decoders {
		if isNull(raw[i]) {
			return nil, fmt.Errorf("%w: slot %d is null", ErrTypeMismatch, i)
		}
		v, err := dec(raw[i])
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d: %v", ErrTypeMismatch, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}
