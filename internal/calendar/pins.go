package calendar

import (
	"sort"
)

// PinSet is the set of day keys the user has flagged, independent of
// events. Toggling is an XOR: a present key is removed, an absent key
// is added, so toggling twice restores the original set.
//
// The set itself does not persist anything. The owner registers an
// OnToggle callback and writes the change wherever it likes; this is
// the only persistence seam.
type PinSet struct {
	keys     map[DayKey]struct{}
	onToggle func(key DayKey, pinned bool)
}

// NewPinSet builds a pin set seeded with the given keys.
func NewPinSet(initial ...DayKey) *PinSet {
	p := &PinSet{keys: make(map[DayKey]struct{}, len(initial))}
	for _, k := range initial {
		p.keys[k] = struct{}{}
	}
	return p
}

// OnToggle registers a callback invoked after every toggle with the
// key and its new pinned state.
func (p *PinSet) OnToggle(fn func(key DayKey, pinned bool)) {
	p.onToggle = fn
}

// Toggle flips the pinned state of key and returns the new state.
func (p *PinSet) Toggle(key DayKey) bool {
	_, pinned := p.keys[key]
	if pinned {
		delete(p.keys, key)
	} else {
		p.keys[key] = struct{}{}
	}
	if p.onToggle != nil {
		p.onToggle(key, !pinned)
	}
	return !pinned
}

// Pinned reports whether key is in the set.
func (p *PinSet) Pinned(key DayKey) bool {
	_, ok := p.keys[key]
	return ok
}

// Keys returns the pinned day keys in ascending order.
func (p *PinSet) Keys() []DayKey {
	out := make([]DayKey, 0, len(p.keys))
	for k := range p.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p *PinSet) Len() int {
	return len(p.keys)
}
