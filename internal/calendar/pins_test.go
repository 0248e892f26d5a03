package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinToggle(t *testing.T) {
	p := NewPinSet()
	k := DayKey("2026-03-10")

	assert.True(t, p.Toggle(k))
	assert.True(t, p.Pinned(k))
	assert.Equal(t, []DayKey{k}, p.Keys())

	assert.False(t, p.Toggle(k))
	assert.False(t, p.Pinned(k))
	assert.Empty(t, p.Keys())
}

func TestPinToggleInvolution(t *testing.T) {
	p := NewPinSet(DayKey("2026-01-01"), DayKey("2026-06-15"))
	before := p.Keys()

	for _, k := range []DayKey{"2026-01-01", "2026-12-31", "2026-06-15"} {
		p.Toggle(k)
		p.Toggle(k)
		assert.Equal(t, before, p.Keys(), "double toggle of %s changed the set", k)
	}
}

func TestPinSetInitialSeed(t *testing.T) {
	p := NewPinSet(DayKey("2026-05-02"), DayKey("2026-05-01"))

	assert.Equal(t, 2, p.Len())
	assert.True(t, p.Pinned(DayKey("2026-05-01")))
	// Keys come back sorted regardless of seed order.
	assert.Equal(t, []DayKey{"2026-05-01", "2026-05-02"}, p.Keys())
}

func TestPinToggleCallback(t *testing.T) {
	p := NewPinSet()

	type change struct {
		key    DayKey
		pinned bool
	}
	var seen []change
	p.OnToggle(func(k DayKey, pinned bool) {
		seen = append(seen, change{k, pinned})
	})

	p.Toggle(DayKey("2026-03-10"))
	p.Toggle(DayKey("2026-03-10"))
	p.Toggle(DayKey("2026-04-01"))

	require.Len(t, seen, 3)
	assert.Equal(t, change{"2026-03-10", true}, seen[0])
	assert.Equal(t, change{"2026-03-10", false}, seen[1])
	assert.Equal(t, change{"2026-04-01", true}, seen[2])
}
