package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexSingleDay(t *testing.T) {
	s := NewStore()
	_, err := s.Add("Midterm", day(2026, 3, 10), day(2026, 3, 10), "14:00", ColorBlue)
	require.NoError(t, err)

	idx := s.Index()
	require.Len(t, idx, 1)
	bucket := idx[DayKey("2026-03-10")]
	require.Len(t, bucket, 1)
	assert.Equal(t, "Midterm", bucket[0].Title)
}

func TestBuildIndexMultiDaySpan(t *testing.T) {
	s := NewStore()
	_, err := s.Add("Spring Break", day(2026, 3, 23), day(2026, 3, 27), "", ColorGreen)
	require.NoError(t, err)

	idx := s.Index()
	require.Len(t, idx, 5)
	for _, k := range []DayKey{"2026-03-23", "2026-03-24", "2026-03-25", "2026-03-26", "2026-03-27"} {
		bucket := idx[k]
		require.Len(t, bucket, 1, "missing bucket %s", k)
		assert.Equal(t, "Spring Break", bucket[0].Title)
	}
}

func TestBuildIndexCoverage(t *testing.T) {
	s := NewStore()
	_, err := s.Add("One", day(2026, 3, 9), day(2026, 3, 11), "", ColorRed)
	require.NoError(t, err)
	_, err = s.Add("Two", day(2026, 3, 10), day(2026, 3, 10), "09:00", ColorTeal)
	require.NoError(t, err)
	_, err = s.Add("Three", day(2026, 2, 27), day(2026, 3, 2), "", ColorPurple)
	require.NoError(t, err)

	idx := s.Index()

	// Every day in every event's range holds the event exactly once.
	for _, ev := range s.Events() {
		for d := ev.Start; !d.After(ev.End); d = d.AddDate(0, 0, 1) {
			count := 0
			for _, got := range idx[KeyOf(d)] {
				if got.ID == ev.ID {
					count++
				}
			}
			assert.Equal(t, 1, count, "event %s on %s", ev.Title, KeyOf(d))
		}
	}

	// Total (event, day) pairs equal the sum of span lengths.
	total := 0
	for _, bucket := range idx {
		total += len(bucket)
	}
	want := 0
	for _, ev := range s.Events() {
		want += ev.Days()
	}
	assert.Equal(t, want, total)
}

func TestBuildIndexBucketOrder(t *testing.T) {
	s := NewStore()
	_, err := s.Add("Afternoon", day(2026, 3, 10), day(2026, 3, 10), "15:00", ColorRed)
	require.NoError(t, err)
	_, err = s.Add("Morning", day(2026, 3, 8), day(2026, 3, 12), "08:00", ColorBlue)
	require.NoError(t, err)

	// Buckets keep insertion order; they are not sorted by time-of-day.
	bucket := s.EventsOn(day(2026, 3, 10))
	require.Len(t, bucket, 2)
	assert.Equal(t, "Afternoon", bucket[0].Title)
	assert.Equal(t, "Morning", bucket[1].Title)
}

func TestBuildIndexEmpty(t *testing.T) {
	assert.Empty(t, BuildIndex(nil))
	assert.Empty(t, BuildIndex([]Event{}))
}

func TestBuildIndexAcrossMonthBoundary(t *testing.T) {
	events := []Event{{
		ID:    "x",
		Title: "Reading Week",
		Start: day(2026, 1, 30),
		End:   day(2026, 2, 2),
	}}

	idx := BuildIndex(events)
	require.Len(t, idx, 4)
	for _, k := range []DayKey{"2026-01-30", "2026-01-31", "2026-02-01", "2026-02-02"} {
		assert.Len(t, idx[k], 1, "bucket %s", k)
	}
}

func TestDayKeyRoundTrip(t *testing.T) {
	d := day(2026, 3, 10)
	k := KeyOf(d)
	assert.Equal(t, DayKey("2026-03-10"), k)

	back, err := ParseKey(k)
	require.NoError(t, err)
	assert.True(t, SameDay(d, back))

	_, err = ParseKey(DayKey("not-a-day"))
	assert.Error(t, err)
}

func TestMidnightDropsTime(t *testing.T) {
	at := time.Date(2026, 3, 10, 23, 59, 59, 0, time.Local)
	assert.Equal(t, day(2026, 3, 10), Midnight(at))
	assert.Equal(t, KeyOf(at), KeyOf(Midnight(at)))
}
