package calendar

// BuildIndex derives the day index from an ordered event list: a map
// from day key to the events whose inclusive [Start, End] range covers
// that day. An event spanning N days lands in exactly N buckets, once
// each, and buckets preserve the event list's order. Order within a
// bucket is insertion order, not time-of-day order.
//
// The build is a pure function of its input; Store.Index caches the
// result against the store version.
func BuildIndex(events []Event) map[DayKey][]Event {
	index := make(map[DayKey][]Event)
	for _, ev := range events {
		for d := ev.Start; ; d = d.AddDate(0, 0, 1) {
			k := KeyOf(d)
			index[k] = append(index[k], ev)
			if SameDay(d, ev.End) {
				break
			}
		}
	}
	return index
}
