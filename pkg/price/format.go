package price

import (
	"sort"
	"strings"
	"time"
)

// locales that write clock times with AM/PM.
var twelveHourLocales = map[string]bool{
	"en-US": true,
	"en-CA": true,
	"en-AU": true,
	"en-NZ": true,
	"en-PH": true,
}

// FormatWindows renders the selected cheap intervals as a short display
// string, e.g. "Now: 01:15–02:00, 13:30". Exactly adjacent intervals are
// merged into one window. Returns "Unknown" when nothing relevant is
// left to show.
func FormatWindows(cheapest []Interval, now time.Time, locale, timezone string) string {
	relevant := notOver(cheapest, now)
	if len(relevant) == 0 {
		return "Unknown"
	}
	sort.Slice(relevant, func(i, j int) bool {
		return relevant[i].Start.Before(relevant[j].Start)
	})

	clock := newClock(locale, timezone)

	type window struct {
		start, end time.Time
		merged     int
	}
	var windows []window
	for _, iv := range relevant {
		if len(windows) > 0 && iv.Start.Equal(windows[len(windows)-1].end) {
			windows[len(windows)-1].end = iv.End
			windows[len(windows)-1].merged++
			continue
		}
		windows = append(windows, window{start: iv.Start, end: iv.End, merged: 1})
	}

	parts := make([]string, 0, len(windows))
	for _, w := range windows {
		var label string
		if w.merged == 1 {
			label = clock.render(w.start)
		} else {
			label = clock.render(w.start) + "–" + clock.render(w.end)
		}
		if !now.Before(w.start) && now.Before(w.end) {
			label = "Now: " + label
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

// clock renders instants as hour:minute in a requested locale and
// timezone, falling back to 24 hour UTC when either cannot be resolved.
type clock struct {
	loc     *time.Location
	layout  string
	compact bool
}

func newClock(locale, timezone string) clock {
	c := clock{loc: time.UTC, layout: "15:04"}
	if loc, err := time.LoadLocation(timezone); err == nil && timezone != "" {
		c.loc = loc
	}
	if twelveHourLocales[locale] {
		c.layout = "3:04 PM"
	}
	return c
}

func (c clock) render(t time.Time) string {
	s := t.In(c.loc).Format(c.layout)
	if c.compact {
		s = stripZeroMinutes(s)
	}
	return s
}

// stripZeroMinutes drops a trailing ":00", also when followed by a
// suffix like an AM/PM marker: "3:00 PM" becomes "3 PM".
func stripZeroMinutes(s string) string {
	if strings.HasSuffix(s, ":00") {
		return s[:len(s)-3]
	}
	if i := strings.Index(s, ":00 "); i >= 0 {
		return s[:i] + s[i+3:]
	}
	return s
}

// FormatClock renders a single instant the same way FormatWindows does.
// With compact set, whole hours lose their ":00".
func FormatClock(t time.Time, locale, timezone string, compact bool) string {
	c := newClock(locale, timezone)
	c.compact = compact
	return c.render(t)
}
