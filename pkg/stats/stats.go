// Package stats computes writing streaks and the summary figures shown on
// the stats view.
package stats

import (
	"sort"
	"strings"
	"time"

	"tableflip.dev/journal/pkg/entry"
)

// Streak is the current and longest run of consecutive days with an entry.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Streaks counts runs over the local calendar days of untrashed entries that
// are not in the future. The current run is still alive when its newest day
// is today or yesterday.
func Streaks(entries []*entry.Entry, now time.Time) Streak {
	loc := now.Location()
	today := day(now)
	seen := map[time.Time]struct{}{}
	var days []time.Time
	for _, e := range entries {
		if e.IsTrashed || e.Timestamp > now.UnixMilli() {
			continue
		}
		d := day(e.Time(loc))
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	if len(days) == 0 {
		return Streak{}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	var s Streak
	if days[0].Equal(today) || days[0].Equal(today.AddDate(0, 0, -1)) {
		s.Current = 1
		for i := 1; i < len(days); i++ {
			if !days[i].AddDate(0, 0, 1).Equal(days[i-1]) {
				break
			}
			s.Current++
		}
	}

	run := 1
	s.Longest = 1
	for i := 1; i < len(days); i++ {
		if days[i].AddDate(0, 0, 1).Equal(days[i-1]) {
			run++
		} else {
			run = 1
		}
		if run > s.Longest {
			s.Longest = run
		}
	}
	return s
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Count is one bucket of a distribution.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Top is the most frequent mood of a group and its share in percent.
type Top struct {
	Mood    string `json:"mood"`
	Percent int    `json:"percent"`
}

// Summary holds the aggregate figures of an entry set.
type Summary struct {
	Entries      int            `json:"entries"`
	Words        int            `json:"words"`
	LongestTitle string         `json:"longestTitle,omitempty"`
	LongestWords int            `json:"longestWords"`
	Moods        []Count        `json:"moods"`
	Locations    []Count        `json:"locations"`
	Activity     map[string]int `json:"activity"`
	WeatherMoods map[string]Top `json:"weatherMoods"`
	DayMoods     map[int]Top    `json:"dayMoods"`
	Earliest     int64          `json:"earliest,omitempty"`
	Streak       Streak         `json:"streak"`
}

// TopLocations is how many locations Summarize keeps.
const TopLocations = 5

// Summarize aggregates entries as seen from now.
func Summarize(entries []*entry.Entry, now time.Time) Summary {
	loc := now.Location()
	s := Summary{
		Entries:      len(entries),
		Activity:     map[string]int{},
		WeatherMoods: map[string]Top{},
		DayMoods:     map[int]Top{},
		Streak:       Streaks(entries, now),
	}
	moods := map[string]int{}
	locations := map[string]int{}
	weather := map[string]map[string]int{}
	weekdays := map[int]map[string]int{}

	for _, e := range entries {
		t := e.Time(loc)
		if s.Earliest == 0 || e.Timestamp < s.Earliest {
			s.Earliest = e.Timestamp
		}
		s.Activity[t.Format("2006-01-02")]++

		if e.Mood != "" {
			moods[e.Mood]++
			if e.Weather != nil && e.Weather.Condition != "" {
				bump(weather, e.Weather.Condition, e.Mood)
			}
			bump(weekdays, int(t.Weekday()), e.Mood)
		}
		if e.Location != "" {
			locations[e.Location]++
		}

		n := WordCount(e)
		s.Words += n
		if n > s.LongestWords {
			s.LongestWords = n
			s.LongestTitle = e.DisplayTitle()
		}
	}

	s.Moods = sorted(moods)
	s.Locations = sorted(locations)
	if len(s.Locations) > TopLocations {
		s.Locations = s.Locations[:TopLocations]
	}
	for k, m := range weather {
		s.WeatherMoods[k] = top(m)
	}
	for k, m := range weekdays {
		s.DayMoods[k] = top(m)
	}
	return s
}

// WordCount counts the words of the free text and every response.
func WordCount(e *entry.Entry) int {
	n := len(strings.Fields(e.FreeTextContent))
	for _, r := range e.Responses {
		n += len(strings.Fields(r))
	}
	return n
}

func bump[K comparable](m map[K]map[string]int, k K, mood string) {
	if m[k] == nil {
		m[k] = map[string]int{}
	}
	m[k][mood]++
}

func sorted(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func top(m map[string]int) Top {
	total := 0
	var best Count
	for _, c := range sorted(m) {
		total += c.Count
		if c.Count > best.Count {
			best = c
		}
	}
	if total == 0 {
		return Top{}
	}
	return Top{Mood: best.Key, Percent: (best.Count*100 + total/2) / total}
}
