package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Activity prints the month containing on, highlighting days that have
// entries. activity is keyed by YYYY-MM-DD as produced by stats.Summarize.
func (pp *PrettyPrint) Activity(on time.Time, activity map[string]int) {
	then := time.Date(on.Year(), on.Month(), 1, 1, 0, 0, 0, on.Location())
	pp.PrintMonthCount(then, MonthCount(then, activity))
}

// ActivityYear prints every month of on's year.
func (pp *PrettyPrint) ActivityYear(on time.Time, activity map[string]int) {
	now := time.Date(on.Year(), 1, 1, 1, 0, 0, 0, on.Location())

	for i := 0; i < 12; i++ {
		pp.PrintMonthCount(now, MonthCount(now, activity))
		now = NextMonth(now)
	}
}

// MonthCount projects activity onto the days of then's month.
func MonthCount(then time.Time, activity map[string]int) []int {
	days := DaysIn(then)
	count := make([]int, days)
	for i := 0; i < days; i++ {
		key := time.Date(then.Year(), then.Month(), i+1, 0, 0, 0, 0, then.Location()).Format("2006-01-02")
		count[i] = activity[key]
	}
	return count
}

func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	w := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := fmt.Sprintf("%s %d", then.Month(), then.Year())
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	days := DaysIn(then)

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(w, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)
	l3 := color.New(color.Bold, color.FgHiGreen)

	for i := 0; i < days; i++ {
		n := 0
		if i < len(count) {
			n = count[i]
		}
		switch {
		case n == 0:
			_, _ = l1.Fprintf(w, "%2d ", i+1)
		case n == 1:
			_, _ = l2.Fprintf(w, "%2d ", i+1)
		default:
			_, _ = l3.Fprintf(w, "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(w, "\n")
		}
	}
	_, _ = fmt.Fprint(w, "\n\n")
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Year(), then.Month()+1, 1, 1, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
