package calendar

import (
	"strings"
	"testing"
	"time"
)

func TestRenderMonth(t *testing.T) {
	today := time.Date(2024, time.February, 14, 9, 0, 0, 0, time.UTC)
	out := Render(today, map[string]int{"2024-02-03": 1}, Options{ShowHeader: true})
	lines := strings.Split(out, "\n")

	if !strings.Contains(lines[0], "February 2024") {
		t.Fatalf("expected month title, got %q", lines[0])
	}
	if lines[1] != "Su Mo Tu We Th Fr Sa" {
		t.Fatalf("unexpected weekday header %q", lines[1])
	}
	// Feb 1 2024 is a Thursday: four blank cells then 1 2 3.
	if got := strings.Join(strings.Fields(lines[2]), " "); got != "1 2 3" {
		t.Fatalf("unexpected first week %q", lines[2])
	}
	if !strings.Contains(lines[len(lines)-1], "29") {
		t.Fatalf("expected leap day in the last week, got %q", lines[len(lines)-1])
	}
}

func TestDaysIn(t *testing.T) {
	tests := map[string]struct {
		t    time.Time
		want int
	}{
		"leap february": {t: time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), want: 29},
		"february":      {t: time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC), want: 28},
		"december":      {t: time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), want: 31},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := DaysIn(tc.t); got != tc.want {
				t.Fatalf("DaysIn() = %d, want %d", got, tc.want)
			}
		})
	}
}
