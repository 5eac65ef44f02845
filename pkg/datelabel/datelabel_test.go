package datelabel

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"tableflip.dev/journal/pkg/category"
)

var testLoc = time.FixedZone("test", -5*3600)

func TestWeeklyLabelBoundaries(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{date: time.Date(2024, 12, 30, 12, 0, 0, 0, testLoc), want: "2025 W01"},
		{date: time.Date(2023, 1, 1, 12, 0, 0, 0, testLoc), want: "2022 W52"},
		{date: time.Date(2020, 12, 31, 12, 0, 0, 0, testLoc), want: "2020 W53"},
		{date: time.Date(2021, 1, 3, 12, 0, 0, 0, testLoc), want: "2020 W53"},
		{date: time.Date(2026, 1, 1, 12, 0, 0, 0, testLoc), want: "2026 W01"},
		{date: time.Date(2024, 3, 10, 12, 0, 0, 0, testLoc), want: "2024 W10"},
	}
	for _, tt := range tests {
		got, err := Label(category.Weekly, tt.date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Fatalf("Label(WEEKLY, %s): expected %q, got %q", tt.date.Format(dayLayout), tt.want, got)
		}
	}
}

func TestISOWeekMatchesTimePackage(t *testing.T) {
	day := time.Date(2014, 12, 1, 9, 0, 0, 0, testLoc)
	end := time.Date(2031, 1, 31, 9, 0, 0, 0, testLoc)
	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		y, w := ISOWeek(day)
		wy, ww := day.ISOWeek()
		if y != wy || w != ww {
			t.Fatalf("%s: expected %d-W%02d, got %d-W%02d", day.Format(dayLayout), wy, ww, y, w)
		}
	}
}

func TestLabelFormats(t *testing.T) {
	// 23:30 at UTC-5 is already the next day in UTC.
	ts := time.Date(2024, 3, 9, 23, 30, 0, 0, testLoc)
	tests := []struct {
		c    category.Category
		want string
	}{
		{c: category.Daily, want: "2024-03-09"},
		{c: category.Weekly, want: "2024 W10"},
		{c: category.Monthly, want: "2024-03"},
		{c: category.Yearly, want: "2024"},
	}
	for _, tt := range tests {
		if got := MustLabel(tt.c, ts); got != tt.want {
			t.Fatalf("Label(%s): expected %q, got %q", tt.c, tt.want, got)
		}
	}
}

func TestLabelUnknownCategory(t *testing.T) {
	if _, err := Label(category.Category("HOURLY"), time.Now()); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestRoundTripSamePeriod(t *testing.T) {
	start := time.Date(2019, 12, 20, 13, 0, 0, 0, testLoc)
	end := time.Date(2027, 1, 15, 13, 0, 0, 0, testLoc)
	for _, c := range category.All() {
		for day := start; day.Before(end); day = day.AddDate(0, 0, 3) {
			label := MustLabel(c, day)
			back, err := Timestamp(c, label, testLoc)
			if err != nil {
				t.Fatalf("Timestamp(%s, %q): %v", c, label, err)
			}
			if !SamePeriod(c, day, back) {
				t.Fatalf("%s: %s -> %q -> %s left the period", c, day, label, back)
			}
		}
	}
}

func TestTimestampDecoding(t *testing.T) {
	tests := []struct {
		c     category.Category
		label string
		want  time.Time
	}{
		{c: category.Daily, label: "2024-03-09", want: time.Date(2024, 3, 9, 0, 0, 0, 0, testLoc)},
		{c: category.Daily, label: "2024-03-09T22:15", want: time.Date(2024, 3, 9, 22, 15, 0, 0, testLoc)},
		{c: category.Weekly, label: "2024 W10", want: time.Date(2024, 3, 7, 0, 0, 0, 0, testLoc)},
		{c: category.Weekly, label: "2024-W01", want: time.Date(2024, 1, 4, 0, 0, 0, 0, testLoc)},
		{c: category.Monthly, label: "2024-02", want: time.Date(2024, 2, 1, 0, 0, 0, 0, testLoc)},
		{c: category.Yearly, label: "2024", want: time.Date(2024, 1, 1, 0, 0, 0, 0, testLoc)},
	}
	for _, tt := range tests {
		got, err := Timestamp(tt.c, tt.label, testLoc)
		if err != nil {
			t.Fatalf("Timestamp(%s, %q): %v", tt.c, tt.label, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("Timestamp(%s, %q): expected %s, got %s", tt.c, tt.label, tt.want, got)
		}
	}
}

func TestTimestampInvalid(t *testing.T) {
	tests := []struct {
		c     category.Category
		label string
	}{
		{c: category.Daily, label: "March 9"},
		{c: category.Weekly, label: "2024 W54"},
		{c: category.Weekly, label: "2021 W53"},
		{c: category.Weekly, label: "2024 W00"},
		{c: category.Weekly, label: "2024-03"},
		{c: category.Monthly, label: "2024-13"},
		{c: category.Yearly, label: "twenty"},
	}
	for _, tt := range tests {
		if _, err := Timestamp(tt.c, tt.label, testLoc); !errors.Is(err, ErrInvalidLabel) {
			t.Fatalf("Timestamp(%s, %q): expected ErrInvalidLabel, got %v", tt.c, tt.label, err)
		}
	}
}

func TestWeek53OnlyInLongYears(t *testing.T) {
	for _, tt := range []struct {
		year int
		want bool
	}{
		{2015, true},
		{2020, true},
		{2021, false},
		{2024, false},
		{2026, true},
	} {
		label := fmt.Sprintf("%d W53", tt.year)
		_, err := Timestamp(category.Weekly, label, testLoc)
		if got := err == nil; got != tt.want {
			t.Errorf("Timestamp(%q) valid = %v, want %v (err %v)", label, got, tt.want, err)
		}
	}
}

func TestEdit(t *testing.T) {
	tests := []struct {
		c         category.Category
		raw       string
		wantTime  time.Time
		wantLabel string
	}{
		{
			c:         category.Daily,
			raw:       "2024-03-09T22:15",
			wantTime:  time.Date(2024, 3, 9, 22, 15, 0, 0, testLoc),
			wantLabel: "2024-03-09",
		},
		{
			c:         category.Weekly,
			raw:       "2024-W10",
			wantTime:  time.Date(2024, 3, 10, 23, 59, 59, int(999*time.Millisecond), testLoc),
			wantLabel: "2024 W10",
		},
		{
			c:         category.Weekly,
			raw:       "2026-W1",
			wantTime:  time.Date(2026, 1, 4, 23, 59, 59, int(999*time.Millisecond), testLoc),
			wantLabel: "2026 W01",
		},
		{
			c:         category.Monthly,
			raw:       "2024-02",
			wantTime:  time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), testLoc),
			wantLabel: "2024-02",
		},
		{
			c:         category.Yearly,
			raw:       "2024",
			wantTime:  time.Date(2024, 12, 31, 23, 59, 59, int(999*time.Millisecond), testLoc),
			wantLabel: "2024",
		},
	}
	for _, tt := range tests {
		ts, label, err := Edit(tt.c, tt.raw, testLoc)
		if err != nil {
			t.Fatalf("Edit(%s, %q): %v", tt.c, tt.raw, err)
		}
		if !ts.Equal(tt.wantTime) {
			t.Fatalf("Edit(%s, %q): expected time %s, got %s", tt.c, tt.raw, tt.wantTime, ts)
		}
		if label != tt.wantLabel {
			t.Fatalf("Edit(%s, %q): expected label %q, got %q", tt.c, tt.raw, tt.wantLabel, label)
		}
		if got := MustLabel(tt.c, ts); got != label {
			t.Fatalf("Edit(%s, %q): label %q disagrees with timestamp label %q", tt.c, tt.raw, label, got)
		}
	}
}

func TestWeekPickerValue(t *testing.T) {
	if got := WeekPickerValue("2024 W3"); got != "2024-W03" {
		t.Fatalf("expected 2024-W03, got %q", got)
	}
	if got := WeekPickerValue("2024-03"); got != "" {
		t.Fatalf("expected empty picker value, got %q", got)
	}
}
