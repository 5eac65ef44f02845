package timeutil

import (
	"testing"
	"time"

	"tableflip.dev/journal/pkg/entry"
)

func TestParseWindowComposite(t *testing.T) {
	dur, err := ParseWindow("1w2d6h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (7*24 + 2*24 + 6) * time.Hour
	if dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
	if got := FormatWindow(dur); got != "1w2d6h" {
		t.Fatalf("unexpected label: %s", got)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"", "noop", "3mo", "0d"} {
		if _, err := ParseWindow(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestParseBound(t *testing.T) {
	now := time.Date(2024, time.March, 9, 15, 4, 5, 0, time.UTC)
	ms := func(y int, m time.Month, d int) int64 {
		return entry.ToMillis(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}

	tests := map[string]struct {
		raw     string
		want    int64
		wantErr bool
	}{
		"empty":     {raw: "", want: 0},
		"today":     {raw: "Today", want: ms(2024, time.March, 9)},
		"yesterday": {raw: "yesterday", want: ms(2024, time.March, 8)},
		"date":      {raw: "2024-02-29", want: ms(2024, time.February, 29)},
		"rfc3339":   {raw: "2024-03-01T12:00:00Z", want: ms(2024, time.March, 1) + 12*3600*1000},
		"millis":    {raw: "1700000000000", want: 1700000000000},
		"window":    {raw: "1w", want: ms(2024, time.March, 2)},
		"invalid":   {raw: "someday", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseBound(tc.raw, now)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseBound(%q) error = %v, wantErr %v", tc.raw, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseBound(%q) = %d, want %d", tc.raw, got, tc.want)
			}
		})
	}
}
