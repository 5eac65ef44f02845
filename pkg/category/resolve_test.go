package category

import (
	"reflect"
	"testing"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name   string
		active Category
		cfg    *Config
		want   []Category
	}{{
		name:   "nil config",
		active: Monthly,
		want:   []Category{Monthly},
	}, {
		name:   "yearly with weekly only",
		active: Yearly,
		cfg:    &Config{IncludeWeekly: true},
		want:   []Category{Weekly, Yearly},
	}, {
		name:   "monthly is not transitive",
		active: Yearly,
		cfg:    &Config{IncludeMonthly: true},
		want:   []Category{Monthly, Yearly},
	}, {
		name:   "weekly with daily",
		active: Weekly,
		cfg:    &Config{IncludeDaily: true},
		want:   []Category{Daily, Weekly},
	}, {
		name:   "everything",
		active: Yearly,
		cfg:    &Config{IncludeDaily: true, IncludeWeekly: true, IncludeMonthly: true},
		want:   []Category{Daily, Weekly, Monthly, Yearly},
	}, {
		name:   "daily ignores flags pointing at itself",
		active: Daily,
		cfg:    &Config{IncludeDaily: true},
		want:   []Category{Daily},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allowed(tt.active, tt.cfg).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Allowed(%s) = %v, want %v", tt.active, got, tt.want)
			}
		})
	}
}

func TestConfigsAllowedMissingKey(t *testing.T) {
	cs := Configs{Weekly: {IncludeDaily: true}}
	if got := cs.Allowed(Monthly).Sorted(); !reflect.DeepEqual(got, []Category{Monthly}) {
		t.Fatalf("expected only MONTHLY, got %v", got)
	}
	if !cs.Allowed(Weekly).Has(Daily) {
		t.Fatalf("expected WEEKLY config to include DAILY")
	}
	var none Configs
	if got := none.Allowed(Yearly).Sorted(); !reflect.DeepEqual(got, []Category{Yearly}) {
		t.Fatalf("expected only YEARLY for nil configs, got %v", got)
	}
}

func TestParse(t *testing.T) {
	if c, err := Parse("weekly"); err != nil || c != Weekly {
		t.Fatalf("Parse(weekly) = %v, %v", c, err)
	}
	if c, err := Parse(""); err != nil || c != Daily {
		t.Fatalf("Parse(\"\") = %v, %v", c, err)
	}
	if _, err := Parse("hourly"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	for _, c := range All() {
		cfg, ok := d[c]
		if !ok {
			t.Fatalf("missing default for %s", c)
		}
		if cfg.ViewMode != ViewGrid || cfg.IncludeDaily || cfg.IncludeWeekly || cfg.IncludeMonthly {
			t.Fatalf("unexpected default for %s: %+v", c, cfg)
		}
	}
}
