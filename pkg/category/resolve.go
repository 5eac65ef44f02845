package category

// Allowed returns the categories whose entries are visible while active is
// selected. The active category is always present. Each include flag adds
// exactly one category; flags are not transitive. A nil config behaves as all
// flags false.
func Allowed(active Category, cfg *Config) Set {
	s := NewSet(active)
	if cfg == nil {
		return s
	}
	if cfg.IncludeDaily {
		s[Daily] = struct{}{}
	}
	if cfg.IncludeWeekly {
		s[Weekly] = struct{}{}
	}
	if cfg.IncludeMonthly {
		s[Monthly] = struct{}{}
	}
	return s
}
