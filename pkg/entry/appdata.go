package entry

import (
	"encoding/json"

	"tableflip.dev/journal/pkg/category"
)

// AppData is the persisted state of one journal.
type AppData struct {
	Entries   []*Entry   `json:"entries"`
	Questions []Question `json:"questions"`
	Habits    []Habit    `json:"habits,omitempty"`
	Settings  *Settings  `json:"settings,omitempty"`
	Templates []Template `json:"templates,omitempty"`
}

// Empty returns fresh AppData seeded with the default questions and settings.
func Empty() AppData {
	s := DefaultSettings()
	return AppData{
		Entries:   []*Entry{},
		Questions: DefaultQuestions(),
		Settings:  &s,
	}
}

// Mood is one selectable mood.
type Mood struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// PublicConfig describes what an anonymous visitor sees.
type PublicConfig struct {
	Enabled    bool                `json:"enabled"`
	Categories []category.Category `json:"categories,omitempty"`
}

// CloudConfig points the remote syncer at a server.
type CloudConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url,omitempty"`
}

// Settings is the subset of the application settings the core understands.
// Unknown keys survive decode and encode through Extra.
type Settings struct {
	UserName        string           `json:"userName,omitempty"`
	AdminPassword   string           `json:"adminPassword,omitempty"`
	Language        string           `json:"language,omitempty"`
	Moods           []Mood           `json:"moods,omitempty"`
	CategoryConfigs category.Configs `json:"categoryConfigs,omitempty"`
	PublicConfig    *PublicConfig    `json:"publicConfig,omitempty"`
	Cloud           *CloudConfig     `json:"cloud,omitempty"`
	EnableStats     *bool            `json:"enableStats,omitempty"`
	EnableHabits    *bool            `json:"enableHabits,omitempty"`
	MinWordCount    int              `json:"minWordCount,omitempty"`

	Extra map[string]any `json:"-"`
}

// DefaultSettings mirrors a fresh installation.
func DefaultSettings() Settings {
	return Settings{
		UserName:        "Journaler",
		Language:        "en",
		CategoryConfigs: category.Defaults(),
		Moods: []Mood{
			{Value: 1, Label: "awful"},
			{Value: 2, Label: "bad"},
			{Value: 3, Label: "okay"},
			{Value: 4, Label: "good"},
			{Value: 5, Label: "great"},
		},
	}
}

// Configs returns the category configs, or the defaults when unset.
func (s *Settings) Configs() category.Configs {
	if s == nil || len(s.CategoryConfigs) == 0 {
		return category.Defaults()
	}
	return s.CategoryConfigs
}

type settingsAlias Settings

// MarshalJSON merges Extra back into the known fields. Known fields win.
func (s Settings) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(settingsAlias(s))
	if err != nil || len(s.Extra) == 0 {
		return b, err
	}
	merged := map[string]any{}
	for k, v := range s.Extra {
		merged[k] = v
	}
	known := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes known fields and keeps the rest in Extra.
func (s *Settings) UnmarshalJSON(b []byte) error {
	var alias settingsAlias
	if err := json.Unmarshal(b, &alias); err != nil {
		return err
	}
	all := map[string]any{}
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range settingsKeys {
		delete(all, k)
	}
	*s = Settings(alias)
	if len(all) > 0 {
		s.Extra = all
	}
	return nil
}

var settingsKeys = []string{
	"userName", "adminPassword", "language", "moods", "categoryConfigs",
	"publicConfig", "cloud", "enableStats", "enableHabits", "minWordCount",
}
