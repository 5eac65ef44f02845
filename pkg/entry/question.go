package entry

import "tableflip.dev/journal/pkg/category"

// Question is a prompt answered by structured entries of its category.
type Question struct {
	ID          string            `json:"id"`
	Text        string            `json:"text"`
	Category    category.Category `json:"category"`
	SubCategory string            `json:"subCategory,omitempty"`
	IsActive    bool              `json:"isActive"`
}

// Habit is a tracked daily habit. Values live on entries.
type Habit struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Type     string            `json:"type"`
	Target   float64           `json:"target,omitempty"`
	Unit     string            `json:"unit,omitempty"`
	Icon     string            `json:"icon,omitempty"`
	Category category.Category `json:"category"`
	IsActive bool              `json:"isActive"`
}

// Template is a named set of question texts used to seed new entries.
type Template struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Questions []string          `json:"questions"`
	Category  category.Category `json:"category"`
	IsDefault bool              `json:"isDefault,omitempty"`
}

// DefaultQuestions is the starter question set of a fresh journal.
func DefaultQuestions() []Question {
	return []Question{
		{ID: "d1", Text: "What am I grateful for today?", Category: category.Daily, SubCategory: "personal", IsActive: true},
		{ID: "d2", Text: "What would make today great?", Category: category.Daily, SubCategory: "goals", IsActive: true},
		{ID: "d3", Text: "What did I learn today?", Category: category.Daily, SubCategory: "general", IsActive: true},
		{ID: "w1", Text: "What was the highlight of the week?", Category: category.Weekly, SubCategory: "general", IsActive: true},
		{ID: "w2", Text: "What will I focus on next week?", Category: category.Weekly, SubCategory: "goals", IsActive: true},
		{ID: "m1", Text: "How did this month move my goals forward?", Category: category.Monthly, SubCategory: "goals", IsActive: true},
		{ID: "y1", Text: "What defined this year?", Category: category.Yearly, SubCategory: "achieved", IsActive: true},
	}
}
