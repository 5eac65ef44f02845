package journal

import (
	"strings"

	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/entry"
)

// ActiveQuestions returns the active questions of c in list order.
func (j *Journal) ActiveQuestions(c category.Category) []entry.Question {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.activeQuestions(c)
}

func (j *Journal) activeQuestions(c category.Category) []entry.Question {
	var out []entry.Question
	for _, q := range j.questions {
		if q.Category == c && q.IsActive {
			out = append(out, q)
		}
	}
	return out
}

// Questions returns every question, active or not.
func (j *Journal) Questions() []entry.Question {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]entry.Question(nil), j.questions...)
}

// AddQuestion appends an active question to c.
func (j *Journal) AddQuestion(text string, c category.Category) entry.Question {
	q := entry.Question{
		ID:       j.newID(),
		Text:     strings.TrimSpace(text),
		Category: c,
		IsActive: true,
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.questions = append(j.questions, q)
	return q
}

// ToggleQuestion flips the active flag of the question with id.
func (j *Journal) ToggleQuestion(id string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.questions {
		if j.questions[i].ID == id {
			j.questions[i].IsActive = !j.questions[i].IsActive
			return true
		}
	}
	return false
}

// DeleteQuestion removes the question with id. Responses that reference it
// stay on their entries.
func (j *Journal) DeleteQuestion(id string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, q := range j.questions {
		if q.ID == id {
			j.questions = append(j.questions[:i], j.questions[i+1:]...)
			return true
		}
	}
	return false
}

// QuestionText resolves a response key to its question text. Orphaned keys
// report false.
func (j *Journal) QuestionText(id string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	for _, q := range j.questions {
		if q.ID == id {
			return q.Text, true
		}
	}
	return "", false
}

// Habits returns the tracked habits.
func (j *Journal) Habits() []entry.Habit {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]entry.Habit(nil), j.habits...)
}

// Templates returns the entry templates.
func (j *Journal) Templates() []entry.Template {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]entry.Template(nil), j.templates...)
}
