package tui

import (
	"strings"

	"github.com/taskdeck/taskdeck/internal/model"
)

const (
	taskFieldName = iota
	taskFieldLocation
	taskFieldDate
	taskFieldTime
)

// taskForm holds the add/edit modal state. editingID is zero for a new
// task, completed carries the existing flag through an edit untouched.
type taskForm struct {
	formState
	editingID int64
	completed bool
}

func newTaskForm(task *model.Task) *taskForm {
	form := &taskForm{formState: formState{fields: []formField{
		{Label: "Task Name"},
		{Label: "Location"},
		{Label: "Date (YYYY-MM-DD)"},
		{Label: "Time (HH:MM)"},
	}}}
	if task == nil {
		return form
	}

	form.editingID = task.ID
	form.completed = task.Completed
	form.fields[taskFieldName].Value = task.Name
	form.fields[taskFieldLocation].Value = task.Location
	form.fields[taskFieldDate].Value = primeDate(task.Date)
	form.fields[taskFieldTime].Value = primeTime(task.Time)
	return form
}

func parseTaskForm(form *taskForm) model.TaskInput {
	return model.TaskInput{
		Name:      strings.TrimSpace(form.fields[taskFieldName].Value),
		Location:  strings.TrimSpace(form.fields[taskFieldLocation].Value),
		Date:      strings.TrimSpace(form.fields[taskFieldDate].Value),
		Time:      strings.TrimSpace(form.fields[taskFieldTime].Value),
		Completed: form.completed,
	}
}

// primeDate trims a stored date down to its calendar part, so a full
// timestamp like 2026-03-14T00:00:00Z primes the field as 2026-03-14.
func primeDate(date string) string {
	if i := strings.Index(date, "T"); i >= 0 {
		return date[:i]
	}
	return date
}

// primeTime drops seconds, 14:30:00 primes as 14:30.
func primeTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
