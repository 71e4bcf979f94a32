package tui

import (
	"fmt"

	"github.com/taskdeck/taskdeck/internal/model"
)

func formatTaskSummary(task model.Task) string {
	mark := "[ ]"
	if task.Completed {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s @ %s | %s %s",
		mark,
		task.Name,
		valueOr(task.Location, "no location"),
		valueOr(primeDate(task.Date), "no date"),
		valueOr(primeTime(task.Time), "no time"),
	)
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func countTasks(tasks []model.Task) (total, upcoming, completed int) {
	total = len(tasks)
	for _, task := range tasks {
		if task.Completed {
			completed++
		}
	}
	return total, total - completed, completed
}

func removeTask(tasks []model.Task, id int64) []model.Task {
	out := tasks[:0]
	for _, task := range tasks {
		if task.ID != id {
			out = append(out, task)
		}
	}
	return out
}

func setCompleted(tasks []model.Task, id int64, completed bool) {
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Completed = completed
			return
		}
	}
}
