package tui

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"github.com/taskdeck/taskdeck/internal/model"
)

type dashboard struct {
	tasks    []model.Task
	selected int

	filterMode  model.FilterMode
	filterValue string

	searchActive bool
	loading      bool
	saving       bool
	errorText    string
	status       string

	form        *taskForm
	confirmID   int64
	confirmName string
}

func newDashboard() dashboard {
	return dashboard{filterMode: model.FilterByName}
}

func (a *App) currentFilter() model.Filter {
	return model.Filter{Mode: a.dash.filterMode, Value: a.dash.filterValue}
}

func (a *App) selectedDashTask() *model.Task {
	if a.dash.selected >= 0 && a.dash.selected < len(a.dash.tasks) {
		return &a.dash.tasks[a.dash.selected]
	}
	return nil
}

func (a *App) layoutDashboard(gui *gocui.Gui, maxX, maxY int) error {
	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	a.renderDashHeader(headerView)

	statsView, err := gui.SetView(viewStats, 0, 1, maxX-1, 1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	statsView.Frame = false
	a.renderStats(statsView)

	footerY1 := maxY - 1
	footerY0 := footerY1 - 2
	if footerY0 < 3 {
		footerY0 = 3
	}

	tasksView, err := gui.SetView(viewTasks, 0, 2, maxX-1, footerY0-1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		tasksView.Title = "Tasks"
	}
	tasksView.Frame = true
	tasksView.Highlight = true
	tasksView.SelBgColor = gocui.ColorBlue
	tasksView.SelFgColor = gocui.ColorBlack
	a.renderTaskList(tasksView)

	statusLine := a.dash.status
	if a.dash.errorText != "" {
		statusLine = "! " + a.dash.errorText
	}
	hints := "a add | e edit | d delete | x toggle done | / search | f search mode | g clear | r reload | o logout | q quit"
	if err := a.renderFooter(gui, maxX, maxY, hints, statusLine); err != nil {
		return err
	}

	if a.dash.searchActive {
		if err := a.showSearch(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewSearch)
	}

	if a.dash.form != nil {
		if err := a.showTaskForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewTaskForm)
	}

	if a.dash.confirmID != 0 {
		if err := a.showConfirm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewConfirm)
	}

	if !a.inputActive() {
		_, _ = gui.SetCurrentView(viewTasks)
	}
	gui.Cursor = a.dash.searchActive || a.dash.form != nil

	return nil
}

func (a *App) renderDashHeader(view *gocui.View) {
	view.Clear()
	name := a.session.User.Name
	if name == "" {
		name = a.session.User.Email
	}

	filterLabel := "none"
	if a.dash.filterValue != "" {
		filterLabel = fmt.Sprintf("%s=%q", a.dash.filterMode, a.dash.filterValue)
	}

	loadingLabel := ""
	if a.dash.loading {
		loadingLabel = " | loading..."
	}

	fmt.Fprintf(view, "Dashboard | %s | search mode: %s | filter: %s%s", name, a.dash.filterMode, filterLabel, loadingLabel)
}

func (a *App) renderStats(view *gocui.View) {
	view.Clear()
	total, upcoming, completed := countTasks(a.dash.tasks)
	fmt.Fprintf(view, "Total: %d | Upcoming: %d | Completed: %d", total, upcoming, completed)
}

func (a *App) renderTaskList(view *gocui.View) {
	view.Clear()
	if len(a.dash.tasks) == 0 {
		if a.dash.loading {
			fmt.Fprint(view, "Loading tasks...")
		} else {
			fmt.Fprint(view, "No tasks yet. Create your first task!")
		}
		return
	}

	for i, task := range a.dash.tasks {
		prefix := " "
		if i == a.dash.selected {
			prefix = ">"
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTaskSummary(task))
	}
	view.SetCursor(0, min(a.dash.selected, len(a.dash.tasks)-1))
}

func (a *App) fetchTasks(filter model.Filter) {
	a.dash.loading = true
	a.dash.errorText = ""

	a.spawn(func() {
		tasks, err := a.backend.ListTasks(context.Background(), filter)
		a.update(func() {
			if a.screen != screenDashboard {
				return
			}
			a.dash.loading = false
			if err != nil {
				// Keep whatever list was already on screen.
				a.dash.errorText = err.Error()
				return
			}
			a.dash.tasks = tasks
			if a.dash.selected >= len(tasks) {
				a.dash.selected = max(len(tasks)-1, 0)
			}
		})
	})
}

func (a *App) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	if a.dash.selected < len(a.dash.tasks)-1 {
		a.dash.selected++
	}
	return nil
}

func (a *App) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	if a.dash.selected > 0 {
		a.dash.selected--
	}
	return nil
}

func (a *App) reload(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	a.dash.status = ""
	a.fetchTasks(a.currentFilter())
	return nil
}

func (a *App) clearFilter(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	a.dash.filterValue = ""
	a.fetchTasks(model.Filter{})
	return nil
}

func (a *App) toggleFilterMode(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	if a.dash.filterMode == model.FilterByName {
		a.dash.filterMode = model.FilterByDate
	} else {
		a.dash.filterMode = model.FilterByName
	}
	// Switching dimensions discards the old query, the two never combine.
	a.dash.filterValue = ""
	return nil
}

func (a *App) startSearch(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	a.dash.searchActive = true
	return nil
}

func (a *App) showSearch(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	x0, y0, x1, y1 := centeredBox(maxX, maxY, max(30, maxX/2), 3)

	view, err := gui.SetView(viewSearch, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
		view.Clear()
		fmt.Fprint(view, a.dash.filterValue)
	}
	if a.dash.filterMode == model.FilterByDate {
		view.Title = "Search by date (YYYY-MM-DD)"
	} else {
		view.Title = "Search by task name"
	}
	view.Editable = true
	view.Editor = gocui.DefaultEditor
	_, _ = gui.SetCurrentView(viewSearch)
	return nil
}

func (a *App) submitSearch(gui *gocui.Gui, view *gocui.View) error {
	a.dash.filterValue = strings.TrimSpace(view.Buffer())
	a.dash.searchActive = false
	_ = gui.DeleteView(viewSearch)
	_, _ = gui.SetCurrentView(viewTasks)
	a.fetchTasks(a.currentFilter())
	return nil
}

func (a *App) cancelSearch(gui *gocui.Gui, _ *gocui.View) error {
	a.dash.searchActive = false
	_ = gui.DeleteView(viewSearch)
	_, _ = gui.SetCurrentView(viewTasks)
	return nil
}

func (a *App) addTask(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	a.dash.form = newTaskForm(nil)
	return nil
}

func (a *App) editTask(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	selected := a.selectedDashTask()
	if selected == nil {
		return nil
	}
	a.dash.form = newTaskForm(selected)
	return nil
}

func (a *App) showTaskForm(gui *gocui.Gui) error {
	if a.dash.form == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	x0, y0, x1, y1 := centeredBox(maxX, maxY, max(56, maxX/2), len(a.dash.form.fields)+2)

	view, err := gui.SetView(viewTaskForm, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if a.dash.form.editingID != 0 {
		view.Title = "Edit Task"
	} else {
		view.Title = "New Task"
	}
	view.Wrap = true
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = a.formEditor
	renderForm(view, &a.dash.form.formState)
	_, _ = gui.SetCurrentView(viewTaskForm)
	return nil
}

func (a *App) submitTaskForm(gui *gocui.Gui, _ *gocui.View) error {
	if a.dash.form == nil || a.dash.saving {
		return nil
	}

	input := parseTaskForm(a.dash.form)
	editingID := a.dash.form.editingID
	a.dash.saving = true

	a.spawn(func() {
		var err error
		if editingID == 0 {
			_, err = a.backend.CreateTask(context.Background(), input)
		} else {
			_, err = a.backend.UpdateTask(context.Background(), editingID, input)
		}
		a.update(func() {
			if a.screen != screenDashboard {
				return
			}
			a.dash.saving = false
			if err != nil {
				// Form stays open so the input isn't lost.
				a.dash.status = "Error saving task: " + err.Error()
				return
			}
			a.dash.form = nil
			a.dash.status = ""
			// Refetch instead of patching locally so the list carries the
			// server-assigned id and canonical field formatting.
			a.fetchTasks(a.currentFilter())
		})
	})
	return nil
}

func (a *App) cancelTaskForm(gui *gocui.Gui, _ *gocui.View) error {
	a.dash.form = nil
	a.dash.status = ""
	_ = gui.DeleteView(viewTaskForm)
	_, _ = gui.SetCurrentView(viewTasks)
	return nil
}

func (a *App) askDeleteTask(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	selected := a.selectedDashTask()
	if selected == nil {
		return nil
	}
	a.dash.confirmID = selected.ID
	a.dash.confirmName = selected.Name
	return nil
}

func (a *App) showConfirm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	x0, y0, x1, y1 := centeredBox(maxX, maxY, max(40, maxX/3), 4)

	view, err := gui.SetView(viewConfirm, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = "Delete Task"
	view.Wrap = true
	view.Clear()
	fmt.Fprintf(view, "Are you sure you want to delete %q?\n\ny delete | n cancel", a.dash.confirmName)
	_, _ = gui.SetCurrentView(viewConfirm)
	return nil
}

func (a *App) confirmDelete(gui *gocui.Gui, _ *gocui.View) error {
	id := a.dash.confirmID
	if id == 0 {
		return nil
	}
	a.dash.confirmID = 0
	a.dash.confirmName = ""

	a.spawn(func() {
		err := a.backend.DeleteTask(context.Background(), id)
		a.update(func() {
			if a.screen != screenDashboard {
				return
			}
			if err != nil {
				a.dash.status = err.Error()
				return
			}
			// Removal is already reflected, no refetch needed.
			a.dash.tasks = removeTask(a.dash.tasks, id)
			if a.dash.selected >= len(a.dash.tasks) {
				a.dash.selected = max(len(a.dash.tasks)-1, 0)
			}
		})
	})
	return nil
}

func (a *App) cancelDelete(gui *gocui.Gui, _ *gocui.View) error {
	a.dash.confirmID = 0
	a.dash.confirmName = ""
	_ = gui.DeleteView(viewConfirm)
	_, _ = gui.SetCurrentView(viewTasks)
	return nil
}

func (a *App) toggleCompletion(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	selected := a.selectedDashTask()
	if selected == nil {
		return nil
	}

	input := model.InputFromTask(*selected)
	input.Completed = !selected.Completed
	id := selected.ID
	completed := input.Completed

	a.spawn(func() {
		_, err := a.backend.UpdateTask(context.Background(), id, input)
		a.update(func() {
			if a.screen != screenDashboard {
				return
			}
			if err != nil {
				a.dash.status = err.Error()
				return
			}
			setCompleted(a.dash.tasks, id, completed)
		})
	})
	return nil
}
