package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/session"
)

// fakeBackend is an in-memory api.Backend. With a nil gui every spawn/update
// pair runs inline, so flows complete before the assertion runs.
type fakeBackend struct {
	tasks  []model.Task
	nextID int64
	token  string

	listErr   error
	saveErr   error
	deleteErr error

	listCalls int
}

func (f *fakeBackend) SetToken(token string) { f.token = token }

func (f *fakeBackend) Login(ctx context.Context, email, password string) (model.Session, error) {
	return model.Session{User: model.User{ID: 1, Name: "alice", Email: email}, Token: "tok-login"}, nil
}

func (f *fakeBackend) Signup(ctx context.Context, username, email, password string) error {
	return nil
}

func (f *fakeBackend) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) error {
	return nil
}

func (f *fakeBackend) ListTasks(ctx context.Context, filter model.Filter) ([]model.Task, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	var out []model.Task
	for _, task := range f.tasks {
		if filter.Empty() {
			out = append(out, task)
			continue
		}
		switch filter.Mode {
		case model.FilterByDate:
			if primeDate(task.Date) == filter.Value {
				out = append(out, task)
			}
		default:
			if strings.Contains(task.Name, filter.Value) {
				out = append(out, task)
			}
		}
	}
	return out, nil
}

func (f *fakeBackend) CreateTask(ctx context.Context, input model.TaskInput) (model.Task, error) {
	if f.saveErr != nil {
		return model.Task{}, f.saveErr
	}
	f.nextID++
	task := model.Task{
		ID: f.nextID, Name: input.Name, Location: input.Location,
		Date: input.Date, Time: input.Time, Completed: input.Completed,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeBackend) UpdateTask(ctx context.Context, id int64, input model.TaskInput) (model.Task, error) {
	if f.saveErr != nil {
		return model.Task{}, f.saveErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i] = model.Task{
				ID: id, Name: input.Name, Location: input.Location,
				Date: input.Date, Time: input.Time, Completed: input.Completed,
			}
			return f.tasks[i], nil
		}
	}
	return model.Task{}, errors.New("task not found")
}

func (f *fakeBackend) DeleteTask(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return errors.New("task not found")
}

func newTestApp(t *testing.T, backend *fakeBackend) *App {
	t.Helper()
	app := &App{
		backend:  backend,
		sessions: session.NewStore(filepath.Join(t.TempDir(), "session.json")),
		screen:   screenDashboard,
		session:  model.Session{User: model.User{ID: 1, Name: "alice"}, Token: "tok"},
		dash:     newDashboard(),
	}
	app.formEditor = &formEditor{app: app}
	return app
}

func seededBackend() *fakeBackend {
	return &fakeBackend{
		nextID: 3,
		tasks: []model.Task{
			{ID: 1, Name: "Buy milk", Date: "2026-03-14", Completed: false},
			{ID: 2, Name: "Dentist", Date: "2026-03-15", Completed: false},
			{ID: 3, Name: "Ship release", Date: "2026-03-16", Completed: true},
		},
	}
}

func TestDeleteRemovesOnlyMatchingTask(t *testing.T) {
	backend := seededBackend()
	app := newTestApp(t, backend)
	app.fetchTasks(model.Filter{})
	listCalls := backend.listCalls

	app.dash.selected = 1
	if err := app.askDeleteTask(nil, nil); err != nil {
		t.Fatalf("ask delete: %v", err)
	}
	if app.dash.confirmID != 2 {
		t.Fatalf("confirmID = %d, want 2", app.dash.confirmID)
	}
	if err := app.confirmDelete(nil, nil); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}

	if len(app.dash.tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(app.dash.tasks))
	}
	if app.dash.tasks[0].ID != 1 || app.dash.tasks[1].ID != 3 {
		t.Fatalf("order not preserved: %+v", app.dash.tasks)
	}
	if backend.listCalls != listCalls {
		t.Fatalf("delete must not refetch, list calls went %d -> %d", listCalls, backend.listCalls)
	}
}

func TestToggleFlipsOneFlagInPlace(t *testing.T) {
	backend := seededBackend()
	app := newTestApp(t, backend)
	app.fetchTasks(model.Filter{})
	listCalls := backend.listCalls

	app.dash.selected = 0
	if err := app.toggleCompletion(nil, nil); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if !app.dash.tasks[0].Completed {
		t.Fatalf("expected task 1 completed")
	}
	if app.dash.tasks[1].Completed {
		t.Fatalf("task 2 must be untouched")
	}
	total, upcoming, completed := countTasks(app.dash.tasks)
	if upcoming+completed != total {
		t.Fatalf("counts out of balance: total %d upcoming %d completed %d", total, upcoming, completed)
	}
	if completed != 2 {
		t.Fatalf("completed = %d, want 2", completed)
	}
	if backend.listCalls != listCalls {
		t.Fatalf("toggle must not refetch")
	}
}

func TestSubmitTaskFormCreatesAndRefetches(t *testing.T) {
	backend := seededBackend()
	app := newTestApp(t, backend)
	app.fetchTasks(model.Filter{})
	listCalls := backend.listCalls

	if err := app.addTask(nil, nil); err != nil {
		t.Fatalf("add task: %v", err)
	}
	app.dash.form.fields[taskFieldName].Value = "Water plants"
	if err := app.submitTaskForm(nil, nil); err != nil {
		t.Fatalf("submit form: %v", err)
	}

	if app.dash.form != nil {
		t.Fatalf("form should close after a successful save")
	}
	if backend.listCalls != listCalls+1 {
		t.Fatalf("create must refetch, list calls went %d -> %d", listCalls, backend.listCalls)
	}
	if len(app.dash.tasks) != 4 {
		t.Fatalf("expected 4 tasks after create, got %d", len(app.dash.tasks))
	}
	if app.dash.tasks[3].ID == 0 {
		t.Fatalf("created task must carry the server-assigned id")
	}
}

func TestSubmitTaskFormFailureKeepsFormOpen(t *testing.T) {
	backend := seededBackend()
	app := newTestApp(t, backend)
	app.fetchTasks(model.Filter{})

	if err := app.addTask(nil, nil); err != nil {
		t.Fatalf("add task: %v", err)
	}
	app.dash.form.fields[taskFieldName].Value = "Doomed"
	backend.saveErr = errors.New("Failed to save task")
	if err := app.submitTaskForm(nil, nil); err != nil {
		t.Fatalf("submit form: %v", err)
	}

	if app.dash.form == nil {
		t.Fatalf("form must stay open so input isn't lost")
	}
	if app.dash.form.fields[taskFieldName].Value != "Doomed" {
		t.Fatalf("typed input was lost")
	}
	if app.dash.status == "" {
		t.Fatalf("expected an error status")
	}
}

func TestFetchFailureKeepsPreviousList(t *testing.T) {
	backend := seededBackend()
	app := newTestApp(t, backend)
	app.fetchTasks(model.Filter{})

	backend.listErr = errors.New("Failed to fetch tasks")
	app.fetchTasks(app.currentFilter())

	if len(app.dash.tasks) != 3 {
		t.Fatalf("stale list must stay visible, got %d tasks", len(app.dash.tasks))
	}
	if app.dash.errorText == "" {
		t.Fatalf("expected an error banner")
	}

	backend.listErr = nil
	app.fetchTasks(app.currentFilter())
	if app.dash.errorText != "" {
		t.Fatalf("a successful fetch must clear the error banner")
	}
}

func TestToggleFilterModeDiscardsQuery(t *testing.T) {
	app := newTestApp(t, seededBackend())
	app.dash.filterValue = "milk"

	if err := app.toggleFilterMode(nil, nil); err != nil {
		t.Fatalf("toggle filter mode: %v", err)
	}
	if app.dash.filterMode != model.FilterByDate {
		t.Fatalf("mode = %q", app.dash.filterMode)
	}
	if app.dash.filterValue != "" {
		t.Fatalf("switching modes must drop the old query")
	}
}

func TestCompleteLoginEntersDashboardAndPersists(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(t, backend)
	app.screen = screenLogin
	app.session = model.Session{}
	app.login = newLoginScreen()
	app.login.form.fields[loginFieldEmail].Value = "alice@example.com"
	app.login.form.fields[loginFieldPassword].Value = "pw"

	if err := app.submitLogin(nil, nil); err != nil {
		t.Fatalf("submit login: %v", err)
	}

	if app.screen != screenDashboard {
		t.Fatalf("screen = %q", app.screen)
	}
	if backend.token != "tok-login" {
		t.Fatalf("backend token = %q", backend.token)
	}
	if sess, ok := app.sessions.Restore(); !ok || sess.Token != "tok-login" {
		t.Fatalf("session not persisted, got %+v ok=%v", sess, ok)
	}
	if backend.listCalls == 0 {
		t.Fatalf("entering the dashboard must fetch tasks")
	}
}

func TestLogoutClearsSessionAndToken(t *testing.T) {
	backend := seededBackend()
	app := newTestApp(t, backend)
	backend.token = "tok"
	if err := app.sessions.Save(app.session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	if err := app.logout(nil, nil); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if app.screen != screenLogin {
		t.Fatalf("screen = %q", app.screen)
	}
	if backend.token != "" {
		t.Fatalf("token must be dropped on logout, got %q", backend.token)
	}
	if _, ok := app.sessions.Restore(); ok {
		t.Fatalf("persisted session must be cleared")
	}
}

func TestSignupSuccessDoesNotLogIn(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(t, backend)
	app.screen = screenSignup
	app.session = model.Session{}
	app.signup = newSignupScreen()
	app.signup.form.fields[signupFieldUsername].Value = "alice"
	app.signup.form.fields[signupFieldEmail].Value = "alice@example.com"
	app.signup.form.fields[signupFieldPassword].Value = "Secret123!!"

	if err := app.submitSignup(nil, nil); err != nil {
		t.Fatalf("submit signup: %v", err)
	}

	if app.screen != screenSignup {
		t.Fatalf("signup must not auto-login, screen = %q", app.screen)
	}
	if backend.token != "" {
		t.Fatalf("no token expected after signup, got %q", backend.token)
	}
	if app.signup.notice == "" {
		t.Fatalf("expected a success notice")
	}
	if app.signup.form.fields[signupFieldUsername].Value != "" {
		t.Fatalf("form must be cleared after success")
	}
}

func TestDashboardKeysIgnoredWhileModalOpen(t *testing.T) {
	backend := seededBackend()
	app := newTestApp(t, backend)
	app.fetchTasks(model.Filter{})

	if err := app.addTask(nil, nil); err != nil {
		t.Fatalf("add task: %v", err)
	}
	form := app.dash.form

	if err := app.askDeleteTask(nil, nil); err != nil {
		t.Fatalf("ask delete: %v", err)
	}
	if app.dash.confirmID != 0 {
		t.Fatalf("delete prompt must not open over the task form")
	}
	if err := app.addTask(nil, nil); err != nil {
		t.Fatalf("add task: %v", err)
	}
	if app.dash.form != form {
		t.Fatalf("a second add must not replace the open form")
	}
}

func TestRemoveTaskAndSetCompleted(t *testing.T) {
	tasks := []model.Task{{ID: 1}, {ID: 2}, {ID: 3}}

	tasks = removeTask(tasks, 2)
	if len(tasks) != 2 || tasks[0].ID != 1 || tasks[1].ID != 3 {
		t.Fatalf("removeTask gave %+v", tasks)
	}
	tasks = removeTask(tasks, 99)
	if len(tasks) != 2 {
		t.Fatalf("removing an absent id must be a no-op")
	}

	setCompleted(tasks, 3, true)
	if !tasks[1].Completed || tasks[0].Completed {
		t.Fatalf("setCompleted touched the wrong task: %+v", tasks)
	}
}

func TestFormatTaskSummaryPlaceholders(t *testing.T) {
	got := formatTaskSummary(model.Task{ID: 1, Name: "Dentist"})
	for _, want := range []string{"[ ]", "Dentist", "no location", "no date", "no time"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary %q missing %q", got, want)
		}
	}

	got = formatTaskSummary(model.Task{
		ID: 2, Name: "Flight", Location: "SFO",
		Date: "2026-03-14T00:00:00Z", Time: "14:30:00", Completed: true,
	})
	for _, want := range []string{"[x]", "SFO", "2026-03-14", "14:30"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "14:30:00") || strings.Contains(got, "T00:00") {
		t.Fatalf("summary %q must show trimmed date and time", got)
	}
}
