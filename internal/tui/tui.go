package tui

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/session"
)

const (
	viewHeader   = "header"
	viewFooter   = "footer"
	viewLogin    = "login"
	viewSignup   = "signup"
	viewStats    = "stats"
	viewTasks    = "tasks"
	viewSearch   = "search"
	viewTaskForm = "taskForm"
	viewConfirm  = "confirm"
)

const (
	screenLogin     = "login"
	screenSignup    = "signup"
	screenDashboard = "dashboard"
)

// App is the view router: it owns the current session, decides which screen
// is visible, and threads the bearer token into the backend client. Screens
// keep their own state and never reach for a global.
type App struct {
	gui      *gocui.Gui
	backend  api.Backend
	sessions *session.Store

	screen  string
	session model.Session

	login  loginScreen
	signup signupScreen
	dash   dashboard

	formEditor *formEditor
}

type formField struct {
	Label  string
	Value  string
	Masked bool
}

type formState struct {
	fields []formField
	index  int
}

type formEditor struct {
	app *App
}

func Run(backend api.Backend, sessions *session.Store) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	app := newApp(backend, sessions)
	app.gui = gui

	gui.SetManagerFunc(app.layout)
	if err := app.bindKeys(gui); err != nil {
		return err
	}

	if app.screen == screenDashboard {
		app.fetchTasks(model.Filter{})
	}

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func newApp(backend api.Backend, sessions *session.Store) *App {
	app := &App{
		backend:  backend,
		sessions: sessions,
		screen:   screenLogin,
		login:    newLoginScreen(),
		signup:   newSignupScreen(),
	}
	app.formEditor = &formEditor{app: app}

	if sess, ok := sessions.Restore(); ok {
		app.session = sess
		backend.SetToken(sess.Token)
		app.screen = screenDashboard
		app.dash = newDashboard()
	}

	return app
}

func (a *App) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, a.quit); err != nil {
		return err
	}

	if err := gui.SetKeybinding(viewLogin, gocui.KeyEnter, gocui.ModNone, a.submitLogin); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewLogin, gocui.KeyTab, gocui.ModNone, a.nextField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewLogin, gocui.KeyBacktab, gocui.ModNone, a.prevField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewLogin, gocui.KeyArrowDown, gocui.ModNone, a.nextField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewLogin, gocui.KeyArrowUp, gocui.ModNone, a.prevField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewLogin, gocui.KeyCtrlR, gocui.ModNone, a.toggleReset); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewLogin, gocui.KeyCtrlN, gocui.ModNone, a.gotoSignup); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewLogin, gocui.KeyEsc, gocui.ModNone, a.cancelReset); err != nil {
		return err
	}

	if err := gui.SetKeybinding(viewSignup, gocui.KeyEnter, gocui.ModNone, a.submitSignup); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSignup, gocui.KeyTab, gocui.ModNone, a.nextField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSignup, gocui.KeyBacktab, gocui.ModNone, a.prevField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSignup, gocui.KeyArrowDown, gocui.ModNone, a.nextField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSignup, gocui.KeyArrowUp, gocui.ModNone, a.prevField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSignup, gocui.KeyEsc, gocui.ModNone, a.gotoLogin); err != nil {
		return err
	}

	if err := gui.SetKeybinding("", 'q', gocui.ModNone, a.quitFromDashboard); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'a', gocui.ModNone, a.addTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'e', gocui.ModNone, a.editTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, a.askDeleteTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'x', gocui.ModNone, a.toggleCompletion); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, a.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'g', gocui.ModNone, a.clearFilter); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'f', gocui.ModNone, a.toggleFilterMode); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '/', gocui.ModNone, a.startSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'o', gocui.ModNone, a.logout); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeyArrowDown, gocui.ModNone, a.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'j', gocui.ModNone, a.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeyArrowUp, gocui.ModNone, a.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'k', gocui.ModNone, a.moveUp); err != nil {
		return err
	}

	if err := gui.SetKeybinding(viewSearch, gocui.KeyEnter, gocui.ModNone, a.submitSearch); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewSearch, gocui.KeyEsc, gocui.ModNone, a.cancelSearch); err != nil {
		return err
	}

	if err := gui.SetKeybinding(viewTaskForm, gocui.KeyEnter, gocui.ModNone, a.submitTaskForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTaskForm, gocui.KeyTab, gocui.ModNone, a.nextField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTaskForm, gocui.KeyBacktab, gocui.ModNone, a.prevField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTaskForm, gocui.KeyArrowDown, gocui.ModNone, a.nextField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTaskForm, gocui.KeyArrowUp, gocui.ModNone, a.prevField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTaskForm, gocui.KeyEsc, gocui.ModNone, a.cancelTaskForm); err != nil {
		return err
	}

	if err := gui.SetKeybinding(viewConfirm, 'y', gocui.ModNone, a.confirmDelete); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewConfirm, gocui.KeyEnter, gocui.ModNone, a.confirmDelete); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewConfirm, 'n', gocui.ModNone, a.cancelDelete); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewConfirm, gocui.KeyEsc, gocui.ModNone, a.cancelDelete); err != nil {
		return err
	}

	return nil
}

func (a *App) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	switch a.screen {
	case screenDashboard:
		_ = gui.DeleteView(viewLogin)
		_ = gui.DeleteView(viewSignup)
		return a.layoutDashboard(gui, maxX, maxY)
	case screenSignup:
		_ = gui.DeleteView(viewLogin)
		a.deleteDashboardViews(gui)
		return a.layoutSignup(gui, maxX, maxY)
	default:
		_ = gui.DeleteView(viewSignup)
		a.deleteDashboardViews(gui)
		return a.layoutLogin(gui, maxX, maxY)
	}
}

func (a *App) deleteDashboardViews(gui *gocui.Gui) {
	_ = gui.DeleteView(viewHeader)
	_ = gui.DeleteView(viewStats)
	_ = gui.DeleteView(viewTasks)
	_ = gui.DeleteView(viewSearch)
	_ = gui.DeleteView(viewTaskForm)
	_ = gui.DeleteView(viewConfirm)
}

// centeredBox returns coordinates for a modal-style box in the middle of the
// screen.
func centeredBox(maxX, maxY, width, height int) (int, int, int, int) {
	if width > maxX-2 {
		width = max(maxX-2, 10)
	}
	if height > maxY-2 {
		height = max(maxY-2, 3)
	}
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	return x0, y0, x0 + width, y0 + height
}

func (a *App) renderFooter(gui *gocui.Gui, maxX, maxY int, lines ...string) error {
	footerY1 := maxY - 1
	footerY0 := footerY1 - len(lines)
	if footerY0 < 0 {
		footerY0 = 0
	}

	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	footerView.Clear()
	for _, line := range lines {
		fmt.Fprintln(footerView, line)
	}
	return nil
}

func renderForm(view *gocui.View, form *formState) {
	if view == nil || form == nil {
		return
	}
	view.Clear()
	for index, field := range form.fields {
		prefix := "  "
		if index == form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, displayValue(field))
	}

	label := form.fields[form.index].Label + ": "
	cursorX := len([]rune(label)) + len([]rune(displayValue(form.fields[form.index]))) + 2
	view.SetCursor(cursorX, form.index)
}

func displayValue(field formField) string {
	if !field.Masked {
		return field.Value
	}
	masked := make([]rune, len([]rune(field.Value)))
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked)
}

// activeForm resolves which form the shared editor writes into.
func (a *App) activeForm() *formState {
	switch a.screen {
	case screenSignup:
		return a.signup.form
	case screenDashboard:
		if a.dash.form != nil {
			return &a.dash.form.formState
		}
		return nil
	default:
		if a.login.reset {
			return a.login.resetForm
		}
		return a.login.form
	}
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	app := e.app
	if app == nil || view == nil {
		return false
	}
	form := app.activeForm()
	if form == nil {
		return false
	}
	field := &form.fields[form.index]

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	renderForm(view, form)
	return true
}

func (a *App) nextField(gui *gocui.Gui, view *gocui.View) error {
	form := a.activeForm()
	if form == nil {
		return nil
	}
	if form.index < len(form.fields)-1 {
		form.index++
	}
	renderForm(view, form)
	return nil
}

func (a *App) prevField(gui *gocui.Gui, view *gocui.View) error {
	form := a.activeForm()
	if form == nil {
		return nil
	}
	if form.index > 0 {
		form.index--
	}
	renderForm(view, form)
	return nil
}

// spawn runs a network call off the interaction loop; update applies its
// result back on it. With no gui (tests) both run inline so flows stay
// deterministic.
func (a *App) spawn(fn func()) {
	if a.gui == nil {
		fn()
		return
	}
	go fn()
}

func (a *App) update(fn func()) {
	if a.gui == nil {
		fn()
		return
	}
	a.gui.Update(func(*gocui.Gui) error {
		fn()
		return nil
	})
}

func (a *App) completeLogin(sess model.Session) {
	a.session = sess
	a.backend.SetToken(sess.Token)
	a.login = newLoginScreen()
	a.screen = screenDashboard
	a.dash = newDashboard()
	if err := a.sessions.Save(sess); err != nil {
		// The login itself succeeded; a failed save only costs persistence
		// across restarts.
		a.dash.status = "could not persist session: " + err.Error()
	}
	a.fetchTasks(model.Filter{})
}

func (a *App) logout(gui *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	_ = a.sessions.Clear()
	a.backend.SetToken("")
	a.session = model.Session{}
	a.dash = dashboard{}
	a.screen = screenLogin
	a.login = newLoginScreen()
	return nil
}

func (a *App) gotoSignup(gui *gocui.Gui, _ *gocui.View) error {
	a.screen = screenSignup
	a.signup = newSignupScreen()
	return nil
}

func (a *App) gotoLogin(gui *gocui.Gui, _ *gocui.View) error {
	a.screen = screenLogin
	a.login = newLoginScreen()
	return nil
}

// inputActive reports whether keystrokes belong to a text field or modal, in
// which case the dashboard's single-letter bindings must not fire.
func (a *App) inputActive() bool {
	if a.screen != screenDashboard {
		return true
	}
	return a.dash.form != nil || a.dash.searchActive || a.dash.confirmID != 0
}

func (a *App) quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func (a *App) quitFromDashboard(_ *gocui.Gui, _ *gocui.View) error {
	if a.inputActive() {
		return nil
	}
	return gocui.ErrQuit
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
