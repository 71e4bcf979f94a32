package tui

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
)

const (
	signupFieldUsername = iota
	signupFieldEmail
	signupFieldPassword
)

type signupScreen struct {
	form      *formState
	loading   bool
	errorText string
	notice    string
}

func newSignupScreen() signupScreen {
	return signupScreen{
		form: &formState{fields: []formField{
			{Label: "Username"},
			{Label: "Email"},
			{Label: "Password", Masked: true},
		}},
	}
}

func (a *App) layoutSignup(gui *gocui.Gui, maxX, maxY int) error {
	height := len(a.signup.form.fields) + 4
	x0, y0, x1, y1 := centeredBox(maxX, maxY, max(56, maxX/2), height)
	view, err := gui.SetView(viewSignup, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = "Create Account"
	view.Wrap = true
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = a.formEditor

	renderForm(view, a.signup.form)
	fmt.Fprint(view, "\n"+a.signupBanner())

	hints := "enter sign up | tab next field | esc back to login | ctrl+c quit"
	if err := a.renderFooter(gui, maxX, maxY, hints); err != nil {
		return err
	}

	_, _ = gui.SetCurrentView(viewSignup)
	gui.Cursor = true
	return nil
}

func (a *App) signupBanner() string {
	switch {
	case a.signup.loading:
		return "Signing up..."
	case a.signup.errorText != "":
		return "! " + a.signup.errorText
	case a.signup.notice != "":
		return a.signup.notice
	default:
		return ""
	}
}

func (a *App) submitSignup(gui *gocui.Gui, _ *gocui.View) error {
	if a.signup.loading {
		return nil
	}

	username := strings.TrimSpace(a.signup.form.fields[signupFieldUsername].Value)
	email := strings.TrimSpace(a.signup.form.fields[signupFieldEmail].Value)
	password := a.signup.form.fields[signupFieldPassword].Value

	a.signup.loading = true
	a.signup.errorText = ""
	a.signup.notice = ""

	a.spawn(func() {
		err := a.backend.Signup(context.Background(), username, email, password)
		a.update(func() {
			if a.screen != screenSignup {
				return
			}
			a.signup.loading = false
			if err != nil {
				a.signup.errorText = err.Error()
				return
			}
			// Success clears the form but does not log the user in.
			a.signup = newSignupScreen()
			a.signup.notice = "Sign up successful! Press esc and log in."
		})
	})
	return nil
}
