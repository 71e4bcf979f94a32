package tui

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
)

const (
	loginFieldEmail = iota
	loginFieldPassword
)

const (
	resetFieldEmail = iota
	resetFieldNewPassword
	resetFieldConfirmPassword
)

type loginScreen struct {
	form      *formState
	resetForm *formState
	reset     bool
	loading   bool
	errorText string
	notice    string
}

func newLoginScreen() loginScreen {
	return loginScreen{
		form: &formState{fields: []formField{
			{Label: "Email"},
			{Label: "Password", Masked: true},
		}},
		resetForm: &formState{fields: []formField{
			{Label: "Email"},
			{Label: "New Password", Masked: true},
			{Label: "Confirm New Password", Masked: true},
		}},
	}
}

func (a *App) layoutLogin(gui *gocui.Gui, maxX, maxY int) error {
	form := a.login.form
	title := "Task Manager - Sign In"
	hints := "enter sign in | tab next field | ctrl+n create account | ctrl+r reset password | ctrl+c quit"
	if a.login.reset {
		form = a.login.resetForm
		title = "Reset Password"
		hints = "enter reset | tab next field | esc back to login | ctrl+c quit"
	}

	height := len(form.fields) + 4
	x0, y0, x1, y1 := centeredBox(maxX, maxY, max(56, maxX/2), height)
	view, err := gui.SetView(viewLogin, x0, y0, x1, y1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = title
	view.Wrap = true
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = a.formEditor

	renderForm(view, form)
	fmt.Fprint(view, "\n"+a.loginBanner())

	if err := a.renderFooter(gui, maxX, maxY, hints); err != nil {
		return err
	}

	_, _ = gui.SetCurrentView(viewLogin)
	gui.Cursor = true
	return nil
}

func (a *App) loginBanner() string {
	switch {
	case a.login.loading && a.login.reset:
		return "Resetting..."
	case a.login.loading:
		return "Signing in..."
	case a.login.errorText != "":
		return "! " + a.login.errorText
	case a.login.notice != "":
		return a.login.notice
	default:
		return ""
	}
}

func (a *App) submitLogin(gui *gocui.Gui, _ *gocui.View) error {
	if a.login.loading {
		return nil
	}
	if a.login.reset {
		return a.submitReset()
	}

	email := strings.TrimSpace(a.login.form.fields[loginFieldEmail].Value)
	password := a.login.form.fields[loginFieldPassword].Value

	a.login.loading = true
	a.login.errorText = ""
	a.login.notice = ""

	a.spawn(func() {
		sess, err := a.backend.Login(context.Background(), email, password)
		a.update(func() {
			if a.screen != screenLogin {
				return
			}
			a.login.loading = false
			if err != nil {
				a.login.errorText = err.Error()
				return
			}
			a.completeLogin(sess)
		})
	})
	return nil
}

func (a *App) submitReset() error {
	email := strings.TrimSpace(a.login.resetForm.fields[resetFieldEmail].Value)
	newPassword := a.login.resetForm.fields[resetFieldNewPassword].Value
	confirmPassword := a.login.resetForm.fields[resetFieldConfirmPassword].Value

	a.login.loading = true
	a.login.errorText = ""

	a.spawn(func() {
		err := a.backend.ResetPassword(context.Background(), email, newPassword, confirmPassword)
		a.update(func() {
			if a.screen != screenLogin {
				return
			}
			a.login.loading = false
			if err != nil {
				a.login.errorText = err.Error()
				return
			}
			a.login.reset = false
			a.login.resetForm = newLoginScreen().resetForm
			a.login.notice = "Password reset successful! Please login with your new password."
		})
	})
	return nil
}

func (a *App) toggleReset(gui *gocui.Gui, _ *gocui.View) error {
	if a.login.loading {
		return nil
	}
	a.login.reset = true
	a.login.errorText = ""
	a.login.notice = ""
	// Carry the typed email over, matching what a "forgot password" link does.
	a.login.resetForm.fields[resetFieldEmail].Value = a.login.form.fields[loginFieldEmail].Value
	return nil
}

func (a *App) cancelReset(gui *gocui.Gui, _ *gocui.View) error {
	if !a.login.reset {
		return nil
	}
	a.login.reset = false
	a.login.errorText = ""
	return nil
}
