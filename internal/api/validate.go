package api

import (
	"regexp"
	"strings"
)

// passwordSymbols is the fixed punctuation set a password must draw at least
// one character from.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// validateSignup applies the signup rules in fixed order and stops at the
// first violation. Each rule has its own user-facing message.
func validateSignup(username, email, password string) error {
	if len(strings.TrimSpace(username)) < 5 {
		return &ValidationError{Message: "Username must be at least 5 characters long"}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Message: "Please enter a valid email address"}
	}
	if len(password) < 10 {
		return &ValidationError{Message: "Password must be at least 10 characters long"}
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return &ValidationError{Message: "Password must contain at least one capital letter"}
	}
	if !strings.ContainsAny(password, passwordSymbols) {
		return &ValidationError{Message: "Password must contain at least one symbol"}
	}
	return nil
}

func validateReset(newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return &ValidationError{Message: "Passwords do not match."}
	}
	return nil
}

func validateTaskName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Message: "Task name can't be empty"}
	}
	return nil
}
