package api

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/model"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (model.Session, error)
	Signup(ctx context.Context, username, email, password string) error
	ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) error
}

type TaskService interface {
	ListTasks(ctx context.Context, filter model.Filter) ([]model.Task, error)
	CreateTask(ctx context.Context, input model.TaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, id int64, input model.TaskInput) (model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// Backend is everything the screens need from the remote API. SetToken is the
// seam the view router uses to thread the session's bearer token after login
// and drop it on logout.
type Backend interface {
	AuthService
	TaskService
	SetToken(token string)
}
