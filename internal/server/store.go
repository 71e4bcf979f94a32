package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

// Store is the dev backend's sqlite persistence layer. Passwords are stored
// and compared in plain text: real credential handling belongs to the
// production backend, and this store only exists for development and tests.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateUser(ctx context.Context, name, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var exists int
	err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if err == nil {
		return model.User{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("check email: %w", err)
	}

	result, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (user_name, email, password) VALUES (?, ?, ?)",
		strings.TrimSpace(name), email, password)
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return model.User{ID: id, Name: strings.TrimSpace(name), Email: email}, nil
}

func (s *Store) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	var stored string
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, user_name, email, password FROM users WHERE email = ?", email).
		Scan(&user.ID, &user.Name, &user.Email, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrBadCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("load user: %w", err)
	}

	if stored != password {
		return model.User{}, ErrBadCredentials
	}
	return user, nil
}

func (s *Store) UpdatePassword(ctx context.Context, email, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	result, err := s.DB.ExecContext(ctx,
		"UPDATE users SET password = ? WHERE email = ?", newPassword, email)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateToken(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if _, err := s.DB.ExecContext(ctx,
		"INSERT INTO tokens (token, user_id) VALUES (?, ?)", token, userID); err != nil {
		return "", fmt.Errorf("insert token: %w", err)
	}
	return token, nil
}

func (s *Store) UserForToken(ctx context.Context, token string) (model.User, error) {
	var user model.User
	err := s.DB.QueryRowContext(ctx,
		`SELECT u.id, u.user_name, u.email
		 FROM tokens t JOIN users u ON u.id = t.user_id
		 WHERE t.token = ?`, token).
		Scan(&user.ID, &user.Name, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("load token: %w", err)
	}
	return user, nil
}

// ListTasks scopes the collection to one user. nameFilter matches as a
// case-insensitive substring; dateFilter matches the calendar-date portion
// exactly, so stored values carrying a time component still compare.
func (s *Store) ListTasks(ctx context.Context, userID int64, nameFilter, dateFilter string) ([]model.Task, error) {
	query := `SELECT id, task_name, location_name, task_date, task_time, completed
		 FROM tasks WHERE user_id = ?`
	args := []any{userID}

	if nameFilter != "" {
		query += " AND task_name LIKE ?"
		args = append(args, "%"+nameFilter+"%")
	} else if dateFilter != "" {
		query += " AND substr(task_date, 1, 10) = ?"
		args = append(args, dateFilter)
	}
	query += " ORDER BY id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var task model.Task
		if err := rows.Scan(&task.ID, &task.Name, &task.Location, &task.Date, &task.Time, &task.Completed); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) CreateTask(ctx context.Context, userID int64, input model.TaskInput) (model.Task, error) {
	result, err := s.DB.ExecContext(ctx,
		`INSERT INTO tasks (user_id, task_name, location_name, task_date, task_time, completed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, input.Name, input.Location, input.Date, input.Time, input.Completed)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(ctx, userID, id)
}

func (s *Store) GetTask(ctx context.Context, userID, taskID int64) (model.Task, error) {
	var task model.Task
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, task_name, location_name, task_date, task_time, completed
		 FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID).
		Scan(&task.ID, &task.Name, &task.Location, &task.Date, &task.Time, &task.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("load task: %w", err)
	}
	return task, nil
}

func (s *Store) UpdateTask(ctx context.Context, userID, taskID int64, input model.TaskInput) (model.Task, error) {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE tasks SET task_name = ?, location_name = ?, task_date = ?, task_time = ?, completed = ?
		 WHERE id = ? AND user_id = ?`,
		input.Name, input.Location, input.Date, input.Time, input.Completed, taskID, userID)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return model.Task{}, err
	}
	if affected == 0 {
		return model.Task{}, ErrNotFound
	}
	return s.GetTask(ctx, userID, taskID)
}

func (s *Store) DeleteTask(ctx context.Context, userID, taskID int64) error {
	result, err := s.DB.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND user_id = ?", taskID, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
