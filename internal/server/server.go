package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/taskdeck/taskdeck/internal/model"
)

// Server implements the backend's REST surface for development and tests.
// AccessLog stays off when the server shares a terminal with the TUI.
type Server struct {
	store *Store

	AccessLog bool
}

func NewServer(store *Store) *Server {
	return &Server{store: store}
}

func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	if s.AccessLog {
		e.Use(middleware.Logger())
	}

	e.POST("/login", s.handleLogin)
	e.POST("/signup", s.handleSignup)
	e.PUT("/reset-password", s.handleResetPassword)

	tasks := e.Group("/tasks", s.requireToken)
	tasks.GET("", s.handleListTasks)
	tasks.POST("", s.handleCreateTask)
	tasks.PUT("/:id", s.handleUpdateTask)
	tasks.DELETE("/:id", s.handleDeleteTask)

	return e
}

type credentials struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

func errJSON(message string) map[string]string {
	return map[string]string{"error": message}
}

func (s *Server) handleLogin(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errJSON("invalid request body"))
	}

	user, err := s.store.Authenticate(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, ErrBadCredentials) {
		return c.JSON(http.StatusUnauthorized, errJSON("invalid email or password"))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errJSON(err.Error()))
	}

	token, err := s.store.CreateToken(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errJSON(err.Error()))
	}

	return c.JSON(http.StatusOK, model.Session{User: user, Token: token})
}

func (s *Server) handleSignup(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errJSON("invalid request body"))
	}
	if strings.TrimSpace(req.UserName) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, errJSON("user_name, email and password are required"))
	}

	if _, err := s.store.CreateUser(c.Request().Context(), req.UserName, req.Email, req.Password); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return c.JSON(http.StatusConflict, errJSON("email already registered"))
		}
		return c.JSON(http.StatusInternalServerError, errJSON(err.Error()))
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "account created"})
}

func (s *Server) handleResetPassword(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errJSON("invalid request body"))
	}
	if req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, errJSON("new_password is required"))
	}

	if err := s.store.UpdatePassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, errJSON("no account with that email"))
		}
		return c.JSON(http.StatusInternalServerError, errJSON(err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.JSON(http.StatusUnauthorized, errJSON("missing bearer token"))
		}

		user, err := s.store.UserForToken(c.Request().Context(), token)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, errJSON("invalid or expired token"))
			}
			return c.JSON(http.StatusInternalServerError, errJSON(err.Error()))
		}

		c.Set("user", user)
		return next(c)
	}
}

func currentUser(c echo.Context) model.User {
	user, _ := c.Get("user").(model.User)
	return user
}

func (s *Server) handleListTasks(c echo.Context) error {
	nameFilter := c.QueryParam("task_name")
	dateFilter := c.QueryParam("task_date")
	if nameFilter != "" && dateFilter != "" {
		return c.JSON(http.StatusBadRequest, errJSON("task_name and task_date are mutually exclusive"))
	}

	tasks, err := s.store.ListTasks(c.Request().Context(), currentUser(c).ID, nameFilter, dateFilter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errJSON(err.Error()))
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var input model.TaskInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errJSON("invalid request body"))
	}
	if strings.TrimSpace(input.Name) == "" {
		return c.JSON(http.StatusBadRequest, errJSON("task name is required"))
	}

	task, err := s.store.CreateTask(c.Request().Context(), currentUser(c).ID, input)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errJSON(err.Error()))
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, errJSON("invalid task id"))
	}

	var input model.TaskInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errJSON("invalid request body"))
	}
	if strings.TrimSpace(input.Name) == "" {
		return c.JSON(http.StatusBadRequest, errJSON("task name is required"))
	}

	task, err := s.store.UpdateTask(c.Request().Context(), currentUser(c).ID, id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, errJSON("task not found"))
		}
		return c.JSON(http.StatusInternalServerError, errJSON(err.Error()))
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, errJSON("invalid task id"))
	}

	if err := s.store.DeleteTask(c.Request().Context(), currentUser(c).ID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, errJSON("task not found"))
		}
		return c.JSON(http.StatusInternalServerError, errJSON(err.Error()))
	}
	return c.NoContent(http.StatusNoContent)
}
