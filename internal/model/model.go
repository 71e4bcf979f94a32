package model

// User is the account payload returned by the backend inside a login
// response. The backend owns the identifiers; the client never invents them.
type User struct {
	ID    int64  `json:"user_id"`
	Name  string `json:"user_name"`
	Email string `json:"email"`
}

// Session is the authenticated identity held by the client after a
// successful login. A session is valid exactly when its token is non-empty.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func (s Session) Valid() bool {
	return s.Token != ""
}

type Task struct {
	ID        int64  `json:"task_id"`
	Name      string `json:"task_name"`
	Location  string `json:"location_name"`
	Date      string `json:"task_date"`
	Time      string `json:"task_time"`
	Completed bool   `json:"completed"`
}

// TaskInput is the client-supplied portion of a task, sent on create and
// update. Date and time travel as strings in the backend's own format.
type TaskInput struct {
	Name      string `json:"task_name"`
	Location  string `json:"location_name"`
	Date      string `json:"task_date"`
	Time      string `json:"task_time"`
	Completed bool   `json:"completed"`
}

func InputFromTask(task Task) TaskInput {
	return TaskInput{
		Name:      task.Name,
		Location:  task.Location,
		Date:      task.Date,
		Time:      task.Time,
		Completed: task.Completed,
	}
}

type FilterMode string

const (
	FilterByName FilterMode = "name"
	FilterByDate FilterMode = "date"
)

// Filter narrows a task listing by name substring or exact date, never both.
// An empty value means no filtering regardless of mode.
type Filter struct {
	Mode  FilterMode
	Value string
}

func (f Filter) Empty() bool {
	return f.Value == ""
}
