package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/taskdeck/taskdeck/internal/model"
)

// Store persists the current session as a single JSON file so a login
// survives restarts. It never touches the network.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Restore reads the persisted session. Anything short of a well-formed
// session with a non-empty token (missing file, unreadable file, malformed
// JSON) reports absence rather than an error.
func (s *Store) Restore() (model.Session, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Session{}, false
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return model.Session{}, false
	}
	if !sess.Valid() {
		return model.Session{}, false
	}
	return sess, true
}

// Save overwrites any previously persisted session.
func (s *Store) Save(sess model.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the persisted session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
