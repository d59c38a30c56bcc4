// Package session owns the client session: a durable store for the token +
// user pair and a manager that mediates every read and write of it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jshoplabs/jshop/pkg/domain"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Store persists the session under a state directory, one file per key:
// "token" holds the raw bearer string, "user.json" the serialized account.
// A session exists only when both files are present and decode.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir. logger may be nil.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{dir: dir, logger: logger}
}

// DefaultDir returns ~/.jshop, honoring the JSHOP_HOME override.
func DefaultDir() (string, error) {
	if dir := os.Getenv("JSHOP_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".jshop"), nil
}

// Load returns the persisted session. ok is false when either half is
// missing, the token is blank, or the user record does not decode — a
// corrupt record is logged and degraded to "no session" so startup never
// fails on bad persisted state.
func (s *Store) Load() (sess domain.Session, ok bool) {
	rawTok, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return domain.Session{}, false
	}
	token := strings.TrimSpace(string(rawTok))
	if token == "" {
		return domain.Session{}, false
	}

	rawUser, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		return domain.Session{}, false
	}
	var user domain.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		s.logger.Warn("corrupt persisted user record, treating as no session", "err", err)
		return domain.Session{}, false
	}
	if user.Username == "" {
		s.logger.Warn("persisted user record missing username, treating as no session")
		return domain.Session{}, false
	}
	return domain.Session{Token: token, User: user}, true
}

// Save persists both halves of the session. On partial failure both files
// are removed so the on-disk state never holds one without the other.
func (s *Store) Save(sess domain.Session) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(sess.Token), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), rawUser, 0o600); err != nil {
		s.Clear() //nolint:errcheck // keep the joint-presence invariant on disk
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// Clear removes both halves. Missing files are not errors.
func (s *Store) Clear() error {
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}
