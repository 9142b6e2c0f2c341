// Package auth provides the identity the dashboard queries run under.
//
// A Provider hands out the current token; FileStore keeps it on disk between
// runs and Signin exchanges credentials for a fresh one.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoToken is returned when an operation needs a token and none is stored.
var ErrNoToken = errors.New("auth: no token available")

// Provider supplies the credential for outgoing requests.
type Provider interface {
	// Token returns the current token, or false when there is none.
	Token() (string, bool)
	// IsAuthenticated reports whether a usable (present, unexpired) token exists.
	IsAuthenticated() bool
}

// Terminator ends the current session, e.g. after the server rejected the token.
type Terminator interface {
	Logout() error
}

// Static is a Provider over a fixed token (flag or environment variable).
type Static struct {
	token string
	now   func() time.Time
}

// NewStatic returns a Provider for token. An empty token is unauthenticated.
func NewStatic(token string) *Static {
	return &Static{token: strings.TrimSpace(token), now: time.Now}
}

func (s *Static) Token() (string, bool) {
	return s.token, s.token != ""
}

func (s *Static) IsAuthenticated() bool {
	return s.token != "" && !Expired(s.token, s.now())
}

// DefaultTokenPath is where login stores the token, relative to the user's
// config directory.
const DefaultTokenPath = "profiledash/token"

// FileStore is a Provider and Terminator backed by a token file. The token
// is the first line of the file.
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore returns a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the token file location.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Token() (string, bool) {
	tok, err := ReadToken(f.path)
	if err != nil || tok == "" {
		return "", false
	}
	return tok, true
}

func (f *FileStore) IsAuthenticated() bool {
	tok, ok := f.Token()
	return ok && !Expired(tok, f.now())
}

// Save writes token with owner-only permissions, creating the parent directory.
func (f *FileStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoToken
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("save token: create dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Logout removes the token file. A missing file is not an error.
func (f *FileStore) Logout() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Insecure reports whether the token file is readable by group or others.
func (f *FileStore) Insecure() bool {
	info, err := os.Stat(f.path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o044 != 0
}

// ReadToken reads the first line of a token file and returns it trimmed.
func ReadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	return line, nil
}
