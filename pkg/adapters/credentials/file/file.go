package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyToken is returned when the token file exists but holds only whitespace
var ErrEmptyToken = errors.New("token file is empty")

// TokenFile reads a bearer token from disk. The file is read on every Fetch
// so a rotated token is picked up without a restart.
type TokenFile struct {
	path string
}

// NewTokenFile creates a token source for the given path
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// Path returns the token file path
func (t *TokenFile) Path() string {
	return t.path
}

// Fetch returns the trimmed file contents. A missing file yields an error
// matching os.ErrNotExist.
func (t *TokenFile) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file %s: %w", t.path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%s: %w", t.path, ErrEmptyToken)
	}

	return token, nil
}

// Available reports whether the token file exists. It does not check that
// the file is readable or holds a valid token.
func (t *TokenFile) Available() bool {
	_, err := os.Stat(t.path)
	return err == nil
}
