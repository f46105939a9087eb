// Package sandbox checks documents before they are handed to the engine:
// only .prism files, no parent-directory segments, bounded file size and a
// per-session memory budget.
package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	MemoryLimit = 16 << 20
	MaxFileSize = 1 << 20
	Extension   = ".prism"
)

var (
	ErrInvalidExtension = errors.New("only .prism files can be loaded")
	ErrPathTraversal    = errors.New("path traversal not allowed")
	ErrTooLarge         = errors.New("file exceeds maximum size limit")
	ErrMemoryLimit      = errors.New("memory limit exceeded")
	ErrNetworkDisabled  = errors.New("network access is disabled")
)

// Sandbox accounts memory for one browsing session.
type Sandbox struct {
	used  int
	limit int
}

func New() *Sandbox {
	return &Sandbox{limit: MemoryLimit}
}

// NewWithLimit is New with a custom memory budget; limit <= 0 keeps the
// default.
func NewWithLimit(limit int) *Sandbox {
	if limit <= 0 {
		limit = MemoryLimit
	}
	return &Sandbox{limit: limit}
}

// ValidatePath rejects anything but a .prism file and any path that
// mentions "..".
func ValidatePath(path string) error {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return fmt.Errorf("%w: %s", ErrInvalidExtension, path)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("%w: %s", ErrPathTraversal, path)
	}
	return nil
}

// CheckSize verifies a single document fits and reserves its bytes.
func (s *Sandbox) CheckSize(n int) error {
	if n > MaxFileSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, n)
	}
	return s.Allocate(n)
}

func (s *Sandbox) Allocate(n int) error {
	if n < 0 {
		return nil
	}
	if s.used+n > s.limit {
		return fmt.Errorf("%w: %d + %d > %d", ErrMemoryLimit, s.used, n, s.limit)
	}
	s.used += n
	return nil
}

func (s *Sandbox) Release(n int) {
	s.used = max(s.used-max(n, 0), 0)
}

func (s *Sandbox) Usage() int {
	return s.used
}

func (s *Sandbox) Limit() int {
	return s.limit
}

// ReadFile validates path, checks its size before reading and charges the
// contents against the memory budget.
func (s *Sandbox) ReadFile(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if err := s.CheckSize(len(b)); err != nil {
		return "", err
	}
	return string(b), nil
}
