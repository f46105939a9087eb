package sandbox_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gosuda/prism/sandbox"
)

func TestValidatePath(t *testing.T) {
	cases := []struct {
		path string
		want error
	}{
		{"apps/counter.prism", nil},
		{"/abs/Todo.PRISM", nil},
		{"notes.txt", sandbox.ErrInvalidExtension},
		{"counter", sandbox.ErrInvalidExtension},
		{"../secret.prism", sandbox.ErrPathTraversal},
		{"apps/../../x.prism", sandbox.ErrPathTraversal},
	}
	for _, tc := range cases {
		err := sandbox.ValidatePath(tc.path)
		if tc.want == nil && err != nil {
			t.Fatalf("ValidatePath(%q) = %v", tc.path, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("ValidatePath(%q) = %v, want %v", tc.path, err, tc.want)
		}
	}
}

func TestMemoryAccounting(t *testing.T) {
	sb := sandbox.NewWithLimit(100)
	if err := sb.Allocate(60); err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if err := sb.Allocate(50); !errors.Is(err, sandbox.ErrMemoryLimit) {
		t.Fatalf("over-allocation = %v", err)
	}
	if sb.Usage() != 60 {
		t.Fatalf("usage = %d after a rejected allocation", sb.Usage())
	}
	sb.Release(100)
	if sb.Usage() != 0 {
		t.Fatalf("release should saturate at zero, usage = %d", sb.Usage())
	}
	if err := sandbox.New().CheckSize(sandbox.MaxFileSize + 1); !errors.Is(err, sandbox.ErrTooLarge) {
		t.Fatalf("oversized file = %v", err)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "app.prism")
	if err := os.WriteFile(ok, []byte(`view { text "hi" }`), 0o644); err != nil {
		t.Fatal(err)
	}
	big := filepath.Join(dir, "big.prism")
	if err := os.WriteFile(big, []byte(strings.Repeat("x", sandbox.MaxFileSize+1)), 0o644); err != nil {
		t.Fatal(err)
	}

	sb := sandbox.New()
	src, err := sb.ReadFile(ok)
	if err != nil || !strings.Contains(src, "hi") {
		t.Fatalf("read = %q, %v", src, err)
	}
	if sb.Usage() != len(src) {
		t.Fatalf("usage = %d, want %d", sb.Usage(), len(src))
	}
	if _, err := sb.ReadFile(big); !errors.Is(err, sandbox.ErrTooLarge) {
		t.Fatalf("big file = %v", err)
	}
	if _, err := sb.ReadFile(filepath.Join(dir, "missing.prism")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file = %v", err)
	}
}
