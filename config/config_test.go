package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/gosuda/prism/config"
	pruntime "github.com/gosuda/prism/runtime"
)

func TestMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.yaml")
	src := "width: 640\nscope_mode: isolated\nblink_ms: 250\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := config.Default()
	want.Width = 640
	want.ScopeMode = "isolated"
	want.BlinkMS = 250
	want.LogLevel = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
	if cfg.Scope() != pruntime.ScopeIsolated || cfg.Blink() != 250*time.Millisecond || cfg.Level() != log.DebugLevel {
		t.Fatalf("derived settings wrong: %v %v %v", cfg.Scope(), cfg.Blink(), cfg.Level())
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, src := range []string{
		"width: -1\n",
		"scope_mode: lexical\n",
		"log_level: loud\n",
		"width: [\n",
	} {
		if _, err := config.Parse([]byte(src)); err == nil {
			t.Fatalf("Parse(%q) should fail", src)
		}
	}
}
