package main

import (
	"strings"
	"sync"
	"time"

	"github.com/gosuda/prism/config"
	pruntime "github.com/gosuda/prism/runtime"
)

type appConfig struct {
	cfg      config.Config
	location string
	png      string
	report   bool
	plain    bool
}

type tickMsg time.Time

type copiedMsg struct {
	text string
	err  error
}

// console collects log lines and statement outputs for the console panel.
// The logger writes from the program goroutine and the output hook from
// Update, so access is locked.
type console struct {
	mu    sync.Mutex
	lines []string
	dirty bool
}

const consoleLimit = 500

func (c *console) Write(p []byte) (int, error) {
	for _, l := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		c.add(l)
	}
	return len(p), nil
}

func (c *console) add(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
	if len(c.lines) > consoleLimit {
		c.lines = c.lines[len(c.lines)-consoleLimit:]
	}
	c.dirty = true
}

func (c *console) output(out pruntime.Output) {
	c.add(out.Kind.String() + ": " + out.Text)
}

// take returns the content when it changed since the last call.
func (c *console) take() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return "", false
	}
	c.dirty = false
	if len(c.lines) == 0 {
		return "(no output yet)", true
	}
	return strings.Join(c.lines, "\n"), true
}
