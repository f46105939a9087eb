// Package browser drives a sequence of Prism documents: loading through the
// sandbox, back and forward navigation, link and route following, scrolling
// and frame production for a host.
package browser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gosuda/prism"
	"github.com/gosuda/prism/history"
	"github.com/gosuda/prism/render"
	pruntime "github.com/gosuda/prism/runtime"
	"github.com/gosuda/prism/sandbox"
)

var ErrNetworkDisabled = sandbox.ErrNetworkDisabled

const errorPage = `@app "Error"
view { column { padding: 24  gap: 12
  text "Cannot open page" { size: 22  color: #c62828 }
  text "{message}" { size: 14  color: #555555 }
} }`

type Options struct {
	Width, Height int
	ScrollStep    int
	ScopeMode     pruntime.ScopeMode
	BlinkInterval time.Duration
	Font          render.Font
	Logger        *log.Logger
	// History receives a record for every successful load when set.
	History    *history.Store
	OutputHook func(pruntime.Output)
}

type Session struct {
	opts    Options
	logger  *log.Logger
	sandbox *sandbox.Sandbox
	font    render.Font

	inst     *prism.Instance
	size     int
	location string
	err      error

	backStack []string
	index     int

	scroll int
	fb     *render.Framebuffer
	stale  bool
}

func New(opts Options) *Session {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	if opts.ScrollStep <= 0 {
		opts.ScrollStep = 40
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	font := opts.Font
	if font == nil {
		font = render.DefaultFont()
	}
	return &Session{
		opts:    opts,
		logger:  logger,
		sandbox: sandbox.New(),
		font:    font,
		index:   -1,
		fb:      render.NewFramebuffer(opts.Width, opts.Height),
		stale:   true,
	}
}

// Load opens location and pushes it onto the navigation history, dropping
// any forward entries.
func (s *Session) Load(location string) error {
	return s.open(s.resolve(location), true)
}

func (s *Session) resolve(location string) string {
	location = strings.TrimSpace(location)
	if isRemote(location) || filepath.IsAbs(location) || s.location == "" || isRemote(s.location) {
		return location
	}
	return filepath.Join(filepath.Dir(s.location), location)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (s *Session) open(location string, push bool) error {
	err := s.load(location)
	if push && (s.index < 0 || s.backStack[s.index] != location) {
		s.backStack = append(s.backStack[:s.index+1], location)
		s.index = len(s.backStack) - 1
	}
	s.location = location
	s.scroll = 0
	s.stale = true
	if err != nil {
		s.logger.Error("load failed", "location", location, "err", err)
		s.fail(err)
		return err
	}
	if s.opts.History != nil {
		if _, herr := s.opts.History.Add(location, time.Now()); herr != nil {
			s.logger.Warn("history write failed", "err", herr)
		}
	}
	return nil
}

func (s *Session) load(location string) error {
	if isRemote(location) {
		return fmt.Errorf("load %s: %w", location, ErrNetworkDisabled)
	}
	src, err := s.sandbox.ReadFile(location)
	if err != nil {
		return fmt.Errorf("load %s: %w", location, err)
	}
	inst, err := prism.Compile(src, s.instanceOptions())
	if err != nil {
		s.sandbox.Release(len(src))
		return fmt.Errorf("parse %s: %w", location, err)
	}
	s.release()
	s.inst, s.size, s.err = inst, len(src), nil
	s.logger.Info("loaded", "app", inst.App().Name, "version", inst.App().Version, "location", location)
	return nil
}

func (s *Session) instanceOptions() prism.Options {
	return prism.Options{
		ScopeMode:     s.opts.ScopeMode,
		Logger:        s.logger,
		BlinkInterval: s.opts.BlinkInterval,
		Font:          s.font,
		OutputHook:    s.opts.OutputHook,
	}
}

func (s *Session) release() {
	s.sandbox.Release(s.size)
	s.size = 0
}

// fail replaces the page with an error document describing err.
func (s *Session) fail(err error) {
	s.release()
	s.err = err
	inst, cerr := prism.Compile(errorPage, s.instanceOptions())
	if cerr != nil {
		s.inst = nil
		return
	}
	inst.State().Set("message", pruntime.Str(err.Error()))
	s.inst = inst
}

func (s *Session) CanGoBack() bool {
	return s.index > 0
}

func (s *Session) CanGoForward() bool {
	return s.index+1 < len(s.backStack)
}

func (s *Session) Back() error {
	if !s.CanGoBack() {
		return nil
	}
	s.index--
	return s.open(s.backStack[s.index], false)
}

func (s *Session) Forward() error {
	if !s.CanGoForward() {
		return nil
	}
	s.index++
	return s.open(s.backStack[s.index], false)
}

func (s *Session) Reload() error {
	if s.location == "" {
		return nil
	}
	return s.open(s.location, false)
}

// Click forwards a click in viewport coordinates. Links and navigate
// statements load the next document.
func (s *Session) Click(x, y int) (bool, error) {
	if s.inst == nil {
		return false, nil
	}
	if href, ok := s.inst.Href(x, y); ok {
		return true, s.follow(href)
	}
	handled := s.inst.HandleClick(x, y)
	if route, ok := s.inst.TakeNavigation(); ok {
		return true, s.follow(route)
	}
	return handled, nil
}

// follow maps a route through the app's routes table before loading it.
func (s *Session) follow(target string) error {
	if s.err == nil && s.inst != nil {
		if file, ok := s.inst.App().Routes[target]; ok {
			target = file
		}
	}
	if !isRemote(target) && !strings.HasSuffix(strings.ToLower(target), sandbox.Extension) {
		s.logger.Debug("route has no document", "route", target)
		return nil
	}
	return s.Load(target)
}

func (s *Session) Key(r rune) bool {
	return s.inst != nil && s.inst.HandleKey(r)
}

func (s *Session) Backspace() bool {
	return s.inst != nil && s.inst.HandleBackspace()
}

// Scroll moves the viewport by whole steps; positive lines scroll down.
func (s *Session) Scroll(lines int) {
	if s.inst == nil {
		return
	}
	next := s.inst.ClampScroll(s.scroll+lines*s.opts.ScrollStep, s.opts.Width, s.opts.Height)
	if next != s.scroll {
		s.scroll = next
		s.stale = true
	}
}

func (s *Session) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == s.opts.Width && h == s.opts.Height) {
		return
	}
	s.opts.Width, s.opts.Height = w, h
	s.fb = render.NewFramebuffer(w, h)
	if s.inst != nil {
		s.scroll = s.inst.ClampScroll(s.scroll, w, h)
	}
	s.stale = true
}

func (s *Session) Tick(now time.Time) bool {
	return s.inst != nil && s.inst.Tick(now)
}

// Frame returns the current pixels, repainting only when something changed.
func (s *Session) Frame() *render.Framebuffer {
	if s.inst == nil {
		if s.stale {
			s.fb.Clear(0xFFFFFF)
			s.stale = false
		}
		return s.fb
	}
	if s.stale || s.inst.Dirty() {
		s.scroll = s.inst.ClampScroll(s.scroll, s.opts.Width, s.opts.Height)
		s.inst.Render(s.fb, s.scroll)
		s.stale = false
	}
	return s.fb
}

func (s *Session) NeedsFrame() bool {
	return s.stale || (s.inst != nil && s.inst.Dirty())
}

func (s *Session) Location() string {
	return s.location
}

// Err is the failure of the last load, if any.
func (s *Session) Err() error {
	return s.err
}

func (s *Session) Instance() *prism.Instance {
	return s.inst
}

func (s *Session) ScrollOffset() int {
	return s.scroll
}

func (s *Session) ContentHeight() int {
	if s.inst == nil {
		return 0
	}
	return s.inst.ContentHeight(s.opts.Width)
}

func (s *Session) Size() (int, int) {
	return s.opts.Width, s.opts.Height
}

func (s *Session) Title() string {
	if s.inst == nil || s.inst.App().Name == "" {
		return filepath.Base(s.location)
	}
	return s.inst.App().Name
}

// MemoryUsage reports bytes charged to the sandbox for the current page
// and the sandbox budget.
func (s *Session) MemoryUsage() (used, limit int) {
	return s.sandbox.Usage(), s.sandbox.Limit()
}
