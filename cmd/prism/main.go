package main

import (
	"flag"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/gosuda/prism/browser"
	"github.com/gosuda/prism/config"
	"github.com/gosuda/prism/history"
	pruntime "github.com/gosuda/prism/runtime"
)

func main() {
	cfgPath := flag.String("config", "prism.yaml", "config file")
	width := flag.Int("width", 0, "viewport width in pixels (headless)")
	height := flag.Int("height", 0, "viewport height in pixels (headless)")
	scope := flag.String("scope", "", "local scoping: shared|isolated")
	hist := flag.String("history", "", "visit history database path")
	level := flag.String("log-level", "", "log level: debug|info|warn|error")
	pngPath := flag.String("png", "", "render one frame to this PNG file and exit")
	report := flag.Bool("report", false, "print the layout report and exit")
	plain := flag.Bool("plain", false, "never start the terminal UI")
	var hreq historyRequest
	flag.IntVar(&hreq.recent, "visits", 0, "print the N most recent visits and exit")
	flag.IntVar(&hreq.since, "visits-since", 0, "print visits from sequence number SEQ on and exit")
	flag.IntVar(&hreq.forget, "forget", 0, "delete the visit with sequence number SEQ and exit")
	flag.IntVar(&hreq.reopen, "reopen", 0, "open the location recorded under sequence number SEQ")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *scope != "" {
		cfg.ScopeMode = *scope
	}
	if *hist != "" {
		cfg.HistoryPath = *hist
	}
	if *level != "" {
		cfg.LogLevel = *level
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	if hreq.listing() {
		if err := runHistory(cfg.HistoryPath, hreq, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "history: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app := appConfig{
		cfg:      cfg,
		location: "index.prism",
		png:      *pngPath,
		report:   *report,
		plain:    *plain,
	}
	if flag.NArg() > 0 {
		app.location = flag.Arg(0)
	}
	if hreq.reopen > 0 {
		loc, err := reopenLocation(cfg.HistoryPath, hreq.reopen)
		if err != nil {
			fmt.Fprintf(os.Stderr, "history: %v\n", err)
			os.Exit(1)
		}
		app.location = loc
	}

	terminal := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if app.plain || app.report || app.png != "" || !terminal {
		if err := runPlain(app); err != nil {
			fmt.Fprintf(os.Stderr, "prism: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := runTUI(app); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		os.Exit(1)
	}
}

// openSession builds a browser session and, when configured, its history
// store. The returned func closes the store.
func openSession(app appConfig, logger *log.Logger, hook func(pruntime.Output)) (*browser.Session, func(), error) {
	opts := browser.Options{
		Width:         app.cfg.Width,
		Height:        app.cfg.Height,
		ScrollStep:    app.cfg.Step(),
		ScopeMode:     app.cfg.Scope(),
		BlinkInterval: app.cfg.Blink(),
		Logger:        logger,
		OutputHook:    hook,
	}
	closeFn := func() {}
	if app.cfg.HistoryPath != "" {
		store, err := history.Open(app.cfg.HistoryPath)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open history: %w", err)
		}
		opts.History = store
		closeFn = func() {
			if err := store.Close(); err != nil {
				logger.Warn("close history", "err", err)
			}
		}
	}
	return browser.New(opts), closeFn, nil
}

func runTUI(app appConfig) error {
	con := &console{}
	logger := log.NewWithOptions(con, log.Options{Prefix: "prism", Level: app.cfg.Level()})
	session, closeFn, err := openSession(app, logger, con.output)
	defer closeFn()
	if err != nil {
		return err
	}
	// A failed load leaves the error page up; the address bar can retry.
	_ = session.Load(app.location)

	p := tea.NewProgram(newModel(app, session, con))
	_, err = p.Run()
	return err
}
