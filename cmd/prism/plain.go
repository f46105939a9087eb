package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/charmbracelet/log"

	pruntime "github.com/gosuda/prism/runtime"
)

// runPlain renders one frame without a terminal: either the layout report
// on stdout or a PNG file.
func runPlain(app appConfig) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "prism", Level: app.cfg.Level()})
	session, closeFn, err := openSession(app, logger, func(out pruntime.Output) {
		logger.Info(out.Kind.String(), "text", out.Text)
	})
	defer closeFn()
	if err != nil {
		return err
	}
	if err := session.Load(app.location); err != nil {
		return err
	}
	if app.report {
		return session.Instance().Report(os.Stdout, app.cfg.Width)
	}

	path := app.png
	if path == "" {
		path = "frame.png"
	}
	fb := session.Frame()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.RGBA()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("wrote frame", "path", path, "width", fb.Width, "height", fb.Height, "title", session.Title())
	return nil
}
