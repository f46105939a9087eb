package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gosuda/prism/history"
)

// historyRequest carries the history flags. Zero values mean unset.
type historyRequest struct {
	recent int
	since  int
	forget int
	reopen int
}

func (r historyRequest) listing() bool {
	return r.recent > 0 || r.since > 0 || r.forget > 0
}

var errNoHistory = errors.New("no history database configured")

// runHistory prints or edits the visit log and exits without rendering.
func runHistory(path string, req historyRequest, w io.Writer) error {
	store, err := openHistory(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if req.forget > 0 {
		v, err := store.Get(req.forget)
		if err != nil {
			return fmt.Errorf("visit %d: %w", req.forget, err)
		}
		if err := store.Delete(req.forget); err != nil {
			return err
		}
		fmt.Fprintf(w, "forgot %d %s\n", v.Seq, v.Location)
	}
	if req.since > 0 {
		visits, err := store.Range(req.since, math.MaxInt)
		if err != nil {
			return err
		}
		writeVisits(w, visits)
	}
	if req.recent > 0 {
		visits, err := store.Recent(req.recent)
		if err != nil {
			return err
		}
		writeVisits(w, visits)
	}
	return nil
}

// reopenLocation returns the location recorded under seq.
func reopenLocation(path string, seq int) (string, error) {
	store, err := openHistory(path)
	if err != nil {
		return "", err
	}
	defer store.Close()
	v, err := store.Get(seq)
	if err != nil {
		return "", fmt.Errorf("visit %d: %w", seq, err)
	}
	return v.Location, nil
}

func openHistory(path string) (*history.Store, error) {
	if path == "" {
		return nil, errNoHistory
	}
	return history.Open(path)
}

func writeVisits(w io.Writer, visits []history.Visit) {
	for _, v := range visits {
		fmt.Fprintf(w, "%6d  %s  %s\n", v.Seq, v.Time.Local().Format(time.DateTime), v.Location)
	}
}
