// Package ui renders a live table of tracked aircraft, adapted from the
// teacher's main.go update/layout functions into a reusable Screen that
// renders from a track.Store snapshot instead of touching package-level
// state directly.
package ui

import (
	"fmt"
	"sort"
	"time"

	"github.com/awesome-gocui/gocui"
	. "github.com/logrusorgru/aurora"

	"github.com/adsbtrack/modesd/track"
)

// Screen owns the gocui.Gui and renders from a *track.Store on every
// refresh tick.
type Screen struct {
	g     *gocui.Gui
	store *track.Store
}

// NewScreen initializes a gocui.Gui in normal output mode, matching the
// teacher's gocui.NewGui(gocui.OutputNormal, false).
func NewScreen(store *track.Store) (*Screen, error) {
	g, err := gocui.NewGui(gocui.OutputNormal, false)
	if err != nil {
		return nil, fmt.Errorf("ui: new gui: %w", err)
	}

	s := &Screen{g: g, store: store}
	g.SetManagerFunc(s.layout)
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		g.Close()
		return nil, fmt.Errorf("ui: bind quit key: %w", err)
	}
	return s, nil
}

// Close releases the underlying terminal.
func (s *Screen) Close() {
	s.g.Close()
}

// Run blocks until the user quits (Ctrl-C) or the gui returns a
// non-quit error. It starts a background ticker that refreshes the
// display and sweeps stale aircraft once per second, matching the
// teacher's main loop.
func (s *Screen) Run() error {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.store.Sweep(time.Now())
				s.g.Update(s.update)
			case <-stop:
				return
			}
		}
	}()
	defer close(stop)

	if err := s.g.MainLoop(); err != nil && !gocui.IsQuit(err) {
		return err
	}
	return nil
}

func (s *Screen) layout(g *gocui.Gui) error {
	const maxX = 80
	_, maxY := g.Size()

	v, err := g.SetView("status", 0, 0, maxX-2, 2, 0)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	if err == nil {
		fmt.Fprintln(v, " A/C: --  LAST UPDATE: 0000-00-00 00:00:00")
	}

	if _, err := g.SetView("list", 0, 3, maxX-2, maxY-1, 0); err != nil && err != gocui.ErrUnknownView {
		return err
	}
	return nil
}

func (s *Screen) update(g *gocui.Gui) error {
	status, err := g.View("status")
	if err != nil {
		return nil
	}
	status.Clear()
	records := s.store.Snapshot()
	fmt.Fprintf(status, " A/C: %02d  LAST UPDATE: %s\n",
		Green(len(records)),
		Bold(Green(time.Now().Format("2006-01-02 15:04:05"))))

	list, err := g.View("list")
	if err != nil {
		return nil
	}
	list.Clear()

	fmt.Fprintln(list, " ICAO ADDR    FLIGHT     ALT    SPD    HDG     LAT     LON  SEEN")
	fmt.Fprintln(list, " ===================================================================")

	sort.Slice(records, func(i, j int) bool { return records[i].ICAO24 < records[j].ICAO24 })
	for _, r := range records {
		fmt.Fprintln(list, Sprintf(Yellow(" %06X       %9s  %-5d  %-5d  %-3d  %6.2f  %6.2f  %s"),
			r.ICAO24,
			r.Merged.CallSign,
			r.Merged.Altitude,
			r.Merged.Velocity,
			r.Merged.Heading,
			r.Merged.Latitude,
			r.Merged.Longitude,
			r.LastSeen.Format("15:04:05")))
	}

	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
