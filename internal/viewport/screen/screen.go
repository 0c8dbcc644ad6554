// Package screen draws a viewport.Pane on a tcell screen and turns terminal
// input into scroll and resize events.
package screen

import (
	"context"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/ansi"
	"github.com/rs/zerolog"

	"github.com/rshade/virtlist/internal/ratelimit"
	"github.com/rshade/virtlist/internal/viewport"
)

// DefaultResizeDebounce is how long resize events must stop before OnResize runs.
const DefaultResizeDebounce = 100 * time.Millisecond

// wheelStep is the number of rows one mouse wheel notch scrolls.
const wheelStep = 3

// statusRows is the number of rows reserved below the pane.
const statusRows = 1

//nolint:gochecknoglobals // Read-only styles.
var (
	rowStyle    = tcell.StyleDefault
	statusStyle = tcell.StyleDefault.Reverse(true)
)

type (
	resizeDue struct{}
	settleDue struct{}
)

// Options configures Run. All callbacks run on the event loop goroutine.
type Options struct {
	// Status returns the text of the bottom row.
	Status func() string
	// OnResize runs once resize events have stopped for ResizeDebounce.
	OnResize func(width, height int) error
	// OnSettle runs Settle after the last scroll.
	OnSettle func() error
	// OnError receives errors returned by the callbacks.
	OnError func(error)

	ResizeDebounce time.Duration
	Settle         time.Duration
	Clock          ratelimit.Clock
	Logger         zerolog.Logger
}

// PaneHeight returns the pane height for a screen of the given height.
func PaneHeight(screenHeight int) int {
	return max(screenHeight-statusRows, 0)
}

// Run draws pane on s and handles input until the user quits or ctx is done.
// The caller owns s and is responsible for Init and Fini.
func Run(ctx context.Context, s tcell.Screen, pane *viewport.Pane, opts Options) error {
	if opts.Clock == nil {
		opts.Clock = ratelimit.SystemClock{}
	}
	if opts.ResizeDebounce <= 0 {
		opts.ResizeDebounce = DefaultResizeDebounce
	}
	log := opts.Logger.With().Str("component", "screen").Logger()

	s.EnableMouse()
	w, h := s.Size()
	pane.Resize(w, PaneHeight(h))

	post := func(data any) func() {
		return func() {
			if err := s.PostEvent(tcell.NewEventInterrupt(data)); err != nil {
				log.Debug().Err(err).Msg("event queue full")
			}
		}
	}
	resize := ratelimit.Debounce(post(resizeDue{}), opts.ResizeDebounce, ratelimit.WithClock(opts.Clock))
	defer resize.Stop()
	var settle *ratelimit.Debounced
	if opts.Settle > 0 {
		settle = ratelimit.Debounce(post(settleDue{}), opts.Settle, ratelimit.WithClock(opts.Clock))
		defer settle.Stop()
	}

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	report := func(err error) {
		if err == nil {
			return
		}
		log.Warn().Err(err).Msg("screen callback failed")
		if opts.OnError != nil {
			opts.OnError(err)
		}
	}

	Draw(s, pane, status(opts))
	for {
		var ev tcell.Event
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev = <-events:
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			s.Sync()
			w, h := ev.Size()
			pane.Resize(w, PaneHeight(h))
			resize.Call()

		case *tcell.EventKey:
			if isQuit(ev) {
				log.Debug().Msg("quit requested")
				return nil
			}
			// Apply a pending resize before scrolling with the old geometry.
			resize.Flush()
			if scrollKey(pane, ev) && settle != nil {
				settle.Call()
			}

		case *tcell.EventMouse:
			var moved bool
			switch {
			case ev.Buttons()&tcell.WheelUp != 0:
				moved = pane.ScrollBy(-wheelStep)
			case ev.Buttons()&tcell.WheelDown != 0:
				moved = pane.ScrollBy(wheelStep)
			}
			if moved && settle != nil {
				settle.Call()
			}

		case *tcell.EventInterrupt:
			switch ev.Data().(type) {
			case resizeDue:
				if opts.OnResize != nil {
					w, h := s.Size()
					report(opts.OnResize(w, h))
				}
			case settleDue:
				if opts.OnSettle != nil {
					report(opts.OnSettle())
				}
			}
		}
		Draw(s, pane, status(opts))
	}
}

func status(opts Options) string {
	if opts.Status == nil {
		return ""
	}
	return opts.Status()
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	default:
		return false
	}
}

// scrollKey applies a navigation key to pane and reports whether it moved.
func scrollKey(pane *viewport.Pane, ev *tcell.EventKey) bool {
	page := max(pane.VisibleHeight(), 1)
	switch ev.Key() {
	case tcell.KeyUp:
		return pane.ScrollBy(-1)
	case tcell.KeyDown:
		return pane.ScrollBy(1)
	case tcell.KeyPgUp:
		return pane.ScrollBy(-page)
	case tcell.KeyPgDn:
		return pane.ScrollBy(page)
	case tcell.KeyHome:
		return pane.ScrollTo(0)
	case tcell.KeyEnd:
		return pane.ScrollTo(pane.MaxOffset())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			return pane.ScrollBy(-1)
		case 'j':
			return pane.ScrollBy(1)
		case ' ':
			return pane.ScrollBy(page)
		case 'g':
			return pane.ScrollTo(0)
		case 'G':
			return pane.ScrollTo(pane.MaxOffset())
		}
	}
	return false
}

// Draw paints the pane rows and a status line, then shows the screen.
func Draw(s tcell.Screen, pane *viewport.Pane, statusText string) {
	s.Clear()
	w, _ := s.Size()
	for y, line := range pane.Lines() {
		drawText(s, 0, y, w, rowStyle, line)
	}
	pad := max(w-ansi.PrintableRuneWidth(statusText), 0)
	drawText(s, 0, pane.VisibleHeight(), w, statusStyle, statusText+strings.Repeat(" ", pad))
	s.Show()
}

// drawText writes text at (x, y), clipped to width cells. ANSI escape
// sequences are skipped and wide runes take two cells.
func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string) {
	col := 0
	inEscape := false
	for _, r := range text {
		if r == ansi.Marker {
			inEscape = true
			continue
		}
		if inEscape {
			if ansi.IsTerminator(r) {
				inEscape = false
			}
			continue
		}
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > width {
			return
		}
		s.SetContent(x+col, y, r, nil, style)
		col += rw
	}
}
