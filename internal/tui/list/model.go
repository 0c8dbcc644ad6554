package listview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/virtlist/internal/errmsg"
	"github.com/rshade/virtlist/internal/ratelimit"
	"github.com/rshade/virtlist/internal/viewport"
)

// chromeRows is the number of rows below the list: status line and help.
const chromeRows = 2

// Default terminal size before the first tea.WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

//nolint:gochecknoglobals // Read-only style.
var statusStyle = lipgloss.NewStyle().Faint(true)

// settleMsg asks the model to catch the window up with the scroll offset.
type settleMsg struct{}

// ModelConfig configures a Model.
type ModelConfig struct {
	Width             int
	Height            int
	ItemHeight        int
	Throttle          time.Duration
	RecomputeOnResize bool
	// Settle re-syncs the window one throttle interval after each scroll,
	// so the last position is drawn even if its notification was dropped.
	Settle      bool
	ErrorPolicy ErrorPolicy
	Logger      zerolog.Logger
	Clock       ratelimit.Clock
	Title       string
}

// Model is a Bubble Tea model that scrolls a Renderer inside a viewport.Pane.
type Model[T any] struct {
	pane     *viewport.Pane
	renderer *Renderer[T]
	keys     KeyMap
	help     help.Model
	errors   *errmsg.Handler
	printer  *message.Printer

	title             string
	width             int
	height            int
	recomputeOnResize bool
	settle            bool
	notice            string
}

// NewModel creates a Model over items.
func NewModel[T any](items []T, render RenderFunc[T], cfg ModelConfig) (*Model[T], error) {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Throttle == 0 {
		cfg.Throttle = DefaultThrottle
	}

	m := &Model[T]{
		keys:              DefaultKeyMap(),
		help:              help.New(),
		printer:           message.NewPrinter(language.English),
		title:             cfg.Title,
		width:             cfg.Width,
		height:            cfg.Height,
		recomputeOnResize: cfg.RecomputeOnResize,
		settle:            cfg.Settle,
	}
	m.errors = errmsg.NewHandler(cfg.Logger, func(msg string) { m.notice = msg })
	m.pane = viewport.NewPane(cfg.Width, m.listHeight(cfg.Height))

	renderer, err := New(m.pane, items, cfg.ItemHeight, render,
		WithThrottle(cfg.Throttle),
		WithClock(cfg.Clock),
		WithLogger(cfg.Logger),
		WithErrorPolicy(cfg.ErrorPolicy),
	)
	if err != nil {
		return nil, err
	}
	m.renderer = renderer
	return m, nil
}

// Init initializes the model (required for tea.Model interface).
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update handles keyboard, mouse wheel and resize messages.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		switch msg.Button { //nolint:exhaustive // Only the wheel scrolls.
		case tea.MouseButtonWheelUp:
			return m, m.scrolled(m.pane.ScrollBy(-m.renderer.ItemHeight()))
		case tea.MouseButtonWheelDown:
			return m, m.scrolled(m.pane.ScrollBy(m.renderer.ItemHeight()))
		default:
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.pane.Resize(msg.Width, m.listHeight(msg.Height))
		if m.recomputeOnResize {
			m.report(m.renderer.Remeasure())
		}
		m.report(m.renderer.Sync())
		return m, nil

	case settleMsg:
		m.report(m.renderer.Sync())
		return m, nil
	}

	return m, nil
}

// handleKeyMsg processes keyboard input for navigation.
func (m *Model[T]) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := m.renderer.ItemHeight()
	page := max(m.pane.VisibleHeight(), step)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		return m, m.scrolled(m.pane.ScrollBy(-step))
	case key.Matches(msg, m.keys.Down):
		return m, m.scrolled(m.pane.ScrollBy(step))
	case key.Matches(msg, m.keys.PageUp):
		return m, m.scrolled(m.pane.ScrollBy(-page))
	case key.Matches(msg, m.keys.PageDown):
		return m, m.scrolled(m.pane.ScrollBy(page))
	case key.Matches(msg, m.keys.Home):
		return m, m.scrolled(m.pane.ScrollTo(0))
	case key.Matches(msg, m.keys.End):
		return m, m.scrolled(m.pane.ScrollTo(m.pane.MaxOffset()))
	}
	return m, nil
}

// scrolled returns the settle command after a scroll that moved the pane.
func (m *Model[T]) scrolled(moved bool) tea.Cmd {
	if !moved {
		return nil
	}
	m.notice = ""
	if m.renderer.LastError() != nil {
		m.report(m.renderer.LastError())
	}
	if !m.settle {
		return nil
	}
	return tea.Tick(m.renderer.ThrottleInterval(), func(time.Time) tea.Msg { return settleMsg{} })
}

func (m *Model[T]) report(err error) {
	if err != nil {
		m.errors.Handle(err, errmsg.ContextRender)
	}
}

// View renders the pane, a status line and the key help.
func (m *Model[T]) View() string {
	var b strings.Builder
	b.WriteString(m.pane.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.StatusLine()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// StatusLine describes the rendered window, or the last failure notice.
func (m *Model[T]) StatusLine() string {
	if m.notice != "" {
		return m.notice
	}
	return FormatStatus(m.printer, m.title, m.renderer.Window(), m.renderer.ItemCount())
}

// FormatStatus describes window w over n items, e.g. "items 1,201-1,210 of 2,500".
func FormatStatus(p *message.Printer, title string, w Window, n int) string {
	prefix := ""
	if title != "" {
		prefix = title + "  "
	}
	if n == 0 {
		return prefix + "no items"
	}
	return prefix + p.Sprintf("items %d-%d of %d", min(w.Start+1, w.End), w.End, n)
}

// Pane returns the model's viewport.
func (m *Model[T]) Pane() *viewport.Pane {
	return m.pane
}

// Renderer returns the model's list renderer.
func (m *Model[T]) Renderer() *Renderer[T] {
	return m.renderer
}

// Close releases the renderer's scroll subscription.
func (m *Model[T]) Close() error {
	if err := m.renderer.Close(); err != nil {
		return fmt.Errorf("closing list renderer: %w", err)
	}
	return nil
}

func (m *Model[T]) listHeight(total int) int {
	return max(total-chromeRows, 0)
}
