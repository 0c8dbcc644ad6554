package listview_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/virtlist/internal/ratelimit"
	listview "github.com/rshade/virtlist/internal/tui/list"
)

func newModel(t *testing.T, n int, cfg listview.ModelConfig) (*listview.Model[string], *ratelimit.ManualClock) {
	t.Helper()
	clock := newClock()
	cfg.Clock = clock
	if cfg.ItemHeight == 0 {
		cfg.ItemHeight = 1
	}
	m, err := listview.NewModel(makeItems(n), plainRender, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, clock
}

// TestModel_NewModel tests Model initialization.
func TestModel_NewModel(t *testing.T) {
	m, _ := newModel(t, 5, listview.ModelConfig{Width: 80, Height: 22})

	assert.Nil(t, m.Init())
	assert.Equal(t, 5, m.Renderer().ItemCount())
	assert.Equal(t, 20, m.Pane().VisibleHeight(), "two rows are reserved for status and help")
	assert.Equal(t, 80, m.Pane().Width())
	assert.Equal(t, 0, m.Renderer().Window().Start)
	assert.Equal(t, 5, m.Renderer().Window().End)
}

func TestModel_InvalidItemHeight(t *testing.T) {
	_, err := listview.NewModel(makeItems(3), plainRender, listview.ModelConfig{ItemHeight: -1})
	require.ErrorIs(t, err, listview.ErrInvalidConfig)
}

// TestModel_KeyNavigation tests scroll offsets after navigation keys.
func TestModel_KeyNavigation(t *testing.T) {
	tests := []struct {
		name       string
		start      int
		key        tea.KeyMsg
		wantOffset int
	}{
		{name: "down arrow", start: 5, key: tea.KeyMsg{Type: tea.KeyDown}, wantOffset: 7},
		{name: "up arrow", start: 10, key: tea.KeyMsg{Type: tea.KeyUp}, wantOffset: 8},
		{name: "j key", start: 5, key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, wantOffset: 7},
		{name: "k key", start: 10, key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, wantOffset: 8},
		{name: "page down", start: 0, key: tea.KeyMsg{Type: tea.KeyPgDown}, wantOffset: 20},
		{name: "page up clamps", start: 10, key: tea.KeyMsg{Type: tea.KeyPgUp}, wantOffset: 0},
		{name: "home", start: 50, key: tea.KeyMsg{Type: tea.KeyHome}, wantOffset: 0},
		{name: "end", start: 5, key: tea.KeyMsg{Type: tea.KeyEnd}, wantOffset: 180},
		{name: "up at top stays", start: 0, key: tea.KeyMsg{Type: tea.KeyUp}, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 100 items of height 2, 20 visible rows.
			m, clock := newModel(t, 100, listview.ModelConfig{Width: 80, Height: 22, ItemHeight: 2})
			m.Pane().ScrollTo(tt.start)
			clock.Advance(time.Second)

			_, _ = m.Update(tt.key)
			assert.Equal(t, tt.wantOffset, m.Pane().ScrollOffset())
			assert.Equal(t, tt.wantOffset/2, m.Renderer().Window().Start)
		})
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t, 10, listview.ModelConfig{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_MouseWheel(t *testing.T) {
	m, clock := newModel(t, 100, listview.ModelConfig{Width: 80, Height: 12, ItemHeight: 3})

	_, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, 3, m.Pane().ScrollOffset())

	clock.Advance(time.Second)
	_, _ = m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	assert.Equal(t, 0, m.Pane().ScrollOffset())

	_, cmd := m.Update(tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Nil(t, cmd)
}

// TestModel_SettleAfterDroppedScroll verifies the host catches up after the throttle drops events.
func TestModel_SettleAfterDroppedScroll(t *testing.T) {
	m, _ := newModel(t, 100, listview.ModelConfig{Width: 80, Height: 12, Settle: true})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.NotNil(t, cmd, "a scroll schedules a settle tick")
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 3, m.Pane().ScrollOffset())
	assert.Equal(t, 1, m.Renderer().Window().Start, "later keys fell inside the throttle window")

	_, _ = m.Update(cmd())
	assert.Equal(t, 3, m.Renderer().Window().Start)
}

func TestModel_NoSettleByDefault(t *testing.T) {
	m, _ := newModel(t, 100, listview.ModelConfig{Width: 80, Height: 12})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Nil(t, cmd)
}

func TestModel_WindowResize(t *testing.T) {
	t.Run("static visible count", func(t *testing.T) {
		m, _ := newModel(t, 100, listview.ModelConfig{Width: 80, Height: 12})
		_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 32})

		assert.Equal(t, 30, m.Pane().VisibleHeight())
		assert.Equal(t, 100, m.Pane().Width())
		assert.Equal(t, 10, m.Renderer().Window().VisibleCount)
	})

	t.Run("recompute on resize", func(t *testing.T) {
		m, _ := newModel(t, 100, listview.ModelConfig{Width: 80, Height: 12, RecomputeOnResize: true})
		_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 32})

		assert.Equal(t, 30, m.Renderer().Window().VisibleCount)
		assert.Len(t, m.Pane().Children(), 30)
	})
}

// TestModel_ViewRendersOnlyVisibleRows tests that only visible rows are rendered.
func TestModel_ViewRendersOnlyVisibleRows(t *testing.T) {
	m, _ := newModel(t, 1000, listview.ModelConfig{Width: 80, Height: 22})

	view := m.View()
	assert.Contains(t, view, "item-0")
	assert.Contains(t, view, "item-19")
	assert.NotContains(t, view, "item-20\n")
	assert.NotContains(t, view, "item-999")
	assert.Contains(t, view, "items 1-20 of 1,000")

	lines := strings.Split(view, "\n")
	assert.Len(t, lines, 22)
}

func TestModel_StatusLine(t *testing.T) {
	empty, _ := newModel(t, 0, listview.ModelConfig{Title: "contacts"})
	assert.Equal(t, "contacts  no items", empty.StatusLine())

	m, clock := newModel(t, 2500, listview.ModelConfig{Width: 80, Height: 12})
	clock.Advance(time.Second)
	m.Pane().ScrollTo(1200)
	assert.Equal(t, "items 1,201-1,210 of 2,500", m.StatusLine())
}

func TestModel_RenderFailureShowsNotice(t *testing.T) {
	clock := newClock()
	render := func(item string, index int) (string, error) {
		if index == 15 {
			return "", errors.New("corrupt row")
		}
		return item, nil
	}
	m, err := listview.NewModel(makeItems(100), render, listview.ModelConfig{
		Width: 80, Height: 12, ItemHeight: 1, Clock: clock,
	})
	require.NoError(t, err)
	defer m.Close()

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, "Some rows could not be drawn", m.StatusLine())

	clock.Advance(time.Second)
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Contains(t, m.StatusLine(), "items 21-30")
}

func TestFormatStatus(t *testing.T) {
	p := message.NewPrinter(language.English)

	assert.Equal(t, "items 1-10 of 25", listview.FormatStatus(p, "", listview.Window{Start: 0, End: 10}, 25))
	assert.Equal(t, "log  items 12,001-12,020 of 40,000",
		listview.FormatStatus(p, "log", listview.Window{Start: 12000, End: 12020}, 40000))
	assert.Equal(t, "no items", listview.FormatStatus(p, "", listview.Window{}, 0))
	assert.Equal(t, "items 0-0 of 5", listview.FormatStatus(p, "", listview.Window{}, 5), "empty viewport")
}
