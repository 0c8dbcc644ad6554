package viewport_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/virtlist/internal/viewport"
)

func TestPane_ScrollClamping(t *testing.T) {
	pane := viewport.NewPane(40, 10)
	pane.SetScrollableHeight(100)

	tests := []struct {
		name   string
		target int
		want   int
	}{
		{name: "inside range", target: 25, want: 25},
		{name: "negative clamps to zero", target: -5, want: 0},
		{name: "past end clamps to max", target: 500, want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pane.ScrollTo(tt.target)
			assert.Equal(t, tt.want, pane.ScrollOffset())
		})
	}
}

func TestPane_NotifiesOnlyOnChange(t *testing.T) {
	pane := viewport.NewPane(40, 10)
	pane.SetScrollableHeight(100)

	calls := 0
	unsubscribe := pane.OnScroll(func() { calls++ })

	assert.True(t, pane.ScrollTo(5))
	assert.False(t, pane.ScrollTo(5), "same offset is not a scroll")
	assert.True(t, pane.ScrollBy(3))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, pane.Subscribers())

	unsubscribe()
	unsubscribe()
	pane.ScrollTo(20)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, pane.Subscribers())
}

func TestPane_ListenerMayReenter(t *testing.T) {
	pane := viewport.NewPane(40, 10)
	pane.SetScrollableHeight(100)

	var seen int
	pane.OnScroll(func() {
		seen = pane.ScrollOffset()
		pane.ClearChildren()
	})

	pane.ScrollTo(42)
	assert.Equal(t, 42, seen)
}

func TestPane_LinesPlacesChildren(t *testing.T) {
	pane := viewport.NewPane(20, 4)
	pane.SetScrollableHeight(20)
	pane.ScrollTo(4)

	// Region starts at row 4 (item 2 with height 2).
	pane.AppendChild(viewport.Element{Index: 2, Origin: 4, Top: 0, Body: "two\n-"})
	pane.AppendChild(viewport.Element{Index: 3, Origin: 4, Top: 2, Body: "three"})
	pane.AppendChild(viewport.Element{Index: 9, Origin: 4, Top: 14, Body: "offscreen"})

	lines := pane.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"two", "-", "three", ""}, lines)
	assert.Len(t, pane.Children(), 3)

	pane.ClearChildren()
	assert.Empty(t, pane.Children())
	assert.Equal(t, "\n\n\n", pane.View())
}

func TestPane_ViewTruncatesToWidth(t *testing.T) {
	pane := viewport.NewPane(5, 1)
	pane.AppendChild(viewport.Element{Body: "abcdefghij"})

	view := pane.View()
	assert.True(t, strings.HasPrefix("abcdefghij", view), "got %q", view)
	assert.LessOrEqual(t, len(view), 5)
}

func TestPane_ResizeClampsOffset(t *testing.T) {
	pane := viewport.NewPane(10, 10)
	pane.SetScrollableHeight(30)
	pane.ScrollTo(20)

	calls := 0
	pane.OnScroll(func() { calls++ })

	pane.Resize(10, 25)
	assert.Equal(t, 5, pane.ScrollOffset())
	assert.Equal(t, 25, pane.VisibleHeight())
	assert.Equal(t, 1, calls)
}
