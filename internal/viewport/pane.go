package viewport

import (
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Pane is an in-memory Viewport for terminal hosts. It is safe for concurrent use.
// Scroll subscribers run outside the pane's lock, so they may call back into it.
type Pane struct {
	mu         sync.RWMutex
	width      int
	height     int
	offset     int
	scrollable int
	children   []Element

	listeners map[int]func()
	nextID    int
}

// NewPane creates a pane of the given size. Negative sizes are treated as zero.
func NewPane(width, height int) *Pane {
	return &Pane{
		width:     max(width, 0),
		height:    max(height, 0),
		listeners: make(map[int]func()),
	}
}

// VisibleHeight returns the pane height in rows.
func (p *Pane) VisibleHeight() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.height
}

// Width returns the pane width in columns.
func (p *Pane) Width() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.width
}

// ScrollOffset returns the first content row shown.
func (p *Pane) ScrollOffset() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.offset
}

// ScrollableHeight returns the total content height last set by the renderer.
func (p *Pane) ScrollableHeight() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scrollable
}

// SetScrollableHeight sets the total content height. The scroll offset is not
// changed, so a shrinking list does not emit scroll notifications by itself.
func (p *Pane) SetScrollableHeight(rows int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrollable = max(rows, 0)
}

// ClearChildren removes every hosted element.
func (p *Pane) ClearChildren() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.children = p.children[:0]
}

// AppendChild hosts el.
func (p *Pane) AppendChild(el Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.children = append(p.children, el)
}

// Children returns a copy of the hosted elements in append order.
func (p *Pane) Children() []Element {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Element, len(p.children))
	copy(out, p.children)
	return out
}

// OnScroll registers fn for scroll notifications.
func (p *Pane) OnScroll(fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.listeners, id)
		})
	}
}

// Subscribers returns the number of registered scroll listeners.
func (p *Pane) Subscribers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners)
}

// MaxOffset is the largest offset ScrollTo accepts.
func (p *Pane) MaxOffset() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.maxOffsetLocked()
}

func (p *Pane) maxOffsetLocked() int {
	return max(p.scrollable-p.height, 0)
}

// ScrollTo moves the pane to offset, clamped to the scrollable range.
// Subscribers are notified only when the offset changed. It reports whether it did.
func (p *Pane) ScrollTo(offset int) bool {
	p.mu.Lock()
	offset = min(max(offset, 0), p.maxOffsetLocked())
	if offset == p.offset {
		p.mu.Unlock()
		return false
	}
	p.offset = offset
	listeners := p.snapshotListenersLocked()
	p.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}

// ScrollBy moves the pane by delta rows.
func (p *Pane) ScrollBy(delta int) bool {
	return p.ScrollTo(p.ScrollOffset() + delta)
}

// Resize changes the pane size. The offset is clamped to the new range,
// which notifies subscribers when it moves.
func (p *Pane) Resize(width, height int) {
	p.mu.Lock()
	p.width = max(width, 0)
	p.height = max(height, 0)
	clamped := min(p.offset, p.maxOffsetLocked())
	p.mu.Unlock()

	p.ScrollTo(clamped)
}

func (p *Pane) snapshotListenersLocked() []func() {
	ids := make([]int, 0, len(p.listeners))
	for id := range p.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(), 0, len(ids))
	for _, id := range ids {
		out = append(out, p.listeners[id])
	}
	return out
}

// Lines returns the visible rows as plain strings, one per pane row.
// Rows not covered by any element are empty.
func (p *Pane) Lines() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	lines := make([]string, p.height)
	for _, el := range p.children {
		for j, line := range strings.Split(el.Body, "\n") {
			row := el.Offset() + j - p.offset
			if row < 0 || row >= p.height {
				continue
			}
			lines[row] = line
		}
	}
	return lines
}

// View renders the visible rows, each truncated to the pane width.
func (p *Pane) View() string {
	lines := p.Lines()
	width := p.Width()
	if width > 0 {
		clip := lipgloss.NewStyle().MaxWidth(width)
		for i, line := range lines {
			if line != "" {
				lines[i] = clip.Render(line)
			}
		}
	}
	return strings.Join(lines, "\n")
}
