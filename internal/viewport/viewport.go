// Package viewport defines the scrollable region a windowed list renders into,
// and an in-memory terminal pane that implements it.
package viewport

// Element is one rendered item placed inside a viewport.
type Element struct {
	// Index is the absolute item index.
	Index int
	// Origin is the offset of the rendered region from the top of the content.
	Origin int
	// Top is the offset of the element within the rendered region.
	Top int
	// Body is the rendered text. It may span several lines.
	Body string
}

// Offset returns the element's offset from the top of the content.
func (e Element) Offset() int {
	return e.Origin + e.Top
}

// Viewport is a scrollable region that hosts rendered elements.
type Viewport interface {
	// VisibleHeight is the number of rows the viewport shows at once.
	VisibleHeight() int
	// ScrollOffset is the first content row currently shown.
	ScrollOffset() int
	// SetScrollableHeight sets the total content height used for scrollbar proportions.
	SetScrollableHeight(rows int)
	// ClearChildren removes every hosted element.
	ClearChildren()
	// AppendChild hosts one more element.
	AppendChild(el Element)
	// OnScroll registers fn to run after every scroll offset change.
	// The returned function removes the registration.
	OnScroll(fn func()) (unsubscribe func())
}
