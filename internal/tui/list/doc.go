// Package listview provides windowed rendering of large fixed-height lists.
//
// A Renderer keeps only the items scrolled into a viewport mounted as
// children. Key behavior:
//   - The window is recomputed from the scroll offset: start = offset / itemHeight,
//     end = min(start + visibleCount, len(items)).
//   - Recomputation is driven by scroll notifications through a leading-edge
//     throttle (one frame by default). Dropped notifications are not replayed.
//   - visibleCount is measured once at construction. Remeasure recomputes it
//     on request only.
//
// Model hosts a Renderer inside a Bubble Tea program using an in-memory
// viewport.Pane, with keyboard and mouse-wheel scrolling.
package listview
