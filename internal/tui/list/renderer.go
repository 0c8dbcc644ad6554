package listview

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/virtlist/internal/batch"
	"github.com/rshade/virtlist/internal/ratelimit"
	"github.com/rshade/virtlist/internal/validate"
	"github.com/rshade/virtlist/internal/viewport"
)

// DefaultThrottle caps scroll-driven recomputation at roughly one frame.
const DefaultThrottle = ratelimit.DefaultFrameInterval

// Sentinel errors.
var (
	// ErrInvalidConfig is returned by New for unusable construction input.
	ErrInvalidConfig = errors.New("invalid list configuration")

	// ErrClosed is returned by operations on a closed Renderer.
	ErrClosed = errors.New("list renderer is closed")

	// ErrUnknownPolicy is returned by ParseErrorPolicy.
	ErrUnknownPolicy = errors.New("unknown error policy")
)

// RenderFunc renders one item. index is the item's absolute position in the list.
type RenderFunc[T any] func(item T, index int) (string, error)

// RenderError is a RenderFunc failure for one item.
type RenderError struct {
	Index int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering item %d: %v", e.Index, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ErrorPolicy decides what a render pass does when RenderFunc fails.
type ErrorPolicy int

const (
	// PolicyAbort fails the whole pass and leaves the viewport's previous children in place.
	PolicyAbort ErrorPolicy = iota
	// PolicySkip leaves the failing item out and renders the rest.
	PolicySkip
)

// String returns the policy name used in configuration.
func (p ErrorPolicy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicySkip:
		return "skip"
	default:
		return "unknown"
	}
}

// ParseErrorPolicy parses "abort" or "skip". An empty string means abort.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return PolicyAbort, nil
	case "skip":
		return PolicySkip, nil
	default:
		return PolicyAbort, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Window is the rendered index range [Start, End).
type Window struct {
	Start        int
	End          int
	VisibleCount int
}

// Len returns the number of items in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// Option configures a Renderer.
type Option func(*settings)

type settings struct {
	interval time.Duration
	clock    ratelimit.Clock
	logger   zerolog.Logger
	policy   ErrorPolicy
}

// WithThrottle sets the minimum interval between scroll-driven recomputations.
func WithThrottle(d time.Duration) Option {
	return func(s *settings) { s.interval = d }
}

// WithClock sets the clock used by the throttle.
func WithClock(c ratelimit.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger for render failures and lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithErrorPolicy sets how RenderFunc failures are handled.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(s *settings) { s.policy = p }
}

// Renderer mounts the visible slice of a fixed-height list into a viewport.
// It is safe for concurrent use.
type Renderer[T any] struct {
	id         string
	vp         viewport.Viewport
	items      []T
	itemHeight int
	render     RenderFunc[T]
	logger     zerolog.Logger
	policy     ErrorPolicy

	throttle    *ratelimit.Throttled
	unsubscribe func()

	mu         sync.Mutex
	window     Window
	closed     bool
	recomputes int
	skipped    int
	lastErr    error
}

// New creates a Renderer over items, subscribes to vp's scroll notifications
// and performs the initial render. items is held by reference.
func New[T any](
	vp viewport.Viewport,
	items []T,
	itemHeight int,
	render RenderFunc[T],
	opts ...Option,
) (*Renderer[T], error) {
	s := settings{
		interval: DefaultThrottle,
		clock:    ratelimit.SystemClock{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	switch {
	case vp == nil:
		return nil, fmt.Errorf("%w: viewport is required", ErrInvalidConfig)
	case render == nil:
		return nil, fmt.Errorf("%w: render function is required", ErrInvalidConfig)
	case !validate.Positive(itemHeight):
		return nil, fmt.Errorf("%w: item height must be positive, got %d", ErrInvalidConfig, itemHeight)
	case !validate.NonNegative(vp.VisibleHeight()):
		return nil, fmt.Errorf("%w: viewport height must not be negative, got %d", ErrInvalidConfig, vp.VisibleHeight())
	case s.interval < 0:
		return nil, fmt.Errorf("%w: throttle interval must not be negative, got %s", ErrInvalidConfig, s.interval)
	}

	id := uuid.NewString()
	r := &Renderer[T]{
		id:         id,
		vp:         vp,
		items:      items,
		itemHeight: itemHeight,
		render:     render,
		logger:     s.logger.With().Str("renderer_id", id).Logger(),
		policy:     s.policy,
	}
	r.window = windowAt(0, visibleCount(vp.VisibleHeight(), itemHeight), len(items))
	r.throttle = ratelimit.Throttle(r.handleScroll, s.interval, ratelimit.WithClock(s.clock))
	r.unsubscribe = vp.OnScroll(func() { r.throttle.Call() })

	r.logger.Debug().
		Int("items", len(items)).
		Int("item_height", itemHeight).
		Int("visible_count", r.window.VisibleCount).
		Dur("throttle", s.interval).
		Msg("list renderer attached")

	if err := r.Render(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// ID returns the renderer's instance ID, as used in its log lines.
func (r *Renderer[T]) ID() string {
	return r.id
}

// Window returns the current render window.
func (r *Renderer[T]) Window() Window {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.window
}

// ItemCount returns the number of items in the list.
func (r *Renderer[T]) ItemCount() int {
	return len(r.items)
}

// ItemHeight returns the fixed per-item height.
func (r *Renderer[T]) ItemHeight() int {
	return r.itemHeight
}

// ThrottleInterval returns the scroll throttle window. Hosts use it to time
// their settle tick.
func (r *Renderer[T]) ThrottleInterval() time.Duration {
	return r.throttle.Interval()
}

// Recomputes returns how many scroll notifications passed the throttle.
func (r *Renderer[T]) Recomputes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recomputes
}

// Skipped returns how many items PolicySkip has left out so far.
func (r *Renderer[T]) Skipped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped
}

// LastError returns the error of the most recent render pass, or nil.
func (r *Renderer[T]) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Render mounts the current window into the viewport. Repeating it with an
// unchanged window produces the same children.
func (r *Renderer[T]) Render() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return r.renderLocked()
}

// Sync recomputes the window from the current scroll offset without the
// throttle. Hosts call it to catch up once a throttle window has passed.
// The throttle cooldown is cleared, so the next scroll is handled at once.
func (r *Renderer[T]) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.throttle.Reset()
	r.moveLocked()
	return r.renderLocked()
}

// Remeasure recomputes the visible count from the viewport's current height
// and re-renders. The renderer never calls it on its own.
func (r *Renderer[T]) Remeasure() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	count := visibleCount(r.vp.VisibleHeight(), r.itemHeight)
	r.logger.Debug().
		Int("from", r.window.VisibleCount).
		Int("to", count).
		Msg("visible count remeasured")
	r.window = windowAt(r.window.Start, count, len(r.items))
	return r.renderLocked()
}

// Close detaches the renderer from the viewport's scroll notifications.
// It is safe to call more than once.
func (r *Renderer[T]) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.unsubscribe()
	calls, executed := r.throttle.Stats()
	r.logger.Debug().
		Int("scroll_events", calls).
		Int("scroll_recomputes", executed).
		Msg("list renderer detached")
	return nil
}

// handleScroll runs for every scroll notification the throttle lets through.
func (r *Renderer[T]) handleScroll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.recomputes++
	r.moveLocked()
	// Failures are logged and kept in lastErr by renderLocked.
	_ = r.renderLocked()
}

func (r *Renderer[T]) moveLocked() {
	start := startIndex(r.vp.ScrollOffset(), r.itemHeight)
	r.window = windowAt(start, r.window.VisibleCount, len(r.items))
}

func (r *Renderer[T]) renderLocked() error {
	w := r.window
	origin := w.Start * r.itemHeight

	ops := make([]batch.Op[viewport.Element], 0, w.Len())
	for i, item := range r.items[w.Start:w.End] {
		index := w.Start + i
		body, err := r.render(item, index)
		if err != nil {
			renderErr := &RenderError{Index: index, Err: err}
			if r.policy == PolicyAbort {
				r.logger.Error().Err(renderErr).
					Int("start", w.Start).
					Int("end", w.End).
					Msg("render pass aborted")
				r.lastErr = renderErr
				return renderErr
			}
			r.logger.Warn().Err(renderErr).Msg("skipping item")
			r.skipped++
			continue
		}
		ops = append(ops, batch.Create(viewport.Element{
			Index:  index,
			Origin: origin,
			Top:    i * r.itemHeight,
			Body:   body,
		}))
	}

	frag := batch.BuildFragment(ops)
	r.vp.ClearChildren()
	frag.MountTo(r.vp.AppendChild)
	r.vp.SetScrollableHeight(len(r.items) * r.itemHeight)
	r.lastErr = nil
	return nil
}

// visibleCount returns ceil(viewportHeight / itemHeight).
func visibleCount(viewportHeight, itemHeight int) int {
	if viewportHeight <= 0 {
		return 0
	}
	return (viewportHeight + itemHeight - 1) / itemHeight
}

// startIndex returns floor(offset / itemHeight), treating negative offsets as 0.
func startIndex(offset, itemHeight int) int {
	if offset <= 0 {
		return 0
	}
	return offset / itemHeight
}

// windowAt builds the window starting at start, clamped so 0 <= Start <= End <= n.
func windowAt(start, count, n int) Window {
	start = min(max(start, 0), n)
	return Window{
		Start:        start,
		End:          min(start+count, n),
		VisibleCount: count,
	}
}
