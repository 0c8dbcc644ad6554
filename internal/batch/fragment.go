package batch

// OpType is the kind of a queued element operation.
type OpType int

// Operation kinds. Only OpCreate contributes to a fragment.
const (
	OpCreate OpType = iota
	OpUpdate
	OpRemove
)

// String returns the operation name.
func (t OpType) String() string {
	switch t {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Op is one queued element operation.
type Op[E any] struct {
	Type    OpType
	Element E
}

// Create is shorthand for an OpCreate operation.
func Create[E any](el E) Op[E] {
	return Op[E]{Type: OpCreate, Element: el}
}

// Fragment is an ordered, detached set of elements waiting to be mounted.
type Fragment[E any] struct {
	children []E
}

// NewFragment creates an empty fragment with room for n elements.
func NewFragment[E any](n int) *Fragment[E] {
	return &Fragment[E]{children: make([]E, 0, max(n, 0))}
}

// BuildFragment collects the elements of every OpCreate in ops, in order.
// Other operation kinds are ignored.
func BuildFragment[E any](ops []Op[E]) *Fragment[E] {
	f := NewFragment[E](len(ops))
	for _, op := range ops {
		if op.Type == OpCreate {
			f.Append(op.Element)
		}
	}
	return f
}

// Append adds el to the end of the fragment.
func (f *Fragment[E]) Append(el E) {
	f.children = append(f.children, el)
}

// Len returns the number of elements.
func (f *Fragment[E]) Len() int {
	return len(f.children)
}

// MountTo hands every element to appendFn in order and empties the fragment.
func (f *Fragment[E]) MountTo(appendFn func(E)) {
	for _, el := range f.children {
		appendFn(el)
	}
	f.children = f.children[:0]
}
