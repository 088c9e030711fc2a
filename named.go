package histogram

// Named carries the identity a catalog or persistence layer uses to locate a
// histogram: a unique name, a display title, and a hierarchical path. The
// engine stores these opaquely and never interprets them.
type Named struct {
	name  string
	title string
	path  string
}

// NewNamed builds an identity value.
func NewNamed(name, title, path string) Named {
	return Named{name: name, title: title, path: path}
}

// Name returns the unique name.
func (n Named) Name() string { return n.name }

// Title returns the display title.
func (n Named) Title() string { return n.title }

// Path returns the hierarchical location, empty when unset.
func (n Named) Path() string { return n.path }
