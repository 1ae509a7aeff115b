package schema

import (
	"slices"

	"canvas/model"
	"canvas/settings"
)

// Frame describes what is legal at one nesting level. Frames are values:
// a new frame is constructed from its parent with inherited fields copied
// explicitly and is never changed afterwards.
type Frame struct {
	// Type is the block type which opened the frame, empty for document root.
	Type model.Type
	// Decorator is set for frames opened by a decorator.
	Decorator model.Decorator

	children   TypeSet
	decorators bool
	active     []model.Decorator
}

// Active returns decorators already applied at this level, outermost first.
func (f Frame) Active() []model.Decorator {
	return slices.Clone(f.active)
}

// Context is the live stack of frames for a single walk. It is not safe for
// concurrent use and must not be shared between parses.
type Context struct {
	settings *settings.Settings
	frames   []Frame
}

// NewContext returns context positioned at document root.
func NewContext(s *settings.Settings) *Context {
	return &Context{
		settings: s,
		frames:   []Frame{{children: Root, decorators: true}},
	}
}

// Settings returns capability table the context was created with.
func (c *Context) Settings() *settings.Settings {
	return c.settings
}

// Top returns the innermost frame.
func (c *Context) Top() Frame {
	return c.frames[len(c.frames)-1]
}

// Depth returns number of frames including root.
func (c *Context) Depth() int {
	return len(c.frames)
}

// CanAddType reports whether block of type t may be added at current level.
func (c *Context) CanAddType(t model.Type) bool {
	if !c.settings.TypeAllowed(t) {
		return false
	}
	return c.Top().children.Has(t)
}

// IsActive reports whether decorator d already wraps current position.
func (c *Context) IsActive(d model.Decorator) bool {
	return slices.Contains(c.Top().active, d)
}

// CanAddDecorator reports whether d may be applied at current level: it must
// be enabled, available in the enclosing block, permitted inside enclosing
// decorator and not already active.
func (c *Context) CanAddDecorator(d model.Decorator) bool {
	if !c.settings.DecoratorAllowed(d) || !c.CanAddType(model.TypeFragment) {
		return false
	}
	top := c.Top()
	if !top.decorators || c.IsActive(d) {
		return false
	}
	if top.Decorator != "" && !DecoratorAllowed(top.Decorator, d) {
		return false
	}
	return true
}

// Push opens a frame for block type t and returns mark to be passed to Pop.
// Decorator availability starts afresh while the set of active decorators is
// inherited so that a decorator cannot re-apply itself further down.
func (c *Context) Push(t model.Type) int {
	mark := len(c.frames)
	parent := c.Top()
	c.frames = append(c.frames, Frame{
		Type:       t,
		children:   ChildrenOf(t),
		decorators: DecoratorsAvailable(t),
		active:     parent.active,
	})
	return mark
}

// PushDecorator opens a fragment frame with d active.
func (c *Context) PushDecorator(d model.Decorator) int {
	mark := len(c.frames)
	parent := c.Top()
	active := make([]model.Decorator, 0, len(parent.active)+1)
	active = append(active, parent.active...)
	active = append(active, d)
	c.frames = append(c.frames, Frame{
		Type:       model.TypeFragment,
		Decorator:  d,
		children:   ChildrenOf(model.TypeFragment),
		decorators: parent.decorators,
		active:     active,
	})
	return mark
}

// Pop restores the stack to the state it had when mark was obtained. Root
// frame is never removed.
func (c *Context) Pop(mark int) {
	if mark < 1 {
		mark = 1
	}
	if mark < len(c.frames) {
		c.frames = c.frames[:mark]
	}
}
