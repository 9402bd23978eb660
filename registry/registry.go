// Package registry implements the (form context, chunk ID) -> Capabilities
// dispatch table that lets an application attach interpreted payloads to
// otherwise-opaque leaf chunks, keyed by a 2-tuple of chunk.ID (the
// enclosing form type and the chunk's own ID), and resolving to a
// Capabilities record covering read, write, check, clear, print, and
// compare.
package registry

import (
	"io"

	"github.com/jonchammer/iff/chunk"
	"github.com/jonchammer/iff/path"
	"github.com/jonchammer/iff/quality"
)

// Capabilities is implemented by application code that wants to own the
// interpretation of a particular (form context, chunk ID) pair, or of a
// chunk ID globally regardless of its enclosing form. A registered
// Capabilities value is never asked to handle FORM, LIST, CAT, or PROP --
// those four structural IDs are handled directly by the iff package and
// can never be registered.
type Capabilities interface {
	// Create allocates a new chunk for id, sized for size bytes of body.
	// Implementations typically return a KindApp chunk with App populated
	// by a zero value of their own payload type.
	Create(id chunk.ID, size int32) *chunk.Chunk

	// ReadContents decodes c.App's payload from r. It must read exactly
	// the number of bytes it reports in n; the caller skips any remainder.
	ReadContents(r io.Reader, c *chunk.Chunk, reg *Registry, p path.Path) (n int, err error)

	// WriteContents encodes c.App's payload to w, returning the number of
	// bytes written.
	WriteContents(w io.Writer, c *chunk.Chunk, reg *Registry, p path.Path) (n int, err error)

	// CheckContents validates c.App's payload, reporting findings to sink
	// and returning the resulting quality level.
	CheckContents(c *chunk.Chunk, reg *Registry, p path.Path, sink quality.Sink) quality.Level

	// ClearContents releases any resource owned by c.App before the chunk
	// is discarded.
	ClearContents(c *chunk.Chunk, reg *Registry)

	// PrintContents writes a human-readable rendering of c.App to w.
	PrintContents(w io.Writer, c *chunk.Chunk, indent int, reg *Registry) error

	// CompareContents reports whether a.App and b.App are equivalent.
	CompareContents(a, b *chunk.Chunk, reg *Registry) bool
}

// ParentHook is an optional interface a Capabilities implementation may
// also satisfy to be notified once its chunk has been attached to a
// parent group.
type ParentHook interface {
	OnAttach(c, parent *chunk.Chunk)
}

type key struct {
	FormType chunk.ID
	ChunkID  chunk.ID
}

// Registry resolves a chunk ID (optionally scoped to an enclosing form
// type) to the Capabilities that should interpret it. The zero value is
// not usable; construct one with New.
type Registry struct {
	contextual map[key]Capabilities
	global     map[chunk.ID]Capabilities
	raw        Capabilities
}

// Option configures a Registry at construction time, following the
// functional-options idiom.
type Option func(*Registry)

// WithRegistration pre-registers impl for chunkID when it appears inside a
// form of type formContext, equivalent to calling Register after New.
func WithRegistration(formContext, chunkID chunk.ID, impl Capabilities) Option {
	return func(r *Registry) {
		r.Register(formContext, chunkID, impl)
	}
}

// WithGlobalRegistration pre-registers impl for chunkID regardless of
// enclosing form type, equivalent to calling RegisterGlobal after New.
func WithGlobalRegistration(chunkID chunk.ID, impl Capabilities) Option {
	return func(r *Registry) {
		r.RegisterGlobal(chunkID, impl)
	}
}

// New constructs a Registry with no application capabilities registered;
// every chunk ID falls back to the built-in raw handling until Register or
// RegisterGlobal is called.
func New(opts ...Option) *Registry {
	r := &Registry{
		contextual: make(map[key]Capabilities),
		global:     make(map[chunk.ID]Capabilities),
		raw:        rawCapabilities{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds impl to chunkID when it occurs inside a form of type
// formContext. It panics if chunkID is one of the four structural IDs
// (FORM, LIST, CAT, PROP), which are never overridable.
func (r *Registry) Register(formContext, chunkID chunk.ID, impl Capabilities) {
	if chunk.IsGroupID(chunkID) {
		panic("registry: cannot register a handler for a structural chunk ID")
	}
	r.contextual[key{FormType: formContext, ChunkID: chunkID}] = impl
}

// RegisterGlobal binds impl to chunkID regardless of enclosing form type.
// Contextual registrations made via Register take precedence over a
// global registration for the same chunk ID. It panics under the same
// condition as Register.
func (r *Registry) RegisterGlobal(chunkID chunk.ID, impl Capabilities) {
	if chunk.IsGroupID(chunkID) {
		panic("registry: cannot register a handler for a structural chunk ID")
	}
	r.global[chunkID] = impl
}

// resolve returns the Capabilities that should handle c, consulting the
// contextual table (keyed by the chunk's enclosing form type, taken from
// c.Parent.ContentsType) before the global table, and finally the
// built-in raw fallback. During parsing, Attach calls it only after
// AddChild has set c.Parent; the parser's body dispatch uses Lookup with
// the explicitly threaded form context instead. A chunk with no Parent
// resolves with the zero ID as its form context.
func (r *Registry) resolve(c *chunk.Chunk) Capabilities {
	var formContext chunk.ID
	if c.Parent != nil {
		formContext = c.Parent.ContentsType
	}
	return r.resolveByContext(formContext, c.ChunkID)
}

func (r *Registry) resolveByContext(formContext, chunkID chunk.ID) Capabilities {
	if impl, ok := r.contextual[key{FormType: formContext, ChunkID: chunkID}]; ok {
		return impl
	}
	if impl, ok := r.global[chunkID]; ok {
		return impl
	}
	return r.raw
}

// Lookup exposes resolveByContext for callers (the iff package's parser)
// that must pick a Capabilities before a chunk -- and hence its Parent --
// exists yet.
func (r *Registry) Lookup(formContext, chunkID chunk.ID) Capabilities {
	return r.resolveByContext(formContext, chunkID)
}

// Attach appends child to parent's children, sets child.Parent, and
// invokes child's ParentHook.OnAttach if its Capabilities implements it.
func (r *Registry) Attach(parent, child *chunk.Chunk) {
	parent.AddChild(child)
	if hook, ok := r.resolve(child).(ParentHook); ok {
		hook.OnAttach(child, parent)
	}
}

// CompareLeaf satisfies chunk.CompareProvider.
func (r *Registry) CompareLeaf(a, b *chunk.Chunk) bool {
	return r.resolve(a).CompareContents(a, b, r)
}

// ClearLeaf satisfies chunk.ClearProvider.
func (r *Registry) ClearLeaf(c *chunk.Chunk) {
	r.resolve(c).ClearContents(c, r)
}

// CheckLeaf satisfies chunk.CheckProvider.
func (r *Registry) CheckLeaf(c *chunk.Chunk, p path.Path, sink quality.Sink) quality.Level {
	return r.resolve(c).CheckContents(c, r, p, sink)
}

// PrintLeaf satisfies chunk.PrintProvider.
func (r *Registry) PrintLeaf(w io.Writer, c *chunk.Chunk, indent int) error {
	return r.resolve(c).PrintContents(w, c, indent, r)
}
