package schema

import (
	"time"

	"github.com/christophevg/schema-tools/ast"
	"github.com/christophevg/schema-tools/references"
	"github.com/christophevg/schema-tools/system"
)

type Option[T any] func(o *T)

// LoadOptions configure how documents are parsed and how referenced documents are fetched. They are kept on
// the root of a built document and inherited by every document fetched while resolving its references.
type LoadOptions struct {
	grammar    ast.Grammar
	origin     string
	vfs        system.VirtualFS
	httpClient system.Client
	timeout    time.Duration
}

func newConfig(opts ...Option[LoadOptions]) *LoadOptions {
	c := &LoadOptions{grammar: ast.GrammarAuto, timeout: system.DefaultFetchTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// inherit returns a copy for a document fetched from origin.
func (o *LoadOptions) inherit(origin string) *LoadOptions {
	inherited := *o
	inherited.origin = origin
	inherited.grammar = ast.GrammarAuto
	return &inherited
}

func (o *LoadOptions) fetchOptions() references.FetchOptions {
	return references.FetchOptions{
		VirtualFS:  o.vfs,
		HTTPClient: o.httpClient,
		Timeout:    o.timeout,
	}
}

// WithGrammar selects the grammar of the top level document. Referenced documents always try JSON first and
// YAML second.
func WithGrammar(grammar ast.Grammar) Option[LoadOptions] {
	return func(o *LoadOptions) {
		o.grammar = grammar
	}
}

// WithOrigin sets the file path or URL relative references are resolved against.
func WithOrigin(origin string) Option[LoadOptions] {
	return func(o *LoadOptions) {
		o.origin = origin
	}
}

// WithVirtualFS sets the file system file references are read from.
func WithVirtualFS(vfs system.VirtualFS) Option[LoadOptions] {
	return func(o *LoadOptions) {
		o.vfs = vfs
	}
}

// WithHTTPClient sets the client URL references are fetched with.
func WithHTTPClient(client system.Client) Option[LoadOptions] {
	return func(o *LoadOptions) {
		o.httpClient = client
	}
}

// WithFetchTimeout bounds every remote fetch.
func WithFetchTimeout(timeout time.Duration) Option[LoadOptions] {
	return func(o *LoadOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// DictOptions configure ToDict.
type DictOptions struct {
	deref       bool
	derefRemote bool
}

// Deref inlines local references, rewriting the pointers inside inlined content to their new location.
func Deref() Option[DictOptions] {
	return func(o *DictOptions) {
		o.deref = true
	}
}

// DerefRemote also inlines references into other documents. It implies Deref.
func DerefRemote() Option[DictOptions] {
	return func(o *DictOptions) {
		o.deref = true
		o.derefRemote = true
	}
}

// DependencyOptions configure Dependencies.
type DependencyOptions struct {
	visited map[string]bool
}

// WithVisited makes Dependencies record the targets it expanded in visited, keyed by the absolute document
// location and pointer of the target, and skip targets already in it. Sharing one set across calls expands
// every target once. The set is only consulted when expanding external dependencies and must not be shared
// by concurrent calls.
func WithVisited(visited map[string]bool) Option[DependencyOptions] {
	return func(o *DependencyOptions) {
		o.visited = visited
	}
}
