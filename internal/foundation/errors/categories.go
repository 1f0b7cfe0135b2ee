package errors

// ErrorCategory classifies a failure for exit codes and reporting.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryFileSystem covers reading sources and writing output.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryStore      ErrorCategory = "store"

	// CategoryPlugin marks an enhancer or validator failure. It never
	// fails the document it happened on.
	CategoryPlugin   ErrorCategory = "plugin"
	CategoryPipeline ErrorCategory = "pipeline"
	CategoryTimeout  ErrorCategory = "timeout"

	CategoryInternal ErrorCategory = "internal"
)

// Scope is how far a failure reaches: one plugin call, one document, or the
// whole process.
type Scope int

const (
	ScopePlugin Scope = iota
	ScopeDocument
	ScopeProcess
)

func (s Scope) String() string {
	switch s {
	case ScopePlugin:
		return "plugin"
	case ScopeDocument:
		return "document"
	default:
		return "process"
	}
}

// Scope reports the reach of errors in category c.
func (c ErrorCategory) Scope() Scope {
	switch c {
	case CategoryPlugin:
		return ScopePlugin
	case CategoryValidation, CategoryNotFound, CategoryFileSystem, CategoryPipeline, CategoryTimeout:
		return ScopeDocument
	default:
		return ScopeProcess
	}
}

// ErrorContext carries structured fields that end up as log attributes.
type ErrorContext map[string]any

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// Document returns the document path attached with WithDocument.
func (c ErrorContext) Document() string {
	s, _ := c[keyDocument].(string)
	return s
}

func (c ErrorContext) with(key string, value any) ErrorContext {
	next := make(ErrorContext, len(c)+1)
	for k, v := range c {
		next[k] = v
	}
	next[key] = value
	return next
}
