package errors

const keyDocument = "document"

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a builder for a new error.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{category: category, message: message}}
}

// WrapError starts a builder for an error caused by err.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.err.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.with(key, value)
	return b
}

// WithDocument records the document path the error belongs to. It is
// included in the error string.
func (b *ErrorBuilder) WithDocument(path string) *ErrorBuilder {
	if path == "" {
		return b
	}
	return b.WithContext(keyDocument, path)
}

func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}

func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message)
}

func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message)
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// PipelineError creates a per-document pipeline error.
func PipelineError(message string) *ErrorBuilder {
	return NewError(CategoryPipeline, message)
}

func TimeoutError(message string) *ErrorBuilder {
	return NewError(CategoryTimeout, message)
}
