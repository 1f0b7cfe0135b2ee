package errors

import (
	stderrors "errors"
	"fmt"
)

// ClassifiedError is an error with a category and structured context.
type ClassifiedError struct {
	category ErrorCategory
	message  string
	cause    error
	context  ErrorContext
}

func (e *ClassifiedError) Error() string {
	prefix := string(e.category)
	if doc := e.context.Document(); doc != "" {
		prefix += " " + doc
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", prefix, e.message)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }

func (e *ClassifiedError) Message() string { return e.message }

func (e *ClassifiedError) Cause() error { return e.cause }

func (e *ClassifiedError) Context() ErrorContext { return e.context }

// Scope is shorthand for e.Category().Scope().
func (e *ClassifiedError) Scope() Scope { return e.category.Scope() }

// WithContext returns a copy of e with key set.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	cp := *e
	cp.context = e.context.with(key, value)
	return &cp
}

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

// AsClassified returns the first ClassifiedError in the chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory reports whether the first classified error in the chain is in category.
func HasCategory(err error, category ErrorCategory) bool {
	classified, ok := AsClassified(err)
	return ok && classified.category == category
}

// ScopeOf returns the scope of err. Unclassified errors reach the process.
func ScopeOf(err error) Scope {
	if classified, ok := AsClassified(err); ok {
		return classified.Scope()
	}
	return ScopeProcess
}

// Recoverable reports whether a batch may continue past err.
func Recoverable(err error) bool {
	return err == nil || ScopeOf(err) < ScopeProcess
}
