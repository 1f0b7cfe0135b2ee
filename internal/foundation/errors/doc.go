// Package errors provides the classified error primitives used across docenrich.
//
// Every error that crosses a package boundary carries a category. The
// category's Scope tells callers whether a failure stays with one plugin
// call, fails one document, or ends the process.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryFileSystem, "failed to read document").
//		WithDocument(path).
//		Build()
package errors
