// Package errors provides the classified error type used across folio.
//
// A ClassifiedError carries a category (what kind of failure), a severity and
// a small context map. Packages wrap with fmt.Errorf internally and classify at
// their boundary; the HTTP and CLI adapters turn a classification into a status
// code or an exit code.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryNotFound, "post not found").
//		WithContext("slug", slug).
//		Build()
package errors
