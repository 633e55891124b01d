// Package errors provides structured error types for better observability
// and programmatic error handling across the installer.
//
// Example usage:
//
//	err := errors.Wrap(
//	    errors.ErrCodeStepFatal,
//	    "failed to initialize data store",
//	    cause,
//	)
package errors
