package mealplans

import "fmt"

// ValidationError means the client supplied a malformed or incomplete query.
// Handlers translate it to a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError means the meal plan (or a nested resource) does not exist.
// A plan id that fails integer parsing is also reported as not found rather
// than malformed, which callers may rely on.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func notFoundErrorf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ForbiddenError means the meal plan exists but is owned by a different user.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// UnexpectedError wraps persistence-layer failures not otherwise classified.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string { return "unexpected error: " + e.Err.Error() }

func (e *UnexpectedError) Unwrap() error { return e.Err }
