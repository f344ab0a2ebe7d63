package util

import "github.com/cockroachdb/errors"

// Assert panics with the given message if condition is false.
// This is intended for internal invariants and should not be used
// for user input validation.
func Assert(condition bool, message string) {
	if !condition {
		panic(errors.AssertionFailedf("%s", message))
	}
}

// Assertf is Assert with a formatted message.
func Assertf(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(errors.AssertionFailedf(format, args...))
	}
}
