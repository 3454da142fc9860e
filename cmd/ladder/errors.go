package main

import (
	"fmt"
	"os"
)

// FatalError prints an error message to stderr and exits with code 1.
//
// Usage:
//
//	FatalError("failed to load template: %v", err)
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// FatalErrorWithHint prints an error message with a helpful hint to stderr
// and exits with code 1.
//
// Usage:
//
//	FatalErrorWithHint("no parent query configured",
//	    "Pass --jql or set sync.jql with 'ladder config set'")
func FatalErrorWithHint(message, hint string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	os.Exit(1)
}

// WarnError prints a warning message to stderr without exiting.
//
// Usage:
//
//	WarnError("failed to write report: %v", err)
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}
