package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// outputJSON marshals v to stdout as indented JSON.
// Used by all commands when --json is set.
func outputJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, `{"error": "failed to encode JSON output"}`+"\n")
		os.Exit(1)
	}
}

// outputJSONError writes a structured error to stderr and exits with code 1.
// The code field gives scripts something stable to match on.
func outputJSONError(err error, code string) {
	payload := map[string]string{
		"error": err.Error(),
		"code":  code,
	}
	enc := json.NewEncoder(os.Stderr)
	if encErr := enc.Encode(payload); encErr != nil {
		fmt.Fprintf(os.Stderr, `{"error": %q}`+"\n", err.Error())
	}
	os.Exit(1)
}
