package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ladderhq/ladder/internal/hierarchy"
)

// writeReport writes one JSON object per line, one line per outcome, so
// downstream tooling can grep or stream the run without parsing a
// document. The file is truncated on each run.
func writeReport(path string, res *hierarchy.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	enc := json.NewEncoder(f)
	for _, o := range res.Outcomes {
		if err := enc.Encode(o); err != nil {
			_ = f.Close()
			return fmt.Errorf("write report: %w", err)
		}
	}
	return f.Close()
}
