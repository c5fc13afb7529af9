package main

import (
	"sort"
	"time"
)

// buildReport aggregates per-file records into the final report. Records
// arrive in discovery order; the stable sort keeps that order for equal
// token counts. No record is dropped or deduplicated.
func buildReport(root, modelHint string, method Method, records []FileRecord) Report {
	total := 0
	for _, r := range records {
		total += r.Tokens
	}

	sorted := make([]FileRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tokens > sorted[j].Tokens
	})

	return Report{
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Root:         root,
		ModelHint:    modelHint,
		Method:       method,
		TotalTokens:  total,
		FilesCounted: len(sorted),
		Files:        sorted,
	}
}
