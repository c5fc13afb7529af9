package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// topFileCount is how many records the console summary lists.
const topFileCount = 10

// renderSummary formats the console summary. Returned as a string so the
// same text can land on the clipboard.
func renderSummary(r Report, extensions []string, tokenizerAvailable bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nToken Counter — %s\n", r.GeneratedAt)
	fmt.Fprintf(&b, "Root: %s\n", r.Root)
	fmt.Fprintf(&b, "Model hint: %s (method=%s)\n", r.ModelHint, r.Method)
	if len(extensions) == 0 {
		b.WriteString("Included extensions: all\n")
	} else {
		fmt.Fprintf(&b, "Included extensions: %s\n", strings.Join(extensions, ", "))
	}
	fmt.Fprintf(&b, "Files counted: %d\n", r.FilesCounted)
	b.WriteString(strings.Repeat("-", 70))
	b.WriteString("\n")

	top := r.Files
	if len(top) > topFileCount {
		top = top[:topFileCount]
	}
	for _, f := range top {
		method := string(f.Method)
		if len(method) > 5 {
			method = method[:5]
		}
		fmt.Fprintf(&b, "%8d  [%s]  %s\n", f.Tokens, method, f.Path)
	}
	if len(r.Files) > topFileCount {
		fmt.Fprintf(&b, "... (+%d more)\n", len(r.Files)-topFileCount)
	}
	b.WriteString(strings.Repeat("-", 70))
	b.WriteString("\n")
	fmt.Fprintf(&b, "TOTAL TOKENS ≈ %d\n", r.TotalTokens)
	if !tokenizerAvailable {
		b.WriteString("Note: counts are approximate. Rerun with --tokenizer tiktoken for exact\n")
		b.WriteString("      counts on GPT-family models (needs access to the encoding files).\n")
	}
	return b.String()
}

// writeJSONReport writes the full report as one JSON document,
// overwriting any existing file at path.
func writeJSONReport(r Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeCSVReport writes a header row plus one row per record, overwriting
// any existing file at path.
func writeCSVReport(r Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"path", "tokens", "method", "chars", "language"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range r.Files {
		row := []string{rec.Path, strconv.Itoa(rec.Tokens), string(rec.Method), strconv.Itoa(rec.Chars), rec.Language}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", rec.Path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
