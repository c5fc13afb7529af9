package main

// Method identifies which estimator produced a token count.
type Method string

const (
	MethodExact  Method = "exact"
	MethodApprox Method = "approx"
)

// FileRecord holds the counting result for a single file.
type FileRecord struct {
	Path     string `json:"path"`
	Tokens   int    `json:"tokens"`
	Method   Method `json:"method"`
	Chars    int    `json:"chars"`
	Language string `json:"language,omitempty"`
}

// Report is the full result of one run, serialized as-is by the JSON sink.
// Files are sorted by token count descending; ties keep discovery order.
type Report struct {
	GeneratedAt  string       `json:"generated_at"`
	Root         string       `json:"root"`
	ModelHint    string       `json:"model_hint"`
	Method       Method       `json:"method"`
	TotalTokens  int          `json:"total_tokens"`
	FilesCounted int          `json:"files_counted"`
	Files        []FileRecord `json:"files"`
}

// fileSource is one candidate for estimation: a path on disk, or content
// that was already fetched (web pages).
type fileSource struct {
	Path    string
	Content []byte // nil means read from disk
}
