package main

// ScanConfig holds every knob for one run. It is resolved once at startup
// from flags, config file, and environment, then passed through the whole
// pipeline. Nothing reads global state after this point.
type ScanConfig struct {
	Root        string
	ExcludeDirs map[string]struct{} // exact directory names, case-sensitive
	IncludeExts map[string]struct{} // lower-cased, leading dot; empty = include all
	ExcludeExts map[string]struct{} // applied after inclusion
	Model       string
	Workers     int
	Verbose     bool
	Gitignore   bool
}

// FileResult is the outcome of counting one candidate file. Exactly one
// FileResult exists per candidate; a read failure sets Err and contributes
// zero tokens.
type FileResult struct {
	Path   string
	Tokens int
	Err    error
}

// Summary holds the aggregate produced by the dispatcher.
type Summary struct {
	TotalFiles  int // every result, success or failure
	FailedFiles int
	TotalTokens int
}
