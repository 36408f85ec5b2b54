package main

import (
	"fmt"
	"os"
	"sync"
)

const (
	// batchSize groups candidate paths per dispatch round. A tuning knob
	// only; totals are identical for any batch size.
	batchSize = 100

	// progressEvery is the verbose progress cadence, in processed files.
	progressEvery = 1000
)

// countFile reads one file and counts its tokens. Tokenization treats the
// raw bytes as a string, so undecodable sequences never fail the worker;
// only I/O errors produce a failed result.
func countFile(path string, tok Tokenizer) FileResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	return FileResult{Path: path, Tokens: tok.CountTokens(string(content))}
}

// tokenWorker drains batches of candidate paths from jobs and emits one
// result per file. Workers share nothing but the channels; each file's
// count is an independent computation.
func tokenWorker(tok Tokenizer, jobs <-chan []string, results chan<- FileResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for batch := range jobs {
		for _, path := range batch {
			results <- countFile(path, tok)
		}
	}
}

// runPool distributes candidates across a fixed pool of workers and
// aggregates their results on the calling goroutine, which is the only
// writer to the running totals. Per-file failures are reported to stderr
// and contribute zero tokens; they never abort the run. When verbose, a
// progress line is printed every progressEvery processed files.
func runPool(candidates []string, tok Tokenizer, workers int, verbose bool) ([]FileResult, Summary) {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan []string, workers)
	results := make(chan FileResult, batchSize)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go tokenWorker(tok, jobs, results, &wg)
	}

	go func() {
		for start := 0; start < len(candidates); start += batchSize {
			end := start + batchSize
			if end > len(candidates) {
				end = len(candidates)
			}
			jobs <- candidates[start:end]
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]FileResult, 0, len(candidates))
	var sum Summary
	for res := range results {
		sum.TotalFiles++
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error processing %s: %v\n", res.Path, res.Err)
			sum.FailedFiles++
		} else {
			sum.TotalTokens += res.Tokens
		}
		collected = append(collected, res)

		if verbose && sum.TotalFiles%progressEvery == 0 {
			fmt.Printf("Processed %d/%d files. Current token count: %d\n", sum.TotalFiles, len(candidates), sum.TotalTokens)
		}
	}

	return collected, sum
}
