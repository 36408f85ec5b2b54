package main

import (
	"fmt"
	"os"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Tokenizer is an interface for different tokenizer implementations.
type Tokenizer interface {
	CountTokens(text string) int
	Close()
}

const (
	defaultModel     = "gpt-4o"
	fallbackEncoding = "cl100k_base"
	defaultHFModel   = "gpt2"
)

// --- Tiktoken Wrapper ---

type TiktokenWrapper struct {
	ttk *tiktoken.Tiktoken
}

func (w *TiktokenWrapper) CountTokens(text string) int {
	if w.ttk == nil {
		return 0
	}
	return len(w.ttk.EncodeOrdinary(text))
}

func (w *TiktokenWrapper) Close() {
	// No explicit close needed for tiktoken-go
}

// --- HuggingFace (sugarme) Wrapper ---

type HFTokenizerWrapper struct {
	htk *hf.Tokenizer
}

func (w *HFTokenizerWrapper) CountTokens(text string) int {
	if w.htk == nil {
		return 0
	}
	en, err := w.htk.EncodeSingle(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: HF tokenizer failed to encode text: %v\n", err)
		return 0
	}
	return len(en.Tokens)
}

func (w *HFTokenizerWrapper) Close() {
	// sugarme/tokenizer has no explicit Close/Free method
}

// --- Tokenizer Loading Logic ---

// resolveTokenizer returns a tokenizer for the configured backend and model.
func resolveTokenizer(backend, model, tokenizerFile string) (Tokenizer, error) {
	switch strings.ToLower(backend) {
	case "tiktoken":
		return loadTiktoken(model)
	case "huggingface":
		return loadHuggingFace(model, tokenizerFile)
	default:
		return nil, fmt.Errorf("unsupported tokenizer backend: %s (use 'tiktoken' or 'huggingface')", backend)
	}
}

// loadTiktoken resolves a model name to its encoding. An unknown model is
// not an error: the run proceeds on the fallback encoding.
func loadTiktoken(model string) (Tokenizer, error) {
	if model == "" {
		model = defaultModel
	}

	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Model '%s' not found. Using '%s' encoding.\n", model, fallbackEncoding)
		tke, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load fallback encoding '%s': %w", fallbackEncoding, err)
		}
	}
	return &TiktokenWrapper{ttk: tke}, nil
}

func loadHuggingFace(model, tokenizerFile string) (Tokenizer, error) {
	if tokenizerFile != "" {
		ttk, err := pretrained.FromFile(tokenizerFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer from file %s: %w", tokenizerFile, err)
		}
		return &HFTokenizerWrapper{htk: ttk}, nil
	}

	if model == "" {
		model = defaultHFModel
	}
	fmt.Fprintf(os.Stderr, "Loading HuggingFace tokenizer for model: %s (this may download files)\n", model)

	// sugarme/tokenizer uses CachedPath to download/find the tokenizer.json
	configFilePath, err := hf.CachedPath(model, "tokenizer.json")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache path for model %s: %w", model, err)
	}

	ttk, err := pretrained.FromFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pretrained tokenizer for model %s (from %s): %w", model, configFilePath, err)
	}
	return &HFTokenizerWrapper{htk: ttk}, nil
}
