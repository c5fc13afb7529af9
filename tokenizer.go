package main

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Tokenizer encodes text into model tokens. Encode reports failure
// explicitly so the caller can record the degraded method for that file
// instead of silently keeping a wrong count.
type Tokenizer interface {
	Encode(text string) (int, error)
	Name() string
	Close()
}

const (
	encodingGPT4   = "cl100k_base"
	encodingLegacy = "p50k_base"
	defaultHFModel = "gpt2"
)

// encodingForModel picks the tiktoken encoding profile, once per run,
// from the model hint: GPT-4/GPT-3.5 family maps to cl100k_base,
// everything else to p50k_base.
func encodingForModel(model string) string {
	m := strings.ToLower(model)
	if strings.Contains(m, "gpt-4") || strings.Contains(m, "gpt-3.5") {
		return encodingGPT4
	}
	return encodingLegacy
}

// --- Tiktoken backend ---

type tiktokenBackend struct {
	tke  *tiktoken.Tiktoken
	name string
}

func (b *tiktokenBackend) Encode(text string) (int, error) {
	if b.tke == nil {
		return 0, fmt.Errorf("tiktoken encoding not loaded")
	}
	return len(b.tke.EncodeOrdinary(text)), nil
}

func (b *tiktokenBackend) Name() string { return b.name }

func (b *tiktokenBackend) Close() {}

func loadTiktoken(model string) (Tokenizer, error) {
	name := encodingForModel(model)
	tke, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("loading tiktoken encoding %s: %w", name, err)
	}
	return &tiktokenBackend{tke: tke, name: "tiktoken/" + name}, nil
}

// --- HuggingFace backend (sugarme) ---

type hfBackend struct {
	htk  *hf.Tokenizer
	name string
}

func (b *hfBackend) Encode(text string) (int, error) {
	if b.htk == nil {
		return 0, fmt.Errorf("huggingface tokenizer not loaded")
	}
	en, err := b.htk.EncodeSingle(text)
	if err != nil {
		return 0, fmt.Errorf("encoding text: %w", err)
	}
	return len(en.Tokens), nil
}

func (b *hfBackend) Name() string { return b.name }

func (b *hfBackend) Close() {}

func loadHuggingFace(model, file string) (Tokenizer, error) {
	if file != "" {
		htk, err := pretrained.FromFile(file)
		if err != nil {
			return nil, fmt.Errorf("loading tokenizer from %s: %w", file, err)
		}
		return &hfBackend{htk: htk, name: "huggingface/" + file}, nil
	}
	if model == "" {
		model = defaultHFModel
	}
	// CachedPath downloads tokenizer.json from the Hub on first use.
	cached, err := hf.CachedPath(model, "tokenizer.json")
	if err != nil {
		return nil, fmt.Errorf("fetching tokenizer for model %s: %w", model, err)
	}
	htk, err := pretrained.FromFile(cached)
	if err != nil {
		return nil, fmt.Errorf("loading pretrained tokenizer for %s: %w", model, err)
	}
	return &hfBackend{htk: htk, name: "huggingface/" + model}, nil
}

// newTokenizer selects a backend from the flags. A nil Tokenizer with a
// nil error means approximate counting was requested outright.
func newTokenizer(backend, model, file string) (Tokenizer, error) {
	switch strings.ToLower(backend) {
	case "tiktoken":
		return loadTiktoken(model)
	case "huggingface":
		return loadHuggingFace(model, file)
	case "approx", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported tokenizer %q (use tiktoken, huggingface, or approx)", backend)
	}
}

// --- Fallback approximation ---

// approxTokens estimates a token count from character and word counts.
// Tuned for typical repo text (markdown and code): roughly 4.1 chars per
// token or 1.33 tokens per word, whichever yields more. Empty text is 0;
// any non-empty text counts as at least one token.
func approxTokens(text string) int {
	if text == "" {
		return 0
	}
	chars := utf8.RuneCountInString(text)
	words := len(strings.Fields(text))
	byChars := int(math.Round(float64(chars) / 4.1))
	if byChars < 1 {
		byChars = 1
	}
	byWords := int(math.Round(float64(words) * 1.33))
	if byWords < 1 {
		byWords = 1
	}
	if byWords > byChars {
		return byWords
	}
	return byChars
}

// countTokens produces the count for one text plus the method that
// actually ran. A failed exact encode degrades this record only; the run
// carries on.
func countTokens(tk Tokenizer, text string) (int, Method) {
	if tk != nil {
		if n, err := tk.Encode(text); err == nil {
			return n, MethodExact
		}
	}
	return approxTokens(text), MethodApprox
}
