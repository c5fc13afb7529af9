package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenizer lets tests drive both the exact and the degraded path
// without loading a real encoding.
type stubTokenizer struct {
	tokens int
	err    error
}

func (s *stubTokenizer) Encode(text string) (int, error) { return s.tokens, s.err }
func (s *stubTokenizer) Name() string                    { return "stub" }
func (s *stubTokenizer) Close()                          {}

func TestApproxTokensEmpty(t *testing.T) {
	assert.Equal(t, 0, approxTokens(""))
}

func TestApproxTokensFloor(t *testing.T) {
	// Any non-empty text counts as at least one token.
	assert.Equal(t, 1, approxTokens("a"))
	assert.Equal(t, 1, approxTokens(" "))
}

func TestApproxTokensHelloWorld(t *testing.T) {
	// 11 chars -> round(11/4.1) = 3; 2 words -> round(2*1.33) = 3.
	assert.Equal(t, 3, approxTokens("hello world"))
}

func TestApproxTokensMonotonicInChars(t *testing.T) {
	// Growing a single word never decreases the estimate.
	prev := 0
	word := "x"
	for i := 0; i < 200; i++ {
		got := approxTokens(word)
		require.GreaterOrEqual(t, got, prev, "estimate shrank at length %d", len(word))
		prev = got
		word += "x"
	}
}

func TestApproxTokensMonotonicInWords(t *testing.T) {
	shorter := strings.Repeat("ab ", 10)
	longer := strings.Repeat("ab ", 20)
	assert.GreaterOrEqual(t, approxTokens(longer), approxTokens(shorter))
}

func TestEncodingForModel(t *testing.T) {
	assert.Equal(t, "cl100k_base", encodingForModel("gpt-4o"))
	assert.Equal(t, "cl100k_base", encodingForModel("gpt-4"))
	assert.Equal(t, "cl100k_base", encodingForModel("GPT-3.5-turbo"))
	assert.Equal(t, "p50k_base", encodingForModel("text-davinci-003"))
	assert.Equal(t, "p50k_base", encodingForModel(""))
}

func TestCountTokensExact(t *testing.T) {
	tokens, method := countTokens(&stubTokenizer{tokens: 42}, "some text")
	assert.Equal(t, 42, tokens)
	assert.Equal(t, MethodExact, method)
}

func TestCountTokensDegradesPerFile(t *testing.T) {
	// An encode failure falls back to the heuristic for this text only.
	tokens, method := countTokens(&stubTokenizer{err: errors.New("boom")}, "hello world")
	assert.Equal(t, approxTokens("hello world"), tokens)
	assert.Equal(t, MethodApprox, method)
}

func TestCountTokensWithoutTokenizer(t *testing.T) {
	tokens, method := countTokens(nil, "hello world")
	assert.Equal(t, 3, tokens)
	assert.Equal(t, MethodApprox, method)

	tokens, method = countTokens(nil, "")
	assert.Equal(t, 0, tokens)
	assert.Equal(t, MethodApprox, method)
}

func TestNewTokenizerApprox(t *testing.T) {
	tk, err := newTokenizer("approx", "gpt-4o", "")
	require.NoError(t, err)
	assert.Nil(t, tk)
}

func TestNewTokenizerUnsupported(t *testing.T) {
	_, err := newTokenizer("sentencepiece", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported tokenizer")
}
