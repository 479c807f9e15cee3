// Package llm generates enhanced article bodies through chat completion APIs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMaxTokens caps the size of a generated article.
const DefaultMaxTokens = 4000

// ErrEmptyCompletion is returned when a backend answers without text.
var ErrEmptyCompletion = errors.New("empty completion")

// Request is one completion call.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Backend is a single completion API.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// statusError reads a bounded error body from a failed API response.
func statusError(backend string, resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("%s error %s: %s", backend, resp.Status, strings.TrimSpace(string(payload)))
}
