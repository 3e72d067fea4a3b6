// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/djx/internal/platforms"
	"github.com/desertthunder/djx/internal/tokens"
)

// MockAuthorizer is a test double for [auth.Authorizer]. It records how many
// times it ran and returns the configured record or error.
type MockAuthorizer struct {
	Record tokens.Record
	Err    error
	Calls  int
}

func (m *MockAuthorizer) Authorize(ctx context.Context, provider platforms.Provider) (tokens.Record, error) {
	m.Calls++
	if m.Err != nil {
		return tokens.Record{}, m.Err
	}
	return m.Record, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// CountingTransport counts requests before delegating, so tests can assert
// that an operation made zero network calls.
type CountingTransport struct {
	Transport http.RoundTripper
	count     atomic.Int64
}

func (c *CountingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.count.Add(1)
	rt := c.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	return rt.RoundTrip(req)
}

// Count returns how many requests passed through.
func (c *CountingTransport) Count() int {
	return int(c.count.Load())
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileAbsent(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
