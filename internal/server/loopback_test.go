package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/djx/internal/shared"
)

type waitResult struct {
	cb  Callback
	err error
}

// startWait runs WaitForCallback on a fresh goroutine and returns the bound
// address plus the eventual result.
func startWait(t *testing.T, ctx context.Context) (string, <-chan waitResult) {
	t.Helper()

	l := NewLoopback("127.0.0.1:0", shared.NewLogger(io.Discard))
	if err := l.Listen(); err != nil {
		t.Fatalf("failed to bind: %v", err)
	}

	results := make(chan waitResult, 1)
	go func() {
		cb, err := l.WaitForCallback(ctx)
		results <- waitResult{cb, err}
	}()

	return l.Addr(), results
}

func TestLoopbackWaitForCallback(t *testing.T) {
	t.Run("delivers redirect parameters and confirms", func(t *testing.T) {
		addr, results := startWait(t, context.Background())

		resp, err := http.Get("http://" + addr + "/callback?code=abc123&state=xyz789")
		if err != nil {
			t.Fatalf("redirect request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
			t.Errorf("expected an HTML confirmation page, got content type %q", ct)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("failed to read confirmation page: %v", err)
		}
		if !strings.Contains(string(body), "Authorization Complete") {
			t.Error("confirmation page missing completion message")
		}

		res := <-results
		if res.err != nil {
			t.Fatalf("wait failed: %v", res.err)
		}
		if res.cb.Code != "abc123" || res.cb.State != "xyz789" {
			t.Errorf("unexpected callback: %+v", res.cb)
		}
		if res.cb.Denied() {
			t.Error("callback should not be a denial")
		}
	})

	t.Run("captures platform error parameters", func(t *testing.T) {
		addr, results := startWait(t, context.Background())

		q := url.Values{}
		q.Set("error", "access_denied")
		q.Set("error_description", "The user denied the request")

		resp, err := http.Get("http://" + addr + "/callback?" + q.Encode())
		if err != nil {
			t.Fatalf("redirect request failed: %v", err)
		}
		resp.Body.Close()

		res := <-results
		if res.err != nil {
			t.Fatalf("wait failed: %v", res.err)
		}
		if !res.cb.Denied() {
			t.Fatal("expected a denial callback")
		}
		if res.cb.ErrorCode != "access_denied" {
			t.Errorf("expected error code access_denied, got %q", res.cb.ErrorCode)
		}
		if res.cb.ErrorDescription != "The user denied the request" {
			t.Errorf("unexpected description %q", res.cb.ErrorDescription)
		}
	})

	t.Run("releases the port after one callback", func(t *testing.T) {
		addr, results := startWait(t, context.Background())

		resp, err := http.Get("http://" + addr + "/callback?code=x")
		if err != nil {
			t.Fatalf("redirect request failed: %v", err)
		}
		resp.Body.Close()
		<-results

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			t.Fatalf("port should be free again: %v", err)
		}
		ln.Close()
	})

	t.Run("cancellation unblocks the accept", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		_, results := startWait(t, ctx)

		cancel()

		select {
		case res := <-results:
			if !errors.Is(res.err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", res.err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("wait did not unblock after cancellation")
		}
	})
}

func TestLoopbackListen(t *testing.T) {
	t.Run("occupied port is unavailable", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to occupy a port: %v", err)
		}
		defer ln.Close()

		l := NewLoopback(ln.Addr().String(), shared.NewLogger(io.Discard))
		if err := l.Listen(); !errors.Is(err, shared.ErrListenerUnavailable) {
			t.Errorf("expected ErrListenerUnavailable, got %v", err)
		}
	})
}

func TestParseRequestLine(t *testing.T) {
	tc := []struct {
		name    string
		line    string
		want    Callback
		wantErr bool
	}{
		{
			name: "full redirect",
			line: "GET /callback?code=abc&state=xyz HTTP/1.1\r\n",
			want: Callback{Code: "abc", State: "xyz"},
		},
		{
			name: "no query parameters",
			line: "GET /callback HTTP/1.1\r\n",
			want: Callback{},
		},
		{
			name: "denial redirect",
			line: "GET /callback?error=access_denied&error_description=nope HTTP/1.1\r\n",
			want: Callback{ErrorCode: "access_denied", ErrorDescription: "nope"},
		},
		{
			name:    "empty line",
			line:    "\r\n",
			wantErr: true,
		},
		{
			name:    "method only",
			line:    "GET\r\n",
			wantErr: true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRequestLine(tt.line)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrMissingCode) {
					t.Errorf("expected ErrMissingCode, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
