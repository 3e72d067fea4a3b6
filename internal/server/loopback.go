package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/djx/internal/shared"
)

// Callback carries the query parameters a platform appended to the redirect.
type Callback struct {
	Code             string
	State            string
	ErrorCode        string
	ErrorDescription string
}

// Denied reports whether the platform redirected with an explicit error
// instead of an authorization code.
func (c Callback) Denied() bool {
	return c.ErrorCode != ""
}

// Loopback accepts exactly one OAuth2 redirect on a fixed local port.
//
// It is not an HTTP server: it reads the request line of the single incoming
// request, answers with a static confirmation page, and releases the port. The fixed port doubles as the lock against concurrent
// authorization attempts for the same platform, so a second attempt fails
// at [Loopback.Listen].
type Loopback struct {
	addr      string
	ln        net.Listener
	closeOnce sync.Once
	logger    *log.Logger
}

// NewLoopback creates a listener for the given loopback address
// (e.g. "127.0.0.1:8888").
func NewLoopback(addr string, logger *log.Logger) *Loopback {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Loopback{addr: addr, logger: logger}
}

// Listen binds the port, wrapping [shared.ErrListenerUnavailable] when the
// bind fails. Callers treat that as "another authorization attempt already
// owns this platform's port".
func (l *Loopback) Listen() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrListenerUnavailable, l.addr, err)
	}

	l.ln = ln
	l.logger.Debug("callback listener bound", "addr", l.Addr())
	return nil
}

// Addr returns the bound address once listening, the configured address
// otherwise.
func (l *Loopback) Addr() string {
	if l.ln == nil {
		return l.addr
	}
	return l.ln.Addr().String()
}

// WaitForCallback blocks until the platform redirects the user's browser to
// the port, then parses the redirect's request line, serves the confirmation
// page, and shuts the listener down.
//
// There is no built-in deadline. Cancel ctx to give up waiting; cancellation
// closes the listener to unblock the accept and surfaces
// [shared.ErrTimeout].
func (l *Loopback) WaitForCallback(ctx context.Context) (Callback, error) {
	if l.ln == nil {
		if err := l.Listen(); err != nil {
			return Callback{}, err
		}
	}
	defer l.Close()

	accepted := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			l.Close()
		case <-accepted:
		}
	}()

	conn, err := l.ln.Accept()
	close(accepted)
	if err != nil {
		if ctx.Err() != nil {
			return Callback{}, fmt.Errorf("%w: gave up waiting for callback: %v", shared.ErrTimeout, ctx.Err())
		}
		return Callback{}, fmt.Errorf("failed to accept callback connection: %w", err)
	}
	defer conn.Close()

	responded := make(chan struct{})
	defer close(responded)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-responded:
		}
	}()

	// Only the request line matters; headers and body are never read.
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		if ctx.Err() != nil {
			return Callback{}, fmt.Errorf("%w: gave up waiting for callback: %v", shared.ErrTimeout, ctx.Err())
		}
		return Callback{}, fmt.Errorf("failed to read callback request: %w", err)
	}

	cb, err := parseRequestLine(line)
	if err != nil {
		return Callback{}, err
	}

	if err := writeConfirmation(conn); err != nil {
		l.logger.Warn("failed to write confirmation page", "error", err)
	}

	l.logger.Debug("callback received", "remote", conn.RemoteAddr().String())
	return cb, nil
}

// Close releases the port. Safe to call more than once.
func (l *Loopback) Close() {
	if l.ln == nil {
		return
	}
	l.closeOnce.Do(func() {
		if err := l.ln.Close(); err != nil {
			l.logger.Debug("failed to close callback listener", "error", err)
		}
	})
}

// parseRequestLine extracts the redirect parameters from an HTTP request line
// such as "GET /callback?code=abc&state=xyz HTTP/1.1".
func parseRequestLine(line string) (Callback, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) < 2 {
		return Callback{}, fmt.Errorf("%w: malformed request line %q", shared.ErrMissingCode, strings.TrimSpace(line))
	}

	target, err := url.Parse(fields[1])
	if err != nil {
		return Callback{}, fmt.Errorf("%w: unparseable request target %q", shared.ErrMissingCode, fields[1])
	}

	query := target.Query()
	return Callback{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		ErrorCode:        query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}, nil
}

const confirmationPage = `<!DOCTYPE html>
<html>
<head>
    <title>Authorization Complete</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #7D56F4; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
    <script>setTimeout(function() { window.close(); }, 3000);</script>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Complete</h1>
        <p>You can close this window and return to djx.</p>
    </div>
</body>
</html>
`

// writeConfirmation answers the browser with the static confirmation page.
// The page is served before the flow validates anything, the browser tab's
// job is done either way.
func writeConfirmation(conn net.Conn) error {
	resp := fmt.Sprintf(
		"HTTP/1.1 200 OK\r\nContent-Type: text/html; charset=utf-8\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s",
		len(confirmationPage), confirmationPage,
	)

	if _, err := conn.Write([]byte(resp)); err != nil {
		return fmt.Errorf("failed to write confirmation response: %w", err)
	}
	return nil
}
