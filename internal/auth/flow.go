package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/djx/internal/platforms"
	"github.com/desertthunder/djx/internal/server"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/tokens"
)

// Flow runs one interactive authorization against a platform, from opening
// the consent page to persisting the issued token record.
type Flow struct {
	store     *tokens.Store
	exchanger *Exchanger
	openURL   func(string) error
	output    io.Writer
	logger    *log.Logger
	now       func() time.Time
}

// FlowOpts configures optional [Flow] collaborators. Zero values select the
// production defaults.
type FlowOpts struct {
	Exchanger *Exchanger
	OpenURL   func(string) error // defaults to [shared.OpenBrowser]
	Output    io.Writer          // defaults to [os.Stdout]
	Logger    *log.Logger
	Now       func() time.Time
}

// NewFlow creates a Flow persisting into the given store.
func NewFlow(store *tokens.Store, opts FlowOpts) *Flow {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Exchanger == nil {
		opts.Exchanger = NewExchanger(nil, opts.Logger)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Flow{
		store:     store,
		exchanger: opts.Exchanger,
		openURL:   opts.OpenURL,
		output:    opts.Output,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// Authorize walks the authorization code flow for the platform and persists
// the resulting record, leaving other platforms' records untouched. Nothing
// is persisted unless every step succeeds.
//
// The wait for the browser callback has no deadline of its own; bound it
// through ctx.
func (f *Flow) Authorize(ctx context.Context, provider platforms.Provider) (tokens.Record, error) {
	if err := provider.ValidateCredentials(); err != nil {
		return tokens.Record{}, err
	}

	logger := shared.WithLogger(f.logger, "platform", provider.Name, "attempt", shared.GenerateID())

	addr, err := provider.CallbackAddr()
	if err != nil {
		return tokens.Record{}, err
	}

	var pkce PKCE
	if provider.RequiresPKCE {
		pkce = GeneratePKCE()
	}

	state, err := shared.GenerateState()
	if err != nil {
		return tokens.Record{}, err
	}

	// Bind before opening the browser so a concurrent attempt fails here
	// instead of stealing the redirect.
	listener := server.NewLoopback(addr, logger)
	if err := listener.Listen(); err != nil {
		return tokens.Record{}, err
	}
	defer listener.Close()

	f.present(provider, authorizeURL(provider, state, pkce.Challenge))
	logger.Info("waiting for browser authorization", "addr", addr)

	cb, err := listener.WaitForCallback(ctx)
	if err != nil {
		return tokens.Record{}, err
	}

	if provider.RequiresPKCE {
		if subtle.ConstantTimeCompare([]byte(cb.State), []byte(state)) != 1 {
			return tokens.Record{}, fmt.Errorf("%w: callback state does not match this attempt", shared.ErrStateMismatch)
		}
	}

	if cb.Denied() {
		return tokens.Record{}, fmt.Errorf("%w: %s: %s", shared.ErrMissingCode, cb.ErrorCode, cb.ErrorDescription)
	}
	if cb.Code == "" {
		return tokens.Record{}, fmt.Errorf("%w: redirect carried no code parameter", shared.ErrMissingCode)
	}

	resp, err := f.exchanger.ExchangeCode(ctx, provider, cb.Code, pkce.Verifier)
	if err != nil {
		return tokens.Record{}, err
	}

	rec := tokens.NewRecord(resp.AccessToken, resp.RefreshToken, resp.ExpiresIn, f.now())
	if err := f.persist(provider.Name, rec); err != nil {
		return tokens.Record{}, err
	}

	logger.Info("authorization complete")
	return rec, nil
}

// present prints the consent URL and fires the browser opener. Open failures
// are only logged; the printed URL keeps the flow usable.
func (f *Flow) present(provider platforms.Provider, authURL string) {
	fmt.Fprintf(f.output, "Opening your browser to authorize %s.\nIf nothing opens, visit:\n\n  %s\n\n", provider.Name, authURL)

	if err := f.openURL(authURL); err != nil {
		f.logger.Warn("failed to open browser", "error", err)
	}
}

// persist merges the record into the token file, preserving records stored
// for other platforms.
func (f *Flow) persist(platform string, rec tokens.Record) error {
	storage, err := f.store.Load()
	if err != nil {
		return err
	}

	storage.Set(platform, rec)
	return f.store.Save(storage)
}

// authorizeURL builds the consent page URL. Every attempt carries a state
// nonce; response_type and the challenge parameters ride along only for PKCE
// platforms.
func authorizeURL(provider platforms.Provider, state, challenge string) string {
	q := url.Values{}
	q.Set("client_id", provider.ClientID)
	q.Set("redirect_uri", provider.RedirectURI)
	if provider.RequiresPKCE {
		q.Set("response_type", "code")
		q.Set("code_challenge", challenge)
		q.Set("code_challenge_method", "S256")
	}
	q.Set("state", state)
	if provider.Scope != "" {
		q.Set("scope", provider.Scope)
	}

	return provider.AuthorizeURL + "?" + q.Encode()
}
