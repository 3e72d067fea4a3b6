package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/djx/internal/platforms"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/tokens"
)

// Authorizer runs an interactive authorization for a platform. [*Flow] is
// the production implementation.
type Authorizer interface {
	Authorize(ctx context.Context, provider platforms.Provider) (tokens.Record, error)
}

// Manager wraps every authenticated operation with the token lifecycle:
// load the stored record, check expiry, refresh or reauthorize, persist.
type Manager struct {
	store     *tokens.Store
	exchanger *Exchanger
	flow      Authorizer
	logger    *log.Logger
	now       func() time.Time
}

// ManagerOpts configures optional [Manager] collaborators. Zero values
// select the production defaults.
type ManagerOpts struct {
	Exchanger *Exchanger
	Logger    *log.Logger
	Now       func() time.Time
}

// NewManager creates a Manager over the given store and interactive flow.
func NewManager(store *tokens.Store, flow Authorizer, opts ManagerOpts) *Manager {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Exchanger == nil {
		opts.Exchanger = NewExchanger(nil, opts.Logger)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Manager{
		store:     store,
		exchanger: opts.Exchanger,
		flow:      flow,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// EnsureValidToken returns an access token ready for an API call against the
// platform. A platform never authorized triggers the interactive flow; a
// stale token is refreshed and the new record persisted.
//
// A call that finds a valid stored token performs no network requests, so
// back-to-back calls are free. A refresh failure leaves the stored record in
// place; the caller is told to reauthorize.
func (m *Manager) EnsureValidToken(ctx context.Context, provider platforms.Provider) (string, error) {
	storage, err := m.store.Load()
	if err != nil {
		return "", err
	}

	rec, ok := storage.Lookup(provider.Name)
	if !ok {
		m.logger.Info("no stored token, starting authorization", "platform", provider.Name)
		rec, err = m.flow.Authorize(ctx, provider)
		if err != nil {
			return "", err
		}
		return rec.AccessToken, nil
	}

	if !rec.IsExpired(m.now()) {
		return rec.AccessToken, nil
	}

	if rec.RefreshToken == "" {
		return "", fmt.Errorf("%w: %s token expired, run 'djx auth %s'", shared.ErrNoRefreshToken, provider.Name, provider.Name)
	}

	m.logger.Info("access token expired, refreshing", "platform", provider.Name)

	resp, err := m.exchanger.Refresh(ctx, provider, rec.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("%w, run 'djx auth %s' to reauthorize", err, provider.Name)
	}

	refresh := resp.RefreshToken
	if refresh == "" {
		// Platform did not rotate the refresh token; keep the old one.
		refresh = rec.RefreshToken
	}

	next := tokens.NewRecord(resp.AccessToken, refresh, resp.ExpiresIn, m.now())
	storage.Set(provider.Name, next)
	if err := m.store.Save(storage); err != nil {
		return "", err
	}

	m.logger.Info("token refreshed", "platform", provider.Name)
	return next.AccessToken, nil
}

// Status describes a platform's stored authorization at the manager's
// current time. It never touches the network.
type Status struct {
	Platform     string
	Authorized   bool
	CreatedAt    time.Time
	ExpiresIn    time.Duration
	HasExpiry    bool
	NeedsRefresh bool
	Refreshable  bool
}

// Status inspects the stored record for the platform.
func (m *Manager) Status(provider platforms.Provider) (Status, error) {
	storage, err := m.store.Load()
	if err != nil {
		return Status{}, err
	}

	st := Status{Platform: provider.Name}

	rec, ok := storage.Lookup(provider.Name)
	if !ok {
		return st, nil
	}

	now := m.now()
	st.Authorized = true
	st.CreatedAt = rec.CreatedAt
	st.NeedsRefresh = rec.IsExpired(now)
	st.Refreshable = rec.RefreshToken != ""
	if remaining, ok := rec.TimeUntilExpiry(now); ok {
		st.ExpiresIn = remaining
		st.HasExpiry = true
	}

	return st, nil
}

// TokenPath returns the file the manager reads records from, for display.
func (m *Manager) TokenPath() string {
	return m.store.Path()
}
