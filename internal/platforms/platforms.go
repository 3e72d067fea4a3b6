// package platforms defines the OAuth2 surface of each supported mix platform
package platforms

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/desertthunder/djx/internal/shared"
)

// Platform names, used as registry keys, token storage keys, and CLI arguments.
const (
	Mixcloud   = "mixcloud"
	Soundcloud = "soundcloud"
)

const (
	mixcloudAuthURL  = "https://www.mixcloud.com/oauth/authorize"
	mixcloudTokenURL = "https://www.mixcloud.com/oauth/access_token"
	mixcloudRedirect = "http://localhost:8888/callback"

	soundcloudAuthURL  = "https://secure.soundcloud.com/authorize"
	soundcloudTokenURL = "https://secure.soundcloud.com/oauth/token"
	soundcloudRedirect = "http://localhost:8889/callback"
	soundcloudScope    = "non-expiring"
)

// Provider carries everything the authorization flow needs to talk to one
// platform: endpoints, the fixed redirect target, the flow shape, and the
// client credentials injected from runtime configuration.
type Provider struct {
	Name         string
	AuthorizeURL string
	TokenURL     string
	RedirectURI  string
	RequiresPKCE bool
	Scope        string
	ClientID     string
	ClientSecret string
}

// NewMixcloud builds the Mixcloud provider. Mixcloud runs the plain
// authorization code flow without PKCE and reports no token lifetime.
func NewMixcloud(creds shared.PlatformCredentials) Provider {
	return Provider{
		Name:         Mixcloud,
		AuthorizeURL: mixcloudAuthURL,
		TokenURL:     mixcloudTokenURL,
		RedirectURI:  mixcloudRedirect,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
	}
}

// NewSoundcloud builds the SoundCloud provider. SoundCloud requires PKCE and
// issues expiring tokens with refresh tokens.
func NewSoundcloud(creds shared.PlatformCredentials) Provider {
	return Provider{
		Name:         Soundcloud,
		AuthorizeURL: soundcloudAuthURL,
		TokenURL:     soundcloudTokenURL,
		RedirectURI:  soundcloudRedirect,
		RequiresPKCE: true,
		Scope:        soundcloudScope,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
	}
}

// CallbackAddr returns the loopback address the callback listener binds,
// derived from the provider's fixed redirect URI.
func (p Provider) CallbackAddr() (string, error) {
	u, err := url.Parse(p.RedirectURI)
	if err != nil {
		return "", fmt.Errorf("%w: bad redirect URI %q: %v", shared.ErrInvalidConfig, p.RedirectURI, err)
	}

	port := u.Port()
	if port == "" {
		return "", fmt.Errorf("%w: redirect URI %q has no port", shared.ErrInvalidConfig, p.RedirectURI)
	}

	return net.JoinHostPort("127.0.0.1", port), nil
}

// ValidateCredentials checks that the provider has a usable client id and
// secret configured.
func (p Provider) ValidateCredentials() error {
	if p.ClientID == "" || p.ClientSecret == "" {
		return fmt.Errorf("%w: set client_id and client_secret for %s in config.toml", shared.ErrMissingCredentials, p.Name)
	}
	return nil
}

// Registry resolves provider definitions by name.
type Registry struct {
	providers map[string]Provider
	order     []string
}

// NewRegistry builds the provider set from runtime configuration.
func NewRegistry(config *shared.Config) (*Registry, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: nil config", shared.ErrMissingConfig)
	}

	return newRegistry(
		NewMixcloud(config.Credentials.Mixcloud),
		NewSoundcloud(config.Credentials.Soundcloud),
	)
}

// newRegistry indexes providers and checks that each one owns a distinct
// callback address. The port doubles as the per-provider authorization lock,
// so two providers must never share one.
func newRegistry(providers ...Provider) (*Registry, error) {
	reg := &Registry{providers: make(map[string]Provider, len(providers))}

	claimed := map[string]string{}
	for _, p := range providers {
		addr, err := p.CallbackAddr()
		if err != nil {
			return nil, err
		}

		if other, ok := claimed[addr]; ok {
			return nil, fmt.Errorf("%w: %s and %s share callback address %s", shared.ErrInvalidConfig, other, p.Name, addr)
		}
		claimed[addr] = p.Name

		reg.providers[p.Name] = p
		reg.order = append(reg.order, p.Name)
	}

	return reg, nil
}

// Lookup returns the provider registered under name (case-insensitive).
func (r *Registry) Lookup(name string) (Provider, error) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Provider{}, fmt.Errorf("%w: %s", shared.ErrUnknownPlatform, name)
	}
	return p, nil
}

// Names lists registered provider names in definition order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
