package platforms

import (
	"errors"
	"testing"

	"github.com/desertthunder/djx/internal/shared"
)

func testConfig() *shared.Config {
	return &shared.Config{
		Credentials: shared.CredentialsConfig{
			Mixcloud:   shared.PlatformCredentials{ClientID: "mx_id", ClientSecret: "mx_secret"},
			Soundcloud: shared.PlatformCredentials{ClientID: "sc_id", ClientSecret: "sc_secret"},
		},
	}
}

func TestNewRegistry(t *testing.T) {
	t.Run("registers both platforms", func(t *testing.T) {
		reg, err := NewRegistry(testConfig())
		if err != nil {
			t.Fatalf("failed to build registry: %v", err)
		}

		names := reg.Names()
		if len(names) != 2 || names[0] != Mixcloud || names[1] != Soundcloud {
			t.Errorf("unexpected provider names: %v", names)
		}
	})

	t.Run("nil config", func(t *testing.T) {
		if _, err := NewRegistry(nil); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("rejects shared callback ports", func(t *testing.T) {
		a := NewMixcloud(shared.PlatformCredentials{})
		b := NewSoundcloud(shared.PlatformCredentials{})
		b.RedirectURI = a.RedirectURI

		if _, err := newRegistry(a, b); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestRegistryLookup(t *testing.T) {
	reg, err := NewRegistry(testConfig())
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	t.Run("resolves by name", func(t *testing.T) {
		p, err := reg.Lookup("soundcloud")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}

		if !p.RequiresPKCE {
			t.Error("soundcloud should require PKCE")
		}
		if p.Scope != "non-expiring" {
			t.Errorf("expected scope non-expiring, got %q", p.Scope)
		}
		if p.ClientID != "sc_id" {
			t.Errorf("expected configured client id, got %q", p.ClientID)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		p, err := reg.Lookup(" Mixcloud ")
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}

		if p.RequiresPKCE {
			t.Error("mixcloud should not require PKCE")
		}
		if p.Scope != "" {
			t.Errorf("mixcloud should have no scope, got %q", p.Scope)
		}
	})

	t.Run("unknown platform", func(t *testing.T) {
		if _, err := reg.Lookup("bandcamp"); !errors.Is(err, shared.ErrUnknownPlatform) {
			t.Errorf("expected ErrUnknownPlatform, got %v", err)
		}
	})
}

func TestProviderCallbackAddr(t *testing.T) {
	tc := []struct {
		name     string
		provider Provider
		want     string
		wantErr  bool
	}{
		{
			name:     "mixcloud reserves 8888",
			provider: NewMixcloud(shared.PlatformCredentials{}),
			want:     "127.0.0.1:8888",
		},
		{
			name:     "soundcloud reserves 8889",
			provider: NewSoundcloud(shared.PlatformCredentials{}),
			want:     "127.0.0.1:8889",
		},
		{
			name:     "redirect without port",
			provider: Provider{Name: "broken", RedirectURI: "http://localhost/callback"},
			wantErr:  true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := tt.provider.CallbackAddr()
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if addr != tt.want {
				t.Errorf("expected %s, got %s", tt.want, addr)
			}
		})
	}
}

func TestProviderValidateCredentials(t *testing.T) {
	p := NewMixcloud(shared.PlatformCredentials{ClientID: "id", ClientSecret: "secret"})
	if err := p.ValidateCredentials(); err != nil {
		t.Errorf("complete credentials should validate: %v", err)
	}

	p = NewMixcloud(shared.PlatformCredentials{ClientID: "id"})
	if err := p.ValidateCredentials(); !errors.Is(err, shared.ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}
