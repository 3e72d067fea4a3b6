package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/djx/internal/auth"
	"github.com/desertthunder/djx/internal/platforms"
)

var _ list.Item = platformItem{}

// platformItem pairs a [platforms.Provider] with its stored authorization
// state to implement [list.Item].
type platformItem struct {
	provider platforms.Provider
	status   auth.Status
}

func (i platformItem) FilterValue() string { return i.provider.Name }
func (i platformItem) Title() string       { return displayName(i.provider.Name) }
func (i platformItem) Description() string {
	st := i.status
	if !st.Authorized {
		return "not authorized"
	}
	if st.NeedsRefresh {
		if st.Refreshable {
			return "expired • refreshes on next use"
		}
		return "expired • reauthorization required"
	}
	if st.HasExpiry {
		return fmt.Sprintf("authorized • expires in %s", formatRemaining(st.ExpiresIn))
	}
	return "authorized • never expires"
}

func displayName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func formatRemaining(d time.Duration) string {
	if d < time.Minute {
		return "under a minute"
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
