package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/djx/internal/auth"
	"github.com/urfave/cli/v3"
)

// statusDoc is the JSON shape of one platform's authorization state.
type statusDoc struct {
	Platform         string `json:"platform"`
	Authorized       bool   `json:"authorized"`
	CreatedAt        string `json:"created_at,omitempty"`
	ExpiresInSeconds *int64 `json:"expires_in_seconds,omitempty"`
	NeedsRefresh     bool   `json:"needs_refresh"`
	Refreshable      bool   `json:"refreshable"`
}

func newStatusDoc(st auth.Status) statusDoc {
	doc := statusDoc{
		Platform:     st.Platform,
		Authorized:   st.Authorized,
		NeedsRefresh: st.NeedsRefresh,
		Refreshable:  st.Refreshable,
	}
	if st.Authorized {
		doc.CreatedAt = st.CreatedAt.Format(time.RFC3339)
	}
	if st.HasExpiry {
		seconds := int64(st.ExpiresIn / time.Second)
		doc.ExpiresInSeconds = &seconds
	}
	return doc
}

// Status reports stored authorization for one platform or all of them.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	d, err := r.buildDeps(cmd)
	if err != nil {
		return err
	}

	names := d.registry.Names()
	if platform := cmd.StringArg("platform"); platform != "" {
		provider, err := d.registry.Lookup(platform)
		if err != nil {
			return err
		}
		names = []string{provider.Name}
	}

	statuses := make([]auth.Status, 0, len(names))
	for _, name := range names {
		provider, err := d.registry.Lookup(name)
		if err != nil {
			return err
		}
		st, err := d.manager.Status(provider)
		if err != nil {
			return err
		}
		statuses = append(statuses, st)
	}

	if cmd.Bool("json") {
		docs := make([]statusDoc, 0, len(statuses))
		for _, st := range statuses {
			docs = append(docs, newStatusDoc(st))
		}
		return r.writeJSON(docs, true)
	}

	r.writePlainHeader("Authorization Status")
	for _, st := range statuses {
		r.renderStatus(st)
	}
	r.writePlain("\nToken file: %s\n", d.manager.TokenPath())
	return nil
}

func (r *Runner) renderStatus(st auth.Status) {
	if !st.Authorized {
		r.writePlain("✗ %s: not authorized\n", st.Platform)
		r.writePlain("  → run 'djx auth %s'\n", st.Platform)
		return
	}

	switch {
	case st.NeedsRefresh && st.Refreshable:
		r.writePlain("⚠ %s: expired, refreshes on next use\n", st.Platform)
	case st.NeedsRefresh:
		r.writePlain("✗ %s: expired\n", st.Platform)
		r.writePlain("  → run 'djx auth %s' to reauthorize\n", st.Platform)
	case st.HasExpiry:
		r.writePlain("✓ %s: authorized, expires in %s\n", st.Platform, formatExpiry(st.ExpiresIn))
	default:
		r.writePlain("✓ %s: authorized, never expires\n", st.Platform)
	}

	r.writePlain("  authorized on %s\n", st.CreatedAt.Local().Format("Jan 2 2006 15:04"))
}

// formatExpiry renders a duration the way a person reads it, two largest
// units only.
func formatExpiry(d time.Duration) string {
	if d < time.Minute {
		return "under a minute"
	}

	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
