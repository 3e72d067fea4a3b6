// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a short workflow for connecting accounts:
//  1. [PlatformListView] : Browse platforms with their stored token status
//  2. [AuthorizeView] : Wait while the browser consent round-trips
//  3. [ResultView] : Display the outcome and offer a way back to the list
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Authorization runs inside a tea.Cmd, so the interface stays responsive while the
// loopback listener blocks on the redirect.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
