package ui

// statusesLoadedMsg delivers every registered platform with its stored
// authorization state.
type statusesLoadedMsg struct {
	items []platformItem
	err   error
}

// authorizeDoneMsg reports the outcome of an interactive authorization.
type authorizeDoneMsg struct {
	platform string
	err      error
}
