// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the game library:
//  1. [MenuView] : Pick a library subset, discovery, or sync
//  2. [SignInView] : Email/password form shown when a protected view is denied
//  3. [LibraryView] : Browse a fetched subset of the library
//  4. [DetailView] : Inspect a single game record
//  5. [DiscoverView] : Browse the public AI-curated list
//  6. [SyncView] : Monitor cache sync progress updates
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Session snapshots flow through a channel from the auth session store; every
// snapshot is re-evaluated by the [Guard], which redirects a denied protected
// view to the sign-in form exactly once and restores the saved view on grant.
// Progress updates flow through a channel from the library engine during sync.
//
// A periodic health ping keeps the tracker backend warm while the TUI is open.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
