// Package ui implements an interactive terminal browser using bubbletea's Elm architecture.
//
// The TUI presents a stack of lists, one per level of the library:
//  1. The root container (a directory or playlist) is browsed on start
//  2. Selecting a collection (sub-directory or nested playlist) browses it and pushes a new level
//  3. Going back pops the top level
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Browsing runs in a [tea.Cmd] through an injected [BrowseFunc], so the UI never touches the browse loop directly.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
