// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI fronts the access gate and the library behind it:
//  1. [CheckingView] : Resolving the gate against local settings and the config server
//  2. [LockedView] : Password prompt with masked input; failed attempts shake the prompt
//  3. [LibraryView] : Browse the merged source list once the gate opens
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Gate transitions flow through a channel registered with the gate's listener
// hook, so external state changes (settings edits, session clears) re-render
// immediately.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help via charmbracelet/bubbles/help.
package ui
