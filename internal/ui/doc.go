// Package ui is the Bubble Tea front end: a navbar of mode tabs over a
// split between the code editor and the output pane, with a footer for
// key hints.
//
// Core abstractions:
//   - View: a screen region with its own model, update, view (Elm-style)
//   - Panel: a bounded region within a layout that hosts a View
//   - Layout: arranges panels and defines focus order
//   - FocusManager: tracks and rotates keyboard focus across panels
//   - KeybindRegistry/KeyHandler: direct bindings plus a C-x leader prefix
//
// Mouse: a left press on the divider starts a resize gesture; while it is
// active the program switches to all-motion mouse reporting and the editor
// is blurred so no text is selected. Release restores both.
package ui
