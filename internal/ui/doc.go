// Package ui provides the terminal views of the emby CLI: the borderless
// tables printed by the list commands and the live now-playing view.
//
// # Live View
//
// Watch runs a Bubble Tea program on the alternate screen. The model cycles
// through three states:
//
//	fetch ──→ render ──→ wait (TickSlice steps) ──→ fetch ...
//
// A fetch always runs to completion. Quitting while one is in flight is
// deferred until its result lands; quitting while waiting is immediate.
// Fetch failures are rendered inline as "Error: <message>" and the loop
// keeps going; after two failures in a row the footer marks the server
// offline.
//
// # Key Bindings
//
//   - q, ctrl+c: quit
//   - +: lengthen the refresh interval by one second
//   - -: shorten it by one second
//   - T: cycle the footer theme
//
// Interval and theme changes are written back to the preferences file.
//
// # Tables
//
// Table renders headers and rows with lipgloss/table, with all borders
// turned off and two spaces between columns.
package ui
