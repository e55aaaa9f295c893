// Package playing turns Emby sessions into the now-playing view.
//
// BuildEntries projects raw sessions into display-ready entries: idle
// sessions are dropped, the rest are ordered by IPv4 address and every absent
// field is replaced by its documented default. FormatText renders entries as
// labelled text blocks; WriteJSON emits them as a fixed-shape record list.
package playing
