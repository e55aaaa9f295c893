// Package state holds the most recent session poll for the live now-playing view.
//
// # Overview
//
// The watch view fetches sessions from a bubbletea command, which runs on a
// runtime goroutine, and renders from Update/View on the program goroutine.
// Store is the hand-off point between the two:
//
//	fetch command:                 view:
//	┌──────────────────┐          ┌──────────────────┐
//	│ client.Sessions()│          │                  │
//	│        ↓         │          │                  │
//	│ store.Update()   │─────────→│ store.Snapshot() │
//	│                  │ (mutex)  │        ↓         │
//	│                  │          │ BuildEntries +   │
//	│                  │          │ FormatText       │
//	└──────────────────┘          └──────────────────┘
//
// # Update Semantics
//
//	// Success: replace the sessions
//	store.Update(sessions, nil)
//	→ snapshot.Sessions = sessions
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Failure: keep the old sessions, record the error
//	store.Update(nil, err)
//	→ snapshot.Sessions = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// The view renders the error in place of the entries while LastError is set,
// and marks the server offline once IsOffline reports two failures in a row.
//
// # Copying
//
// Snapshot returns a copy of the session slice and a wrapped copy of the last
// error, so the view can hold on to a snapshot while the next poll runs.
//
// The zero Store is ready to use.
package state
