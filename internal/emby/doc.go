// Package emby provides an HTTP client for the Emby media server API.
//
// # Overview
//
// The package is split by concern:
//
//   - client.go: HTTP transport, authentication and typed endpoint helpers
//   - types.go: data structures mirroring the Emby JSON schema
//   - ticks.go: tick, clock, episode-code and premiere-date formatting
//   - names.go: display-name composition shared by several commands
//   - users.go: resolving a user name (or the first administrator) to an ID
//
// # Client Usage
//
//	client, err := emby.NewClient("http://emby.local:8096", apiKey)
//	if err != nil {
//		return err
//	}
//	sessions, err := client.Sessions(ctx)
//
// Every request is sent to {api_url}/emby/{path} with the X-Emby-Token header.
// Responses are decoded with goccy/go-json. Status codes of 400 and above are
// returned as errors carrying the start of the response body.
//
// # Optional Fields
//
// The server omits or nulls fields freely, so every wire field is a pointer.
// String, Int, Int64 and Bool dereference with an explicit default; the
// now-playing projection documents which default applies to each field.
package emby
