package emby

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
)

// Session mirrors an entry of /Sessions. Every field is optional on the wire;
// defaults are applied when the session is projected for display.
type Session struct {
	UserName       *string         `json:"UserName"`
	DeviceName     *string         `json:"DeviceName"`
	Client         *string         `json:"Client"`
	RemoteEndPoint *string         `json:"RemoteEndPoint"`
	NowPlayingItem *NowPlayingItem `json:"NowPlayingItem"`
	PlayState      *PlayState      `json:"PlayState"`
}

// IsActive reports whether the session is currently playing something.
func (s Session) IsActive() bool {
	return s.NowPlayingItem != nil
}

// NowPlayingItem carries the metadata of the item a session is playing.
type NowPlayingItem struct {
	Name              *string `json:"Name"`
	Type              *string `json:"Type"`
	SeriesName        *string `json:"SeriesName"`
	ParentIndexNumber *int    `json:"ParentIndexNumber"`
	IndexNumber       *int    `json:"IndexNumber"`
	RunTimeTicks      *int64  `json:"RunTimeTicks"`
	PremiereDate      *string `json:"PremiereDate"`
	OfficialRating    *string `json:"OfficialRating"`
	Overview          *string `json:"Overview"`
	ProductionYear    *int    `json:"ProductionYear"`
	Album             *string `json:"Album"`
	AlbumArtist       *string `json:"AlbumArtist"`
}

// PlayState is the playback position and transport of a session.
type PlayState struct {
	PositionTicks *int64  `json:"PositionTicks"`
	IsPaused      *bool   `json:"IsPaused"`
	PlayMethod    *string `json:"PlayMethod"`
}

// VirtualFolder is a library as returned by /Library/VirtualFolders.
type VirtualFolder struct {
	Name           *string `json:"Name"`
	CollectionType *string `json:"CollectionType"`
	ItemID         *string `json:"ItemId"`
}

// SystemInfo mirrors /System/Info.
type SystemInfo struct {
	Version                    *string `json:"Version"`
	ServerName                 *string `json:"ServerName"`
	OperatingSystemDisplayName *string `json:"OperatingSystemDisplayName"`
	HasUpdateAvailable         *bool   `json:"HasUpdateAvailable"`
}

// User mirrors an entry of /Users.
type User struct {
	Name   *string     `json:"Name"`
	ID     *string     `json:"Id"`
	Policy *UserPolicy `json:"Policy"`
}

// IsAdmin reports whether the user's policy grants administrator rights.
func (u User) IsAdmin() bool {
	return u.Policy != nil && Bool(u.Policy.IsAdministrator)
}

// UserPolicy holds the subset of the user policy the CLI reads.
type UserPolicy struct {
	IsAdministrator *bool `json:"IsAdministrator"`
}

// ActivityLogResponse is the envelope of /System/ActivityLog/Entries.
type ActivityLogResponse struct {
	Items []ActivityLogEntry `json:"Items"`
}

// ActivityLogEntry is one activity log record.
type ActivityLogEntry struct {
	Name          *string `json:"Name"`
	Overview      *string `json:"Overview"`
	ShortOverview *string `json:"ShortOverview"`
	Type          *string `json:"Type"`
	Date          *string `json:"Date"`
	Severity      *string `json:"Severity"`
}

// BaseItem is the shared item shape of the latest, next-up and upcoming endpoints.
type BaseItem struct {
	Name              *string `json:"Name"`
	ID                *string `json:"Id"`
	Type              *string `json:"Type"`
	SeriesName        *string `json:"SeriesName"`
	IndexNumber       *int    `json:"IndexNumber"`
	ParentIndexNumber *int    `json:"ParentIndexNumber"`
	ProductionYear    *int    `json:"ProductionYear"`
	PremiereDate      *string `json:"PremiereDate"`
	DateCreated       *string `json:"DateCreated"`
	RunTimeTicks      *int64  `json:"RunTimeTicks"`
	Overview          *string `json:"Overview"`
	Container         *string `json:"Container"`
	OfficialRating    *string `json:"OfficialRating"`
	Album             *string `json:"Album"`
	AlbumArtist       *string `json:"AlbumArtist"`
}

// ItemsResponse is the generic query-result envelope.
type ItemsResponse struct {
	Items            []BaseItem `json:"Items"`
	TotalRecordCount *int       `json:"TotalRecordCount"`
}

// SearchHintResponse is the envelope of /Search/Hints.
type SearchHintResponse struct {
	SearchHints      []SearchHint `json:"SearchHints"`
	TotalRecordCount *int         `json:"TotalRecordCount"`
}

// SearchHint is one search result.
type SearchHint struct {
	ItemID            *FlexID `json:"ItemId"`
	Name              *string `json:"Name"`
	Type              *string `json:"Type"`
	ProductionYear    *int    `json:"ProductionYear"`
	Series            *string `json:"Series"`
	Album             *string `json:"Album"`
	AlbumArtist       *string `json:"AlbumArtist"`
	IndexNumber       *int    `json:"IndexNumber"`
	ParentIndexNumber *int    `json:"ParentIndexNumber"`
	RunTimeTicks      *int64  `json:"RunTimeTicks"`
}

// TaskInfo mirrors an entry of /ScheduledTasks.
type TaskInfo struct {
	Name                      *string     `json:"Name"`
	State                     *string     `json:"State"`
	CurrentProgressPercentage *float64    `json:"CurrentProgressPercentage"`
	ID                        *string     `json:"Id"`
	LastExecutionResult       *TaskResult `json:"LastExecutionResult"`
	Description               *string     `json:"Description"`
	Category                  *string     `json:"Category"`
	IsHidden                  *bool       `json:"IsHidden"`
}

// TaskResult describes the last run of a scheduled task.
type TaskResult struct {
	StartTimeUTC *string `json:"StartTimeUtc"`
	EndTimeUTC   *string `json:"EndTimeUtc"`
	Status       *string `json:"Status"`
}

// DevicesResponse is the envelope of /Devices.
type DevicesResponse struct {
	Items []Device `json:"Items"`
}

// Device is a registered client device.
type Device struct {
	Name         *string `json:"Name"`
	IPAddress    *string `json:"IpAddress"`
	LastUserName *string `json:"LastUserName"`
	AppName      *string `json:"AppName"`
	AppVersion   *string `json:"AppVersion"`
	ID           *string `json:"Id"`
}

// RefreshOptions is the body of POST /Items/{id}/Refresh.
type RefreshOptions struct {
	Recursive           bool   `json:"Recursive"`
	MetadataRefreshMode string `json:"MetadataRefreshMode"`
	ImageRefreshMode    string `json:"ImageRefreshMode"`
	ReplaceAllMetadata  bool   `json:"ReplaceAllMetadata"`
	ReplaceAllImages    bool   `json:"ReplaceAllImages"`
}

// FlexID accepts an identifier sent either as a JSON string or a JSON number.
// Emby versions disagree on the encoding of search hint item IDs.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// String returns the identifier text.
func (f *FlexID) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// String returns the dereferenced value or def when p is nil.
func String(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

// Int returns the dereferenced value or def when p is nil.
func Int(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// Int64 returns the dereferenced value or 0 when p is nil.
func Int64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// Bool returns the dereferenced value or false when p is nil.
func Bool(p *bool) bool {
	return p != nil && *p
}

// IntString formats the value as decimal text, or "" when p is nil.
func IntString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
