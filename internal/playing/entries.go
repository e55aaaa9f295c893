package playing

import (
	"cmp"
	"net/netip"
	"slices"
	"strconv"
	"strings"

	"github.com/five82/embycli/internal/emby"
)

// Defaults substituted for absent fields.
const (
	unknown      = "Unknown"
	noRating     = "None"
	statePaused  = "Paused"
	statePlaying = "Playing"
	infuseClient = "Infuse"
)

// Entry is the display-ready projection of one active session.
type Entry struct {
	Name            string
	Date            string
	IPAddress       string
	User            string
	Device          string
	Client          string
	MediaType       string
	Rating          string
	State           string
	Summary         string
	ProgressPercent int64
	Progress        string
	Duration        string
	Remaining       string
	EpisodeCode     string
	Stream          string
	Album           string
	AlbumArtist     string
	AlbumTrack      string
}

// IsAudio reports whether the entry is a music track.
func (e Entry) IsAudio() bool {
	return e.MediaType == emby.KindAudio
}

// FilterSessions keeps the sessions whose user name exactly matches one of
// users. An empty users list keeps everything.
func FilterSessions(sessions []emby.Session, users []string) []emby.Session {
	if len(users) == 0 {
		return sessions
	}
	out := make([]emby.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.UserName != nil && slices.Contains(users, *s.UserName) {
			out = append(out, s)
		}
	}
	return out
}

// ActiveSessions keeps the sessions that have a now-playing item.
func ActiveSessions(sessions []emby.Session) []emby.Session {
	out := make([]emby.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.IsActive() {
			out = append(out, s)
		}
	}
	return out
}

// BuildEntries filters sessions by user, drops idle ones, orders the rest by
// the numeric value of their IPv4 address and projects each to an Entry.
func BuildEntries(sessions []emby.Session, users []string) []Entry {
	active := ActiveSessions(FilterSessions(sessions, users))
	slices.SortStableFunc(active, func(a, b emby.Session) int {
		return cmp.Compare(ipv4Key(emby.String(a.RemoteEndPoint, "")), ipv4Key(emby.String(b.RemoteEndPoint, "")))
	})

	entries := make([]Entry, 0, len(active))
	for _, s := range active {
		entries = append(entries, project(s))
	}
	return entries
}

// ipv4Key returns the address as a 32-bit number, or 0 when it is not a
// dotted-quad IPv4 address.
func ipv4Key(addr string) uint32 {
	ip, err := netip.ParseAddr(strings.TrimSpace(addr))
	if err != nil || !ip.Is4() {
		return 0
	}
	b := ip.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func project(s emby.Session) Entry {
	item := s.NowPlayingItem
	ps := s.PlayState
	if ps == nil {
		ps = &emby.PlayState{}
	}

	kind := emby.String(item.Type, unknown)
	title := emby.String(item.Name, unknown)

	e := Entry{
		MediaType: kind,
		IPAddress: emby.String(s.RemoteEndPoint, ""),
		User:      emby.String(s.UserName, unknown),
		Device:    emby.String(s.DeviceName, unknown),
		Client:    normalizeClient(emby.String(s.Client, unknown)),
		Rating:    emby.String(item.OfficialRating, noRating),
		State:     statePlaying,
		Summary:   strings.Join(strings.Fields(emby.String(item.Overview, "")), " "),
		Stream:    emby.String(ps.PlayMethod, unknown),
	}
	if emby.Bool(ps.IsPaused) {
		e.State = statePaused
	}

	switch kind {
	case emby.KindEpisode:
		e.EpisodeCode = emby.EpisodeCode(item.ParentIndexNumber, item.IndexNumber)
		e.Name = emby.ComposeName(kind, title, emby.String(item.SeriesName, unknown), "", e.EpisodeCode)
		e.Date = premiereDate(item.PremiereDate)
	case emby.KindAudio:
		e.Name = emby.ComposeName(kind, title, "", emby.String(item.AlbumArtist, unknown), "")
		e.Date = unknown
		if item.ProductionYear != nil {
			e.Date = strconv.Itoa(*item.ProductionYear)
		}
		e.Album = emby.String(item.Album, "")
		e.AlbumArtist = emby.String(item.AlbumArtist, "")
		e.AlbumTrack = emby.IntString(item.IndexNumber)
	default:
		e.Name = title
		e.Date = premiereDate(item.PremiereDate)
	}

	duration := emby.TicksToSeconds(emby.Int64(item.RunTimeTicks))
	elapsed := emby.TicksToSeconds(emby.Int64(ps.PositionTicks))
	remaining := max(duration-elapsed, 0)

	e.Duration = emby.SecondsToClock(duration)
	e.Progress = emby.SecondsToClock(elapsed)
	e.Remaining = emby.SecondsToClock(remaining)
	e.ProgressPercent = percent(elapsed, duration)
	return e
}

// percent rounds half up and clamps to [0,100]; a zero duration yields 0.
func percent(elapsed, duration int64) int64 {
	if duration <= 0 {
		return 0
	}
	p := (elapsed*100 + duration/2) / duration
	return min(max(p, 0), 100)
}

func premiereDate(p *string) string {
	if p == nil {
		return unknown
	}
	return emby.FormatPremiereDate(*p)
}

func normalizeClient(client string) string {
	if strings.Contains(client, infuseClient) {
		return infuseClient
	}
	return client
}
