package emby

// Media kinds with their own display rules. Every other kind displays its
// plain title.
const (
	KindEpisode = "Episode"
	KindAudio   = "Audio"
)

// ComposeName builds the display name of an item:
// "{series} - {code} - {title}" for episodes, "{artist} - {title}" for audio
// and the title alone for anything else.
func ComposeName(kind, title, series, artist, code string) string {
	switch kind {
	case KindEpisode:
		return series + " - " + code + " - " + title
	case KindAudio:
		return artist + " - " + title
	default:
		return title
	}
}

// DisplayName returns the composed name of a library item, using empty
// strings for missing parts.
func (it BaseItem) DisplayName() string {
	return ComposeName(
		String(it.Type, ""),
		String(it.Name, ""),
		String(it.SeriesName, ""),
		String(it.AlbumArtist, ""),
		EpisodeCode(it.ParentIndexNumber, it.IndexNumber),
	)
}

// DisplayName returns the composed name of a search hint.
func (h SearchHint) DisplayName() string {
	return ComposeName(
		String(h.Type, ""),
		String(h.Name, ""),
		String(h.Series, ""),
		String(h.AlbumArtist, ""),
		EpisodeCode(h.ParentIndexNumber, h.IndexNumber),
	)
}
