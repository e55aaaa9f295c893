package playing

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/five82/embycli/internal/emby"
)

// Record is the machine-readable form of an Entry. Field order and names are
// part of the output contract; every field is always emitted.
type Record struct {
	Name            string `json:"name"`
	Date            string `json:"date"`
	IPAddress       string `json:"ip_address"`
	User            string `json:"user"`
	Device          string `json:"device"`
	Client          string `json:"client"`
	MediaType       string `json:"media_type"`
	Rating          string `json:"rating"`
	State           string `json:"state"`
	Summary         string `json:"summary"`
	ProgressPercent int64  `json:"progress_percent"`
	Progress        string `json:"progress"`
	Duration        string `json:"duration"`
	Remaining       string `json:"remaining"`
	EpisodeCode     string `json:"episode_code"`
	Stream          string `json:"stream"`
	Album           string `json:"album"`
	AlbumArtist     string `json:"album_artist"`
	AlbumTrack      string `json:"album_track"`
}

// Records converts entries to records. The result is never nil so that an
// empty list encodes as [].
func Records(entries []Entry) []Record {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, Record(e))
	}
	return out
}

// WriteJSON writes entries as an indented JSON array followed by a newline.
func WriteJSON(w io.Writer, entries []Entry) error {
	return writeIndented(w, Records(entries))
}

// WriteRaw writes the sessions as the server sent them, minus unknown fields.
func WriteRaw(w io.Writer, sessions []emby.Session) error {
	if sessions == nil {
		sessions = []emby.Session{}
	}
	return writeIndented(w, sessions)
}

func writeIndented(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
