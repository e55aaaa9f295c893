package playing

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/five82/embycli/internal/colors"
)

// Layout of the text view.
const (
	lineWidth   = 78
	labelIndent = 11
	// NothingPlaying is rendered when no session is active.
	NothingPlaying = "Nothing playing"
)

// FormatText renders entries as labelled blocks separated by a blank line.
func FormatText(entries []Entry, p colors.Palette) string {
	if len(entries) == 0 {
		return NothingPlaying
	}
	rule := p.Bold(strings.Repeat("-", lineWidth))
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, formatEntry(e, p, rule))
	}
	return strings.Join(blocks, "\n\n")
}

func formatEntry(e Entry, p colors.Palette, rule string) string {
	lines := []string{rule, ""}
	add := func(label, value string) {
		// Labels are padded to the indent so values line up.
		pad := strings.Repeat(" ", max(labelIndent-len(label), 1))
		lines = append(lines, p.BlueBold(label)+pad+value)
	}

	add("Name:", wrap(e.Name, lineWidth, labelIndent))
	if e.IsAudio() {
		add("Album:", e.Album)
		add("Track:", e.AlbumTrack)
	}

	verb := "watched"
	if e.IsAudio() {
		verb = "listened"
	}
	add("Duration:", e.Duration)
	add("Progress:", fmt.Sprintf("%d%% (%s %s - %s remaining)", e.ProgressPercent, e.Progress, verb, e.Remaining))
	add("Player:", fmt.Sprintf("%s (%s, %s@%s)", e.Client, e.Device, e.User, e.IPAddress))
	add("State:", fmt.Sprintf("%s (%s)", e.State, e.Stream))
	add("Date:", e.Date)

	if !e.IsAudio() {
		if e.Rating != noRating {
			add("Rating:", e.Rating)
		}
		add("Summary:", wrap(e.Summary, lineWidth, labelIndent))
	}
	return strings.Join(lines, "\n")
}

// wrap breaks text at word boundaries so that no line exceeds width-indent
// characters, unless a single word is longer. Continuation lines are indented.
func wrap(text string, width, indent int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	limit := width - indent

	var lines []string
	current := words[0]
	currentLen := utf8.RuneCountInString(current)
	for _, w := range words[1:] {
		wl := utf8.RuneCountInString(w)
		if currentLen+1+wl <= limit {
			current += " " + w
			currentLen += 1 + wl
			continue
		}
		lines = append(lines, current)
		current, currentLen = w, wl
	}
	lines = append(lines, current)

	return strings.Join(lines, "\n"+strings.Repeat(" ", indent))
}
