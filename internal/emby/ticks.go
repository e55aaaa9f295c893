package emby

import (
	"fmt"
	"strconv"
	"strings"
)

// TicksPerSecond is the resolution of Emby's RunTimeTicks and PositionTicks.
const TicksPerSecond = 10_000_000

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// TicksToSeconds converts ticks to whole seconds, rounding half up.
func TicksToSeconds(ticks int64) int64 {
	if ticks <= 0 {
		return 0
	}
	return (ticks + TicksPerSecond/2) / TicksPerSecond
}

// SecondsToClock renders seconds as MM:SS, or HH:MM:SS from one hour up.
func SecondsToClock(total int64) string {
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours == 0 {
		return fmt.Sprintf("%02d:%02d", minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// EpisodeCode formats season and episode numbers as S01E02. Missing numbers
// render as zero.
func EpisodeCode(season, episode *int) string {
	return fmt.Sprintf("S%02dE%02d", Int(season, 0), Int(episode, 0))
}

// FormatPremiereDate turns an ISO timestamp such as 2024-01-15T00:00:00Z into
// "Jan 15, 2024". Input that does not look like a date is returned unchanged.
func FormatPremiereDate(s string) string {
	datePart, _, _ := strings.Cut(s, "T")
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return s
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return s
	}
	// An unparsable day renders as 0.
	day, _ := strconv.Atoi(parts[2])
	return fmt.Sprintf("%s %d, %s", monthAbbrev[month-1], day, parts[0])
}
