package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// renderFooter renders the status line under the now-playing blocks.
func (m WatchModel) renderFooter() string {
	styles := plainStyles()
	if m.palette.Enabled {
		styles = m.theme.Styles()
	}
	sep := "  "

	parts := []string{
		styles.AccentText.Render("emby"),
		styles.MutedText.Render("every") + " " + styles.Text.Render(m.interval.String()),
	}

	if updated := m.snapshot.LastUpdated; !updated.IsZero() {
		parts = append(parts, styles.MutedText.Render("updated")+" "+styles.Text.Render(updated.Format("15:04:05")))
	}

	if m.snapshot.IsOffline() {
		label := classifyConnectionError(m.snapshot.LastError)
		if label != "OFFLINE" {
			label = "OFFLINE " + label
		}
		parts = append(parts,
			styles.DangerText.Render(label)+" "+
				styles.WarningText.Render(fmt.Sprintf("(%d failed polls)", m.snapshot.ConsecutiveFailures)))
	}

	if m.notice != "" {
		parts = append(parts, styles.WarningText.Render(m.notice))
	}

	parts = append(parts, m.help.ShortHelpView(m.keys.ShortHelp()))
	return strings.Join(parts, sep)
}

// classifyConnectionError maps a fetch error to a short status label.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

func plainHelpStyles() help.Styles {
	s := lipgloss.NewStyle()
	return help.Styles{
		Ellipsis:       s,
		ShortKey:       s,
		ShortDesc:      s,
		ShortSeparator: s,
		FullKey:        s,
		FullDesc:       s,
		FullSeparator:  s,
	}
}
