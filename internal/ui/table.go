package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// columnGap is the space between table columns.
const columnGap = 2

// Table renders headers and rows as borderless, left-aligned columns in the
// manner of `column -t`. Trailing spaces are trimmed from every line.
func Table(headers []string, rows [][]string) string {
	last := len(headers) - 1
	cell := lipgloss.NewStyle()
	gapped := cell.PaddingRight(columnGap)

	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == last {
				return cell
			}
			return gapped
		})

	lines := strings.Split(t.Render(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
