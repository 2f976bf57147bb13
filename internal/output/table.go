package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders rows under headers with a normal border. Header cells are
// bold and the border is faint.
func (f *Formatter) Table(headers []string, rows [][]string) string {
	cell := f.renderer.NewStyle().Padding(0, 1)
	header := f.bold.Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.muted).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, row := range rows {
		tbl.Row(row...)
	}

	return tbl.String()
}
