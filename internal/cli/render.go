package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00bcd4"))
	labelStyle = lipgloss.NewStyle().Width(23)
	cardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// field is one label/value line of a card.
type field struct {
	label, value string
}

// writeCard prints a bordered block with a title and aligned fields.
func writeCard(w io.Writer, title string, fields ...field) {
	lines := make([]string, 0, len(fields)+1)
	lines = append(lines, titleStyle.Render(title))
	for _, f := range fields {
		lines = append(lines, labelStyle.Render(f.label)+f.value)
	}
	fmt.Fprintln(w, cardStyle.Render(strings.Join(lines, "\n")))
}

// writeTable prints rows under headers.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func printJSON(w io.Writer, data []byte) error {
	_, err := fmt.Fprintln(w, string(data))
	return err
}
