package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors of the watch screen.
type Theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Error:   lipgloss.Color("#ff5f5f"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
	Error  lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// Section is a labeled block of lines. Only the last lines that fit are
// shown.
type Section struct {
	Label string
	Lines []string
	// Failed renders the lines with the error style.
	Failed bool
}

// Frame is one screen: a bordered box with a title, status, sections and a
// help line below it.
type Frame struct {
	Styles   Styles
	Title    string
	Status   string
	Sections []Section
	Help     string
}

// Render draws the frame into a width x height block.
func (f Frame) Render(width, height int) string {
	if width < 8 || height < 6 {
		return "Loading..."
	}

	bc := f.Styles.Border
	inner := width - 4
	bar := func(l, r string) string {
		return bc.Render(l + strings.Repeat("─", width-2) + r)
	}
	row := func(text string) string {
		pad := max(0, inner-lipgloss.Width(text))
		return bc.Render("│") + " " + text + strings.Repeat(" ", pad) + " " + bc.Render("│")
	}

	title := f.Styles.Title.Render(f.Title)
	status := f.Styles.Help.Render("[" + f.Status + "]")
	out := []string{
		bar("╭", "╮"),
		row(title + " " + status),
		row(""),
	}

	n := max(len(f.Sections), 1)
	// top, title, blank, one label per section, bottom, help
	per := max((height-5-n)/n, 2)

	for _, sec := range f.Sections {
		label := f.Styles.Label.Render(sec.Label)
		fill := max(0, width-3-lipgloss.Width(label))
		out = append(out, bc.Render("├─")+label+bc.Render(strings.Repeat("─", fill)+"┤"))

		lines := sec.Lines
		if len(lines) > per {
			lines = lines[len(lines)-per:]
		}
		for i := range per {
			text := ""
			if i < len(lines) {
				text = Truncate(lines[i], inner)
				if sec.Failed {
					text = f.Styles.Error.Render(text)
				}
			}
			out = append(out, row(text))
		}
	}

	out = append(out, bar("╰", "╯"), f.Styles.Help.Render(f.Help))
	return strings.Join(out, "\n")
}

// Truncate cuts s to at most width display cells, ending with an ellipsis
// when anything was removed.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	cells := 0
	for i, r := range s {
		w := lipgloss.Width(string(r))
		if cells+w > width-1 {
			return s[:i] + "…"
		}
		cells += w
	}
	return s
}
