package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/planboard/internal/models"
)

// Palette names the colors by what they paint on the board
type Palette struct {
	Name string

	Base  lipgloss.Color // terminal background, also text on filled badges
	Text  lipgloss.Color
	Muted lipgloss.Color

	Highlight lipgloss.Color // active tab, focused input, keys in help
	Tags      lipgloss.Color
	Cursor    lipgloss.Color // background of the selected row

	Good lipgloss.Color
	Busy lipgloss.Color
	Bad  lipgloss.Color

	Frame lipgloss.Color
}

// TokyoNight is the default palette
var TokyoNight = Palette{
	Name:      "Tokyo Night",
	Base:      lipgloss.Color("#1a1b26"),
	Text:      lipgloss.Color("#c0caf5"),
	Muted:     lipgloss.Color("#565f89"),
	Highlight: lipgloss.Color("#7aa2f7"),
	Tags:      lipgloss.Color("#7dcfff"),
	Cursor:    lipgloss.Color("#33467c"),
	Good:      lipgloss.Color("#9ece6a"),
	Busy:      lipgloss.Color("#e0af68"),
	Bad:       lipgloss.Color("#f7768e"),
	Frame:     lipgloss.Color("#3b4261"),
}

// Current holds the active palette
var Current = TokyoNight

// MaxWidth caps the content width; the tab bar needs a little more than
// a classic 80 column terminal.
const MaxWidth = 100

// ContentWidth returns min(terminal width, MaxWidth)
func ContentWidth(terminalWidth int) int {
	return min(terminalWidth, MaxWidth)
}

// CenterView centers content horizontally on terminals wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Center, lipgloss.Top, content)
}

// Styles holds the pre-computed styles for the UI
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style
	Danger     lipgloss.Style

	Tab       lipgloss.Style
	TabActive lipgloss.Style
	TabBar    lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	Done         lipgloss.Style
	Detail       lipgloss.Style
	Tag          lipgloss.Style

	Input         lipgloss.Style
	InputFocused  lipgloss.Style
	Dialog        lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style

	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
	StatusOK    lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// boxed draws a rounded frame in the given color
func boxed(text, frame lipgloss.Color, padX int) lipgloss.Style {
	return fg(text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(frame).
		Padding(0, padX)
}

// filled is text on a colored background, for the active tab and the
// default button
func filled(bg lipgloss.Color, padX int) lipgloss.Style {
	return fg(Current.Base).Background(bg).Padding(0, padX).Bold(true)
}

// NewStyles creates styles from the current palette
func NewStyles() *Styles {
	p := Current
	muted := fg(p.Muted)

	return &Styles{
		Title:      fg(p.Highlight).Bold(true),
		TitleMuted: muted,
		Danger:     fg(p.Bad).Bold(true),

		Tab:       muted.Padding(0, 1),
		TabActive: filled(p.Highlight, 1),
		TabBar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Frame),

		ListItem:     fg(p.Text).Padding(0, 2),
		ListSelected: fg(p.Highlight).Background(p.Cursor).Padding(0, 2).Bold(true),
		Done:         muted.Strikethrough(true),
		Detail:       muted,
		Tag:          fg(p.Tags).MarginRight(1),

		Input:         boxed(p.Text, p.Frame, 1),
		InputFocused:  boxed(p.Text, p.Highlight, 1),
		Dialog:        boxed(p.Text, p.Frame, 1),
		Button:        boxed(p.Text, p.Frame, 2),
		ButtonFocused: boxed(p.Highlight, p.Highlight, 2).Bold(true),
		ButtonPrimary: filled(p.Highlight, 2),

		Help:    muted.Padding(1, 2),
		HelpKey: fg(p.Highlight).Bold(true),

		StatusBar:   muted.Padding(0, 1),
		StatusError: fg(p.Bad).Padding(0, 1).Bold(true),
		StatusOK:    fg(p.Good).Padding(0, 1),
	}
}

// BugStatus colors a bug status badge: open is bad, in progress is busy,
// closed is good
func (s *Styles) BugStatus(status models.BugStatus) lipgloss.Style {
	switch status {
	case models.BugOpen:
		return fg(Current.Bad).Bold(true)
	case models.BugInProgress:
		return fg(Current.Busy).Bold(true)
	}
	return fg(Current.Good).Bold(true)
}
