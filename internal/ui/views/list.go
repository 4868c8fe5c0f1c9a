package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/planboard/internal/ui/styles"
)

// Row is one rendered line of a tab
type Row struct {
	ID       int64
	ParentID int64 // set on sub-task rows
	Title    string
	Detail   string
	Badge    string
	Tags     []string
	Done     bool
}

// IsSubTask reports whether the row is a sub-task of another row
func (r Row) IsSubTask() bool { return r.ParentID != 0 }

// ListView tracks the cursor and scroll offset of one tab
type ListView struct {
	Cursor  int
	ScrollY int
}

// Clamp keeps the cursor inside a list of n rows
func (l *ListView) Clamp(n int) {
	if l.Cursor >= n {
		l.Cursor = max(0, n-1)
	}
	if l.ScrollY > l.Cursor {
		l.ScrollY = l.Cursor
	}
}

// Up moves the cursor one row up
func (l *ListView) Up() {
	if l.Cursor > 0 {
		l.Cursor--
	}
	if l.Cursor < l.ScrollY {
		l.ScrollY = l.Cursor
	}
}

// Down moves the cursor one row down within n rows, scrolling so that it
// stays inside a window of visible rows
func (l *ListView) Down(n, visible int) {
	if l.Cursor < n-1 {
		l.Cursor++
	}
	visible = max(visible, 1)
	if l.Cursor >= l.ScrollY+visible {
		l.ScrollY = l.Cursor - visible + 1
	}
}

// Selected returns the row under the cursor
func (l *ListView) Selected(rows []Row) (Row, bool) {
	if l.Cursor < 0 || l.Cursor >= len(rows) {
		return Row{}, false
	}
	return rows[l.Cursor], true
}

// VisibleRows is how many rows fit in a body of the given height. Each row
// takes two lines.
func VisibleRows(height int) int {
	return max((height-8)/2, 1)
}

// RenderRows draws the visible window of rows
func RenderRows(s *styles.Styles, sec *Section, rows []Row, l *ListView, width, height int) string {
	if len(rows) == 0 {
		return s.TitleMuted.Render("Nothing here yet. Press 'a' to add " + sec.Singular + ".")
	}

	contentWidth := max(styles.ContentWidth(width)-4, 20)
	end := min(l.ScrollY+VisibleRows(height), len(rows))

	items := make([]string, 0, end-l.ScrollY)
	for i := l.ScrollY; i < end; i++ {
		items = append(items, renderRow(s, sec, rows[i], i == l.Cursor, contentWidth))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func renderRow(s *styles.Styles, sec *Section, row Row, selected bool, width int) string {
	title := row.Title
	if row.Done {
		title = s.Done.Render(title)
	}
	if sec.HasToggle() && row.Badge == "" {
		check := "[ ] "
		if row.Done {
			check = "[x] "
		}
		title = check + title
	}
	if row.IsSubTask() {
		title = "    ↳ " + title
	}
	if row.Badge != "" {
		badge := s.Tag
		if sec.BadgeStyle != nil {
			badge = sec.BadgeStyle(s, row.Badge)
		}
		title = badge.Render("["+row.Badge+"]") + " " + title
	}

	var detail []string
	if row.Detail != "" {
		detail = append(detail, s.Detail.Render(row.Detail))
	}
	for _, tag := range row.Tags {
		detail = append(detail, s.Tag.Render("#"+tag))
	}

	lineStyle := s.ListItem
	if selected {
		lineStyle = s.ListSelected
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lineStyle.Width(width).Render(title),
		lineStyle.Width(width).Render(strings.Join(detail, " ")),
	)
}
