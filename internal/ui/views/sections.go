package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/planboard/internal/codec"
	"github.com/tgienger/planboard/internal/models"
	"github.com/tgienger/planboard/internal/project"
	"github.com/tgienger/planboard/internal/store"
	"github.com/tgienger/planboard/internal/ui/styles"
)

const (
	whenLayout    = "2006-01-02 15:04"
	secondsLayout = "2006-01-02 15:04:05"
	dayLayout     = "2006-01-02"
)

// Section describes one tab: how to list a collection and how each key
// maps onto a project operation. Toggle and AddChild are nil for tabs
// without those actions.
type Section struct {
	Name     string
	Singular string

	Rows    func(snap models.Snapshot, focus bool) []Row
	Summary func(svc *project.Service) string

	AddFields  func() []Field
	Add        func(ctx context.Context, svc *project.Service, values []string) error
	EditFields func(snap models.Snapshot, row Row) []Field
	Edit       func(ctx context.Context, svc *project.Service, snap models.Snapshot, row Row, values []string) error
	Toggle     func(ctx context.Context, svc *project.Service, row Row) error
	Remove     func(ctx context.Context, svc *project.Service, row Row) error

	ChildFields func() []Field
	AddChild    func(ctx context.Context, svc *project.Service, parent Row, values []string) error

	BadgeStyle func(s *styles.Styles, badge string) lipgloss.Style
}

// HasToggle reports whether space does anything on this tab
func (s *Section) HasToggle() bool { return s.Toggle != nil }

// Sections returns the tabs in display order; Tasks is always first
func Sections() []*Section {
	return []*Section{
		tasksSection(),
		eventsSection(),
		milestonesSection(),
		timeSection(),
		bugsSection(),
		goalsSection(),
		ideasSection(),
		invitesSection(),
	}
}

func value(values []string, i int) string {
	if i < len(values) {
		return strings.TrimSpace(values[i])
	}
	return ""
}

func parseWhen(label, text string) (time.Time, error) {
	t, err := codec.ParseInstantText(text)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", label, err)
	}
	return t, nil
}

// formatWhen renders t in layout, or in a more precise form when layout
// would lose part of it, so that an unchanged edit form saves the same
// instant
func formatWhen(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	local := t.Local()
	for _, l := range []string{layout, whenLayout, secondsLayout} {
		text := local.Format(l)
		if back, err := time.ParseInLocation(l, text, time.Local); err == nil && back.Equal(t) {
			return text
		}
	}
	return local.Format(time.RFC3339Nano)
}

func find[T any](items []T, id int64, idOf func(T) int64) (T, bool) {
	for _, item := range items {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func tasksSection() *Section {
	return &Section{
		Name:     "Tasks",
		Singular: "a task",
		Rows: func(snap models.Snapshot, focus bool) []Row {
			var rows []Row
			for _, t := range snap.Tasks {
				if focus && t.Completed {
					continue
				}
				detail := t.Description
				if n := len(t.SubTasks); n > 0 {
					done := 0
					for _, st := range t.SubTasks {
						if st.Completed {
							done++
						}
					}
					detail = strings.TrimSpace(fmt.Sprintf("%d/%d sub-tasks  %s", done, n, detail))
				}
				rows = append(rows, Row{ID: t.ID, Title: t.Text, Detail: detail, Done: t.Completed})
				for _, st := range t.SubTasks {
					rows = append(rows, Row{ID: st.ID, ParentID: t.ID, Title: st.Text, Detail: st.Description, Done: st.Completed})
				}
			}
			return rows
		},
		AddFields: func() []Field {
			return []Field{
				{Label: "Task", Placeholder: "What needs doing?"},
				{Label: "Description", Placeholder: "optional", CharLimit: 1000},
			}
		},
		Add: func(ctx context.Context, svc *project.Service, values []string) error {
			_, err := svc.AddTask(ctx, value(values, 0), value(values, 1))
			return err
		},
		EditFields: func(snap models.Snapshot, row Row) []Field {
			text, desc := row.Title, row.Detail
			if !row.IsSubTask() {
				if t, ok := find(snap.Tasks, row.ID, func(t models.Task) int64 { return t.ID }); ok {
					desc = t.Description
				}
			}
			return []Field{
				{Label: "Task", Value: text},
				{Label: "Description", Value: desc, CharLimit: 1000},
			}
		},
		Edit: func(ctx context.Context, svc *project.Service, snap models.Snapshot, row Row, values []string) error {
			if row.IsSubTask() {
				return svc.EditSubTask(ctx, row.ParentID, models.SubTask{
					ID:          row.ID,
					Text:        value(values, 0),
					Completed:   row.Done,
					Description: value(values, 1),
				})
			}
			t, ok := find(snap.Tasks, row.ID, func(t models.Task) int64 { return t.ID })
			if !ok {
				return nil
			}
			t.Text, t.Description = value(values, 0), value(values, 1)
			return svc.EditTask(ctx, t)
		},
		Toggle: func(ctx context.Context, svc *project.Service, row Row) error {
			if row.IsSubTask() {
				return svc.ToggleSubTask(ctx, row.ParentID, row.ID)
			}
			return svc.ToggleTask(ctx, row.ID)
		},
		Remove: func(ctx context.Context, svc *project.Service, row Row) error {
			if row.IsSubTask() {
				return svc.RemoveSubTask(ctx, row.ParentID, row.ID)
			}
			return svc.RemoveTask(ctx, row.ID)
		},
		ChildFields: func() []Field {
			return []Field{
				{Label: "Sub-task", Placeholder: "Next step"},
				{Label: "Description", Placeholder: "optional", CharLimit: 1000},
			}
		},
		AddChild: func(ctx context.Context, svc *project.Service, parent Row, values []string) error {
			parentID := parent.ID
			if parent.IsSubTask() {
				parentID = parent.ParentID
			}
			_, err := svc.AddSubTask(ctx, parentID, value(values, 0), value(values, 1))
			return err
		},
	}
}

func eventsSection() *Section {
	fields := func(e models.Event) []Field {
		return []Field{
			{Label: "Title", Value: e.Title},
			{Label: "Start", Placeholder: whenLayout, Value: formatWhen(e.Start, whenLayout)},
			{Label: "End", Placeholder: whenLayout, Value: formatWhen(e.End, whenLayout)},
			{Label: "Description", Placeholder: "optional", Value: e.Description, CharLimit: 1000},
		}
	}
	parse := func(values []string) (models.Event, error) {
		start, err := parseWhen("start", value(values, 1))
		if err != nil {
			return models.Event{}, err
		}
		end, err := parseWhen("end", value(values, 2))
		if err != nil {
			return models.Event{}, err
		}
		return models.Event{Title: value(values, 0), Start: start, End: end, Description: value(values, 3)}, nil
	}

	return &Section{
		Name:     "Calendar",
		Singular: "an event",
		Rows: func(snap models.Snapshot, _ bool) []Row {
			rows := make([]Row, 0, len(snap.Events))
			for _, e := range snap.Events {
				detail := formatWhen(e.Start, whenLayout) + " → " + formatWhen(e.End, whenLayout)
				if e.Description != "" {
					detail += "  " + e.Description
				}
				rows = append(rows, Row{ID: e.ID, Title: e.Title, Detail: detail})
			}
			return rows
		},
		Summary: func(svc *project.Service) string {
			today := svc.EventsOn(time.Now())
			if len(today) == 0 {
				return "Nothing scheduled today"
			}
			titles := make([]string, 0, len(today))
			for _, e := range today {
				titles = append(titles, e.Start.Local().Format("15:04")+" "+e.Title)
			}
			return "Today: " + strings.Join(titles, " · ")
		},
		AddFields: func() []Field { return fields(models.Event{}) },
		Add: func(ctx context.Context, svc *project.Service, values []string) error {
			e, err := parse(values)
			if err != nil {
				return err
			}
			_, err = svc.AddEvent(ctx, e.Title, e.Start, e.End, e.Description)
			return err
		},
		EditFields: func(snap models.Snapshot, row Row) []Field {
			e, _ := find(snap.Events, row.ID, func(e models.Event) int64 { return e.ID })
			return fields(e)
		},
		Edit: func(ctx context.Context, svc *project.Service, _ models.Snapshot, row Row, values []string) error {
			e, err := parse(values)
			if err != nil {
				return err
			}
			e.ID = row.ID
			return svc.EditEvent(ctx, e)
		},
		Remove: func(ctx context.Context, svc *project.Service, row Row) error {
			return svc.RemoveEvent(ctx, row.ID)
		},
	}
}

func milestonesSection() *Section {
	fields := func(m models.Milestone) []Field {
		return []Field{
			{Label: "Title", Value: m.Title},
			{Label: "Due date", Placeholder: dayLayout, Value: formatWhen(m.DueDate, dayLayout)},
		}
	}

	return &Section{
		Name:     "Milestones",
		Singular: "a milestone",
		Rows: func(snap models.Snapshot, _ bool) []Row {
			rows := make([]Row, 0, len(snap.Milestones))
			for _, m := range snap.Milestones {
				rows = append(rows, Row{ID: m.ID, Title: m.Title, Detail: "due " + formatWhen(m.DueDate, dayLayout)})
			}
			return rows
		},
		AddFields: func() []Field { return fields(models.Milestone{}) },
		Add: func(ctx context.Context, svc *project.Service, values []string) error {
			due, err := parseWhen("due date", value(values, 1))
			if err != nil {
				return err
			}
			_, err = svc.AddMilestone(ctx, value(values, 0), due)
			return err
		},
		EditFields: func(snap models.Snapshot, row Row) []Field {
			m, _ := find(snap.Milestones, row.ID, func(m models.Milestone) int64 { return m.ID })
			return fields(m)
		},
		Edit: func(ctx context.Context, svc *project.Service, _ models.Snapshot, row Row, values []string) error {
			due, err := parseWhen("due date", value(values, 1))
			if err != nil {
				return err
			}
			return svc.EditMilestone(ctx, models.Milestone{ID: row.ID, Title: value(values, 0), DueDate: due})
		},
		Remove: func(ctx context.Context, svc *project.Service, row Row) error {
			return svc.RemoveMilestone(ctx, row.ID)
		},
	}
}

func timeSection() *Section {
	fields := func(te models.TimeEntry) []Field {
		hours := ""
		if te.Duration != 0 {
			hours = strconv.FormatFloat(te.Duration, 'f', -1, 64)
		}
		return []Field{
			{Label: "Task", Value: te.Task},
			{Label: "Hours", Placeholder: "1.5", Value: hours, CharLimit: 8},
			{Label: "Date", Placeholder: dayLayout, Value: formatWhen(te.Date, dayLayout)},
		}
	}
	parse := func(values []string) (models.TimeEntry, error) {
		var hours float64
		if raw := value(values, 1); raw != "" {
			h, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return models.TimeEntry{}, fmt.Errorf("hours: %q is not a number", raw)
			}
			hours = h
		}
		date, err := parseWhen("date", value(values, 2))
		if err != nil {
			return models.TimeEntry{}, err
		}
		return models.TimeEntry{Task: value(values, 0), Duration: hours, Date: date}, nil
	}

	return &Section{
		Name:     "Time",
		Singular: "a time entry",
		Rows: func(snap models.Snapshot, _ bool) []Row {
			rows := make([]Row, 0, len(snap.TimeEntries))
			for _, te := range snap.TimeEntries {
				detail := strconv.FormatFloat(te.Duration, 'f', -1, 64) + "h on " + formatWhen(te.Date, dayLayout)
				rows = append(rows, Row{ID: te.ID, Title: te.Task, Detail: detail})
			}
			return rows
		},
		Summary: func(svc *project.Service) string {
			days := svc.HoursByDate()
			if len(days) == 0 {
				return "No time logged"
			}
			parts := make([]string, 0, len(days))
			for _, d := range days {
				parts = append(parts, fmt.Sprintf("%s %.1fh", d.Date, d.Hours))
			}
			return "Per day: " + strings.Join(parts, " · ")
		},
		AddFields: func() []Field { return fields(models.TimeEntry{}) },
		Add: func(ctx context.Context, svc *project.Service, values []string) error {
			te, err := parse(values)
			if err != nil {
				return err
			}
			_, err = svc.AddTimeEntry(ctx, te.Task, te.Duration, te.Date)
			return err
		},
		EditFields: func(snap models.Snapshot, row Row) []Field {
			te, _ := find(snap.TimeEntries, row.ID, func(te models.TimeEntry) int64 { return te.ID })
			return fields(te)
		},
		Edit: func(ctx context.Context, svc *project.Service, _ models.Snapshot, row Row, values []string) error {
			te, err := parse(values)
			if err != nil {
				return err
			}
			te.ID = row.ID
			return svc.EditTimeEntry(ctx, te)
		},
		Remove: func(ctx context.Context, svc *project.Service, row Row) error {
			return svc.RemoveTimeEntry(ctx, row.ID)
		},
	}
}

func bugsSection() *Section {
	fields := func(b models.Bug) []Field {
		return []Field{
			{Label: "Title", Value: b.Title},
			{Label: "Description", Value: b.Description, CharLimit: 1000},
			{Label: "Status", Placeholder: "Open, In Progress or Closed", Value: string(b.Status)},
		}
	}
	status := func(raw string) models.BugStatus {
		for _, s := range []models.BugStatus{models.BugOpen, models.BugInProgress, models.BugClosed} {
			if strings.EqualFold(raw, string(s)) {
				return s
			}
		}
		return models.BugStatus(raw)
	}

	return &Section{
		Name:     "Bugs",
		Singular: "a bug",
		Rows: func(snap models.Snapshot, _ bool) []Row {
			rows := make([]Row, 0, len(snap.Bugs))
			for _, b := range snap.Bugs {
				rows = append(rows, Row{ID: b.ID, Title: b.Title, Detail: b.Description, Badge: string(b.Status), Done: b.Status == models.BugClosed})
			}
			return rows
		},
		AddFields: func() []Field { return fields(models.Bug{}) },
		Add: func(ctx context.Context, svc *project.Service, values []string) error {
			_, err := svc.AddBug(ctx, value(values, 0), value(values, 1), status(value(values, 2)))
			return err
		},
		EditFields: func(snap models.Snapshot, row Row) []Field {
			b, _ := find(snap.Bugs, row.ID, func(b models.Bug) int64 { return b.ID })
			return fields(b)
		},
		Edit: func(ctx context.Context, svc *project.Service, _ models.Snapshot, row Row, values []string) error {
			return svc.EditBug(ctx, models.Bug{
				ID:          row.ID,
				Title:       value(values, 0),
				Description: value(values, 1),
				Status:      status(value(values, 2)),
			})
		},
		Toggle: func(ctx context.Context, svc *project.Service, row Row) error {
			return svc.CycleBugStatus(ctx, row.ID)
		},
		Remove: func(ctx context.Context, svc *project.Service, row Row) error {
			return svc.RemoveBug(ctx, row.ID)
		},
		BadgeStyle: func(s *styles.Styles, badge string) lipgloss.Style {
			return s.BugStatus(models.BugStatus(badge))
		},
	}
}

func goalsSection() *Section {
	return &Section{
		Name:     "Goals",
		Singular: "a goal",
		Rows: func(snap models.Snapshot, _ bool) []Row {
			rows := make([]Row, 0, len(snap.Goals))
			for _, g := range snap.Goals {
				detail := strings.TrimSpace(fmt.Sprintf("%s %3d%%  %s", progressBar(g.Progress, 10), g.Progress, g.Description))
				rows = append(rows, Row{ID: g.ID, Title: g.Title, Detail: detail, Done: g.Progress >= 100})
			}
			return rows
		},
		AddFields: func() []Field {
			return []Field{
				{Label: "Title"},
				{Label: "Description", CharLimit: 1000},
			}
		},
		Add: func(ctx context.Context, svc *project.Service, values []string) error {
			_, err := svc.AddGoal(ctx, value(values, 0), value(values, 1))
			return err
		},
		EditFields: func(snap models.Snapshot, row Row) []Field {
			g, _ := find(snap.Goals, row.ID, func(g models.Goal) int64 { return g.ID })
			return []Field{
				{Label: "Title", Value: g.Title},
				{Label: "Description", Value: g.Description, CharLimit: 1000},
				{Label: "Progress", Placeholder: "0-100", Value: strconv.Itoa(g.Progress), CharLimit: 3},
			}
		},
		Edit: func(ctx context.Context, svc *project.Service, snap models.Snapshot, row Row, values []string) error {
			g, ok := find(snap.Goals, row.ID, func(g models.Goal) int64 { return g.ID })
			if !ok {
				return nil
			}
			progress, err := strconv.Atoi(value(values, 2))
			if err != nil {
				return fmt.Errorf("progress: %q is not a whole number", value(values, 2))
			}
			g.Title, g.Description, g.Progress = value(values, 0), value(values, 1), progress
			return svc.EditGoal(ctx, g)
		},
		Remove: func(ctx context.Context, svc *project.Service, row Row) error {
			return svc.RemoveGoal(ctx, row.ID)
		},
	}
}

func progressBar(progress, width int) string {
	filled := clamp(progress, 0, 100) * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func ideasSection() *Section {
	return &Section{
		Name:     "Ideas",
		Singular: "an idea",
		Rows: func(snap models.Snapshot, _ bool) []Row {
			rows := make([]Row, 0, len(snap.Ideas))
			for _, i := range snap.Ideas {
				rows = append(rows, Row{ID: i.ID, Title: i.Title, Detail: i.Description, Tags: i.Tags})
			}
			return rows
		},
		AddFields: func() []Field {
			return []Field{
				{Label: "Title"},
				{Label: "Description", CharLimit: 1000},
				{Label: "Tags", Placeholder: "comma, separated"},
			}
		},
		Add: func(ctx context.Context, svc *project.Service, values []string) error {
			_, err := svc.AddIdea(ctx, value(values, 0), value(values, 1), value(values, 2))
			return err
		},
		EditFields: func(snap models.Snapshot, row Row) []Field {
			i, _ := find(snap.Ideas, row.ID, func(i models.Idea) int64 { return i.ID })
			return []Field{
				{Label: "Title", Value: i.Title},
				{Label: "Description", Value: i.Description, CharLimit: 1000},
				{Label: "Tags", Value: strings.Join(i.Tags, ", ")},
			}
		},
		Edit: func(ctx context.Context, svc *project.Service, _ models.Snapshot, row Row, values []string) error {
			return svc.EditIdea(ctx, models.Idea{
				ID:          row.ID,
				Title:       value(values, 0),
				Description: value(values, 1),
				Tags:        store.ParseTags(value(values, 2)),
			})
		},
		Remove: func(ctx context.Context, svc *project.Service, row Row) error {
			return svc.RemoveIdea(ctx, row.ID)
		},
	}
}

func invitesSection() *Section {
	fields := func(c models.CollaborationInvite) []Field {
		return []Field{
			{Label: "Project", Value: c.ProjectName},
			{Label: "Invitee email", Value: c.InviteeEmail},
			{Label: "Permissions", Placeholder: "read, write or admin", Value: string(c.Permissions)},
		}
	}

	return &Section{
		Name:     "Collaborate",
		Singular: "an invite",
		Rows: func(snap models.Snapshot, _ bool) []Row {
			rows := make([]Row, 0, len(snap.CollaborationInvites))
			for _, c := range snap.CollaborationInvites {
				rows = append(rows, Row{ID: c.ID, Title: c.InviteeEmail, Detail: c.ProjectName, Badge: string(c.Permissions)})
			}
			return rows
		},
		AddFields: func() []Field { return fields(models.CollaborationInvite{}) },
		Add: func(ctx context.Context, svc *project.Service, values []string) error {
			perm := models.Permission(strings.ToLower(value(values, 2)))
			_, err := svc.AddInvite(ctx, value(values, 0), value(values, 1), perm)
			return err
		},
		EditFields: func(snap models.Snapshot, row Row) []Field {
			c, _ := find(snap.CollaborationInvites, row.ID, func(c models.CollaborationInvite) int64 { return c.ID })
			return fields(c)
		},
		Edit: func(ctx context.Context, svc *project.Service, _ models.Snapshot, row Row, values []string) error {
			return svc.EditInvite(ctx, models.CollaborationInvite{
				ID:           row.ID,
				ProjectName:  value(values, 0),
				InviteeEmail: value(values, 1),
				Permissions:  models.Permission(strings.ToLower(value(values, 2))),
			})
		},
		Remove: func(ctx context.Context, svc *project.Service, row Row) error {
			return svc.RemoveInvite(ctx, row.ID)
		},
	}
}
