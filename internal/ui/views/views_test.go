package views

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/planboard/internal/db"
	"github.com/tgienger/planboard/internal/history"
	"github.com/tgienger/planboard/internal/models"
	"github.com/tgienger/planboard/internal/persist"
	"github.com/tgienger/planboard/internal/project"
	"github.com/tgienger/planboard/internal/store"
)

func newTestService(t *testing.T) *project.Service {
	t.Helper()
	database, err := db.OpenFile(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	st := store.New()
	gw := persist.NewGateway(database, nil)
	return project.New(st, history.NewManager(st, gw), gw, store.NewIDGenerator(nil), nil)
}

func section(t *testing.T, name string) *Section {
	t.Helper()
	for _, s := range Sections() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no section %q", name)
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSectionsOrder(t *testing.T) {
	var names []string
	for _, s := range Sections() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Tasks", "Calendar", "Milestones", "Time", "Bugs", "Goals", "Ideas", "Collaborate"}, names)
}

func TestTasksSection(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	sec := section(t, "Tasks")

	require.NoError(t, sec.Add(ctx, svc, []string{"write docs", "for v1"}))
	require.NoError(t, sec.Add(ctx, svc, []string{"ship", ""}))

	rows := sec.Rows(svc.Snapshot(), false)
	require.Len(t, rows, 2)
	require.NoError(t, sec.AddChild(ctx, svc, rows[0], []string{"outline", ""}))

	rows = sec.Rows(svc.Snapshot(), false)
	require.Len(t, rows, 3)
	assert.True(t, rows[1].IsSubTask())
	assert.Equal(t, "0/1 sub-tasks  for v1", rows[0].Detail)

	// sub-task of a sub-task row lands on the same parent
	require.NoError(t, sec.AddChild(ctx, svc, rows[1], []string{"intro", ""}))
	assert.Len(t, svc.Snapshot().Tasks[0].SubTasks, 2)

	rows = sec.Rows(svc.Snapshot(), false)
	require.NoError(t, sec.Toggle(ctx, svc, rows[0]))
	rows = sec.Rows(svc.Snapshot(), true)
	require.Len(t, rows, 1)
	assert.Equal(t, "ship", rows[0].Title)

	snap := svc.Snapshot()
	fields := sec.EditFields(snap, Row{ID: snap.Tasks[0].ID, Title: "write docs"})
	assert.Equal(t, "for v1", fields[1].Value)
	require.NoError(t, sec.Edit(ctx, svc, snap, Row{ID: snap.Tasks[0].ID}, []string{"write better docs", "for v1"}))
	got := svc.Snapshot().Tasks[0]
	assert.Equal(t, "write better docs", got.Text)
	assert.Len(t, got.SubTasks, 2)

	assert.ErrorIs(t, sec.Add(ctx, svc, []string{"  ", ""}), store.ErrValidation)
}

func TestEventsSection_ParsesDates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	sec := section(t, "Calendar")

	err := sec.Add(ctx, svc, []string{"review", "tomorrow", "2025-01-01 10:00", ""})
	assert.ErrorContains(t, err, "start")

	err = sec.Add(ctx, svc, []string{"review", "", "", ""})
	assert.ErrorIs(t, err, store.ErrValidation)

	require.NoError(t, sec.Add(ctx, svc, []string{"review", "2025-01-01 09:00", "2025-01-01 10:00", "weekly"}))
	e := svc.Snapshot().Events[0]
	assert.Equal(t, time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local).UTC(), e.Start)

	fields := sec.EditFields(svc.Snapshot(), Row{ID: e.ID})
	assert.Equal(t, "2025-01-01 09:00", fields[1].Value)
}

func TestEditFormsKeepPrecision(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	start := time.Date(2025, 1, 1, 9, 0, 30, 0, time.UTC)
	end := time.Date(2025, 1, 1, 10, 15, 0, 250_000_000, time.UTC)
	due := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	_, err := svc.AddEvent(ctx, "review", start, end, "")
	require.NoError(t, err)
	_, err = svc.AddMilestone(ctx, "beta", due)
	require.NoError(t, err)

	events := section(t, "Calendar")
	e := svc.Snapshot().Events[0]
	require.NoError(t, events.Edit(ctx, svc, svc.Snapshot(), Row{ID: e.ID}, fieldValues(events.EditFields(svc.Snapshot(), Row{ID: e.ID}))))
	got := svc.Snapshot().Events[0]
	assert.True(t, start.Equal(got.Start), got.Start)
	assert.True(t, end.Equal(got.End), got.End)

	milestones := section(t, "Milestones")
	m := svc.Snapshot().Milestones[0]
	require.NoError(t, milestones.Edit(ctx, svc, svc.Snapshot(), Row{ID: m.ID}, fieldValues(milestones.EditFields(svc.Snapshot(), Row{ID: m.ID}))))
	assert.True(t, due.Equal(svc.Snapshot().Milestones[0].DueDate))

	assert.Equal(t, "2025-01-01", formatWhen(time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), dayLayout))
	assert.Equal(t, "2025-01-01 09:05", formatWhen(time.Date(2025, 1, 1, 9, 5, 0, 0, time.Local), dayLayout))
	assert.Equal(t, "2025-01-01 09:05:07", formatWhen(time.Date(2025, 1, 1, 9, 5, 7, 0, time.Local), whenLayout))
}

func fieldValues(fields []Field) []string {
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = f.Value
	}
	return values
}

func TestTimeSection(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	sec := section(t, "Time")

	assert.ErrorContains(t, sec.Add(ctx, svc, []string{"coding", "lots", "2025-01-01"}), "hours")
	require.NoError(t, sec.Add(ctx, svc, []string{"coding", "1.5", "2025-01-01"}))
	require.NoError(t, sec.Add(ctx, svc, []string{"review", "0.5", "2025-01-01"}))

	rows := sec.Rows(svc.Snapshot(), false)
	assert.Equal(t, "1.5h on 2025-01-01", rows[0].Detail)
	assert.Equal(t, "Per day: 2025-01-01 2.0h", sec.Summary(svc))
}

func TestBugsSection(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	sec := section(t, "Bugs")

	require.NoError(t, sec.Add(ctx, svc, []string{"crash", "on start", "in progress"}))
	rows := sec.Rows(svc.Snapshot(), false)
	assert.Equal(t, string(models.BugInProgress), rows[0].Badge)

	require.NoError(t, sec.Toggle(ctx, svc, rows[0]))
	assert.Equal(t, models.BugClosed, svc.Snapshot().Bugs[0].Status)
	assert.ErrorIs(t, sec.Add(ctx, svc, []string{"x", "y", "wontfix"}), store.ErrValidation)
}

func TestGoalsIdeasInvites(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	goals := section(t, "Goals")
	require.NoError(t, goals.Add(ctx, svc, []string{"launch", "public beta"}))
	g := svc.Snapshot().Goals[0]
	assert.ErrorContains(t, goals.Edit(ctx, svc, svc.Snapshot(), Row{ID: g.ID}, []string{"launch", "", "half"}), "progress")
	require.NoError(t, goals.Edit(ctx, svc, svc.Snapshot(), Row{ID: g.ID}, []string{"launch", "public beta", "40"}))
	assert.Equal(t, 40, svc.Snapshot().Goals[0].Progress)
	assert.Equal(t, "████░░░░░░", progressBar(40, 10))

	ideas := section(t, "Ideas")
	require.NoError(t, ideas.Add(ctx, svc, []string{"themes", "light mode", "ui, css,"}))
	assert.Equal(t, []string{"ui", "css"}, ideas.Rows(svc.Snapshot(), false)[0].Tags)

	invites := section(t, "Collaborate")
	require.NoError(t, invites.Add(ctx, svc, []string{"planboard", "a@example.com", "WRITE"}))
	assert.Equal(t, models.PermissionWrite, svc.Snapshot().CollaborationInvites[0].Permissions)
}

func TestForm(t *testing.T) {
	f := NewForm("New task", []Field{{Label: "Task"}, {Label: "Description"}})

	for _, r := range "hi" {
		state, _ := f.Update(runes(string(r)))
		assert.Equal(t, FormEditing, state)
	}
	state, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, FormEditing, state)
	f.Update(runes("there"))

	assert.Equal(t, []string{"hi", "there"}, f.Values())

	state, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, FormEditing, state, "enter on the last input moves to the button")
	state, _ = f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, FormSubmitted, state)

	state, _ = f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, FormCancelled, state)
}

func TestConfirm(t *testing.T) {
	c := NewConfirm("Delete?", "sure?")
	assert.Equal(t, FormEditing, c.Update(runes("x")))
	assert.Equal(t, FormSubmitted, c.Update(runes("y")))
	assert.Equal(t, FormCancelled, c.Update(tea.KeyMsg{Type: tea.KeyEsc}))
}

func TestListView(t *testing.T) {
	var l ListView
	for range 5 {
		l.Down(4, 2)
	}
	assert.Equal(t, 3, l.Cursor)
	assert.Equal(t, 2, l.ScrollY)

	l.Up()
	l.Up()
	assert.Equal(t, 1, l.Cursor)
	assert.Equal(t, 1, l.ScrollY)

	l.Clamp(0)
	assert.Equal(t, 0, l.Cursor)
	_, ok := l.Selected(nil)
	assert.False(t, ok)
}
