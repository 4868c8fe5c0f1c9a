package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/planboard/internal/models"
)

func TestAddTask_RejectsBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		tasks := []models.Task{{ID: 1, Text: "keep", SubTasks: []models.SubTask{}}}
		got, _, err := AddTask(tasks, 2, text, "")
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, tasks, got)
	}
}

func TestAddTask_Appends(t *testing.T) {
	tasks, task, err := AddTask(nil, 42, "  write docs ", "for the codec")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(42), task.ID)
	assert.Equal(t, "write docs", task.Text)
	assert.False(t, task.Completed)
	assert.NotNil(t, task.SubTasks)
	assert.Empty(t, task.SubTasks)
}

func TestMutationsDoNotAliasInput(t *testing.T) {
	original := []models.Task{{ID: 1, Text: "a", SubTasks: []models.SubTask{}}}

	toggled := ToggleTask(original, 1)
	assert.True(t, toggled[0].Completed)
	assert.False(t, original[0].Completed)

	withSub, _, err := AddSubTask(original, 1, 2, "sub", "")
	require.NoError(t, err)
	assert.Len(t, withSub[0].SubTasks, 1)
	assert.Empty(t, original[0].SubTasks)
}

func TestEditTask_PreservesPosition(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Text: "first"},
		{ID: 2, Text: "second"},
		{ID: 3, Text: "third"},
	}
	got, err := EditTask(tasks, models.Task{ID: 2, Text: "renamed", Completed: true})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "renamed", got[1].Text)
	assert.True(t, got[1].Completed)
	assert.Equal(t, int64(3), got[2].ID)

	unchanged, err := EditTask(tasks, models.Task{ID: 99, Text: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, tasks, unchanged)
}

func TestRemoveTask_CascadesSubTasks(t *testing.T) {
	tasks, _, err := AddTask(nil, 1, "parent", "")
	require.NoError(t, err)
	tasks, _, err = AddTask(tasks, 2, "other", "")
	require.NoError(t, err)
	tasks, _, err = AddSubTask(tasks, 1, 10, "child a", "")
	require.NoError(t, err)
	tasks, _, err = AddSubTask(tasks, 1, 11, "child b", "")
	require.NoError(t, err)

	tasks = RemoveTask(tasks, 1)

	require.Len(t, tasks, 1)
	for _, task := range tasks {
		for _, sub := range task.SubTasks {
			assert.NotContains(t, []int64{10, 11}, sub.ID)
		}
	}
}

func TestSubTaskLifecycle(t *testing.T) {
	tasks, _, _ := AddTask(nil, 1, "parent", "")

	_, _, err := AddSubTask(tasks, 7, 2, "orphan", "")
	assert.ErrorIs(t, err, ErrValidation)

	tasks, sub, err := AddSubTask(tasks, 1, 2, "child", "details")
	require.NoError(t, err)
	assert.Equal(t, "details", sub.Description)

	tasks = ToggleSubTask(tasks, 1, 2)
	assert.True(t, tasks[0].SubTasks[0].Completed)

	tasks, err = EditSubTask(tasks, 1, models.SubTask{ID: 2, Text: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", tasks[0].SubTasks[0].Text)

	tasks = RemoveSubTask(tasks, 1, 2)
	assert.Empty(t, tasks[0].SubTasks)
}

func TestAddEvent_Validation(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	_, _, err := AddEvent(nil, 1, "", start, end, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = AddEvent(nil, 1, "standup", time.Time{}, end, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = AddEvent(nil, 1, "standup", start, time.Time{}, "")
	assert.ErrorIs(t, err, ErrValidation)

	events, ev, err := AddEvent(nil, 1, "standup", start, end, "daily")
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.True(t, ev.Start.Equal(start))
}

func TestAddMilestone_RequiresDueDate(t *testing.T) {
	existing := []models.Milestone{{ID: 1, Title: "beta", DueDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}}

	got, _, err := AddMilestone(existing, 2, "launch", time.Time{})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, existing, got)

	_, _, err = AddMilestone(existing, 2, " ", time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddTimeEntry_Validation(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := AddTimeEntry(nil, 1, "", 1, day)
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = AddTimeEntry(nil, 1, "review", 0, day)
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = AddTimeEntry(nil, 1, "review", -2, day)
	assert.ErrorIs(t, err, ErrValidation)

	entries, _, err := AddTimeEntry(nil, 1, "review", 1.5, day)
	require.NoError(t, err)
	assert.Equal(t, 1.5, entries[0].Duration)
}

func TestBugs(t *testing.T) {
	_, _, err := AddBug(nil, 1, "crash", "", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = AddBug(nil, 1, "crash", "on save", "Wontfix")
	assert.ErrorIs(t, err, ErrValidation)

	bugs, bug, err := AddBug(nil, 1, "crash", "on save", "")
	require.NoError(t, err)
	assert.Equal(t, models.BugOpen, bug.Status)

	bugs, err = SetBugStatus(bugs, 1, bug.Status.Next())
	require.NoError(t, err)
	assert.Equal(t, models.BugInProgress, bugs[0].Status)
}

func TestGoalProgressIsClamped(t *testing.T) {
	goals, _, err := AddGoal(nil, 1, "ship", "")
	require.NoError(t, err)
	assert.NotNil(t, goals[0].Tasks)

	assert.Equal(t, 100, SetGoalProgress(goals, 1, 140)[0].Progress)
	assert.Equal(t, 0, SetGoalProgress(goals, 1, -3)[0].Progress)
	assert.Equal(t, 55, SetGoalProgress(goals, 1, 55)[0].Progress)
}

func TestContains(t *testing.T) {
	tasks := []models.Task{{ID: 1}, {ID: 2}}
	assert.True(t, Contains(tasks, 2, taskID))
	assert.False(t, Contains(tasks, 3, taskID))
	assert.False(t, Contains(nil, 1, taskID))
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseTags("a, b ,c"))
	assert.Equal(t, []string{"a", "b"}, ParseTags("a,,b, ,"))
	assert.Equal(t, []string{}, ParseTags(""))
}

func TestAddIdea_DerivesTags(t *testing.T) {
	ideas, idea, err := AddIdea(nil, 1, "X", "", "a, b ,c")
	require.NoError(t, err)
	assert.Len(t, ideas, 1)
	assert.Equal(t, []string{"a", "b", "c"}, idea.Tags)
}

func TestAddInvite(t *testing.T) {
	_, _, err := AddInvite(nil, 1, "planboard", "", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = AddInvite(nil, 1, "planboard", "a@example.com", "owner")
	assert.ErrorIs(t, err, ErrValidation)

	_, inv, err := AddInvite(nil, 1, "planboard", "a@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, models.PermissionRead, inv.Permissions)
}

func TestIDGenerator_Monotonic(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	gen := NewIDGenerator(func() time.Time { return fixed })

	a, b, c := gen.Next(), gen.Next(), gen.Next()
	assert.Equal(t, fixed.UnixMilli(), a)
	assert.Equal(t, a+1, b)
	assert.Equal(t, b+1, c)

	gen.Observe(fixed.UnixMilli() + 100)
	assert.Equal(t, fixed.UnixMilli()+101, gen.Next())
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	s := New()
	snap := models.NewSnapshot()
	snap.Tasks = []models.Task{{ID: 1, Text: "a", SubTasks: []models.SubTask{}}}
	s.Replace(snap)

	// mutating the caller's value after Replace must not leak in
	snap.Tasks[0].Text = "changed"
	assert.Equal(t, "a", s.Snapshot().Tasks[0].Text)

	// nor may mutating a value read out of the store
	out := s.Snapshot()
	out.Tasks[0].Text = "changed"
	assert.Equal(t, "a", s.Snapshot().Tasks[0].Text)
}

func TestStore_Subscribe(t *testing.T) {
	s := New()
	var seen []int
	cancel := s.Subscribe(func(snap models.Snapshot) {
		seen = append(seen, len(snap.Tasks))
	})

	snap := models.NewSnapshot()
	snap.Tasks = []models.Task{{ID: 1, Text: "a"}}
	s.Replace(snap)
	s.Replace(models.NewSnapshot())
	cancel()
	s.Replace(snap)

	assert.Equal(t, []int{1, 0}, seen)
}
