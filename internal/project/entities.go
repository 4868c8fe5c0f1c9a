package project

import (
	"context"
	"time"

	"github.com/tgienger/planboard/internal/history"
	"github.com/tgienger/planboard/internal/models"
	"github.com/tgienger/planboard/internal/store"
)

// present returns history.ErrNoChange when id is absent so that operations
// on missing entities are silent no-ops.
func present[T any](items []T, id int64, idOf func(T) int64) error {
	if store.Contains(items, id, idOf) {
		return nil
	}
	return history.ErrNoChange
}

func (s *Service) perform(ctx context.Context, name string, fn history.Mutation) error {
	return s.history.Perform(ctx, name, fn)
}

// Tasks

func (s *Service) AddTask(ctx context.Context, text, description string) (models.Task, error) {
	var added models.Task
	err := s.perform(ctx, "add task", func(snap models.Snapshot) (models.Snapshot, error) {
		tasks, task, err := store.AddTask(snap.Tasks, s.ids.Next(), text, description)
		if err != nil {
			return snap, err
		}
		snap.Tasks, added = tasks, task
		return snap, nil
	})
	return added, err
}

func (s *Service) ToggleTask(ctx context.Context, id int64) error {
	return s.perform(ctx, "toggle task", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Tasks, id, taskID); err != nil {
			return snap, err
		}
		snap.Tasks = store.ToggleTask(snap.Tasks, id)
		return snap, nil
	})
}

func (s *Service) EditTask(ctx context.Context, task models.Task) error {
	return s.perform(ctx, "edit task", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Tasks, task.ID, taskID); err != nil {
			return snap, err
		}
		tasks, err := store.EditTask(snap.Tasks, task)
		snap.Tasks = tasks
		return snap, err
	})
}

func (s *Service) RemoveTask(ctx context.Context, id int64) error {
	return s.perform(ctx, "remove task", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Tasks, id, taskID); err != nil {
			return snap, err
		}
		snap.Tasks = store.RemoveTask(snap.Tasks, id)
		return snap, nil
	})
}

func (s *Service) AddSubTask(ctx context.Context, parentID int64, text, description string) (models.SubTask, error) {
	var added models.SubTask
	err := s.perform(ctx, "add sub-task", func(snap models.Snapshot) (models.Snapshot, error) {
		tasks, sub, err := store.AddSubTask(snap.Tasks, parentID, s.ids.Next(), text, description)
		if err != nil {
			return snap, err
		}
		snap.Tasks, added = tasks, sub
		return snap, nil
	})
	return added, err
}

func (s *Service) ToggleSubTask(ctx context.Context, parentID, id int64) error {
	return s.perform(ctx, "toggle sub-task", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := presentSubTask(snap.Tasks, parentID, id); err != nil {
			return snap, err
		}
		snap.Tasks = store.ToggleSubTask(snap.Tasks, parentID, id)
		return snap, nil
	})
}

func (s *Service) EditSubTask(ctx context.Context, parentID int64, sub models.SubTask) error {
	return s.perform(ctx, "edit sub-task", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := presentSubTask(snap.Tasks, parentID, sub.ID); err != nil {
			return snap, err
		}
		tasks, err := store.EditSubTask(snap.Tasks, parentID, sub)
		snap.Tasks = tasks
		return snap, err
	})
}

func (s *Service) RemoveSubTask(ctx context.Context, parentID, id int64) error {
	return s.perform(ctx, "remove sub-task", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := presentSubTask(snap.Tasks, parentID, id); err != nil {
			return snap, err
		}
		snap.Tasks = store.RemoveSubTask(snap.Tasks, parentID, id)
		return snap, nil
	})
}

func presentSubTask(tasks []models.Task, parentID, id int64) error {
	for _, t := range tasks {
		if t.ID == parentID {
			return present(t.SubTasks, id, subTaskID)
		}
	}
	return history.ErrNoChange
}

// Events

func (s *Service) AddEvent(ctx context.Context, title string, start, end time.Time, description string) (models.Event, error) {
	var added models.Event
	err := s.perform(ctx, "add event", func(snap models.Snapshot) (models.Snapshot, error) {
		events, e, err := store.AddEvent(snap.Events, s.ids.Next(), title, start, end, description)
		if err != nil {
			return snap, err
		}
		snap.Events, added = events, e
		return snap, nil
	})
	return added, err
}

func (s *Service) EditEvent(ctx context.Context, e models.Event) error {
	return s.perform(ctx, "edit event", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Events, e.ID, eventID); err != nil {
			return snap, err
		}
		events, err := store.EditEvent(snap.Events, e)
		snap.Events = events
		return snap, err
	})
}

func (s *Service) RemoveEvent(ctx context.Context, id int64) error {
	return s.perform(ctx, "remove event", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Events, id, eventID); err != nil {
			return snap, err
		}
		snap.Events = store.RemoveEvent(snap.Events, id)
		return snap, nil
	})
}

// Milestones

func (s *Service) AddMilestone(ctx context.Context, title string, due time.Time) (models.Milestone, error) {
	var added models.Milestone
	err := s.perform(ctx, "add milestone", func(snap models.Snapshot) (models.Snapshot, error) {
		ms, m, err := store.AddMilestone(snap.Milestones, s.ids.Next(), title, due)
		if err != nil {
			return snap, err
		}
		snap.Milestones, added = ms, m
		return snap, nil
	})
	return added, err
}

func (s *Service) EditMilestone(ctx context.Context, m models.Milestone) error {
	return s.perform(ctx, "edit milestone", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Milestones, m.ID, milestoneID); err != nil {
			return snap, err
		}
		ms, err := store.EditMilestone(snap.Milestones, m)
		snap.Milestones = ms
		return snap, err
	})
}

func (s *Service) RemoveMilestone(ctx context.Context, id int64) error {
	return s.perform(ctx, "remove milestone", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Milestones, id, milestoneID); err != nil {
			return snap, err
		}
		snap.Milestones = store.RemoveMilestone(snap.Milestones, id)
		return snap, nil
	})
}

// Time entries

func (s *Service) AddTimeEntry(ctx context.Context, task string, hours float64, date time.Time) (models.TimeEntry, error) {
	var added models.TimeEntry
	err := s.perform(ctx, "add time entry", func(snap models.Snapshot) (models.Snapshot, error) {
		entries, te, err := store.AddTimeEntry(snap.TimeEntries, s.ids.Next(), task, hours, date)
		if err != nil {
			return snap, err
		}
		snap.TimeEntries, added = entries, te
		return snap, nil
	})
	return added, err
}

func (s *Service) EditTimeEntry(ctx context.Context, te models.TimeEntry) error {
	return s.perform(ctx, "edit time entry", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.TimeEntries, te.ID, timeEntryID); err != nil {
			return snap, err
		}
		entries, err := store.EditTimeEntry(snap.TimeEntries, te)
		snap.TimeEntries = entries
		return snap, err
	})
}

func (s *Service) RemoveTimeEntry(ctx context.Context, id int64) error {
	return s.perform(ctx, "remove time entry", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.TimeEntries, id, timeEntryID); err != nil {
			return snap, err
		}
		snap.TimeEntries = store.RemoveTimeEntry(snap.TimeEntries, id)
		return snap, nil
	})
}

// Bugs

func (s *Service) AddBug(ctx context.Context, title, description string, status models.BugStatus) (models.Bug, error) {
	var added models.Bug
	err := s.perform(ctx, "add bug", func(snap models.Snapshot) (models.Snapshot, error) {
		bugs, b, err := store.AddBug(snap.Bugs, s.ids.Next(), title, description, status)
		if err != nil {
			return snap, err
		}
		snap.Bugs, added = bugs, b
		return snap, nil
	})
	return added, err
}

func (s *Service) SetBugStatus(ctx context.Context, id int64, status models.BugStatus) error {
	return s.perform(ctx, "set bug status", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Bugs, id, bugID); err != nil {
			return snap, err
		}
		bugs, err := store.SetBugStatus(snap.Bugs, id, status)
		snap.Bugs = bugs
		return snap, err
	})
}

// CycleBugStatus advances a bug Open -> In Progress -> Closed -> Open
func (s *Service) CycleBugStatus(ctx context.Context, id int64) error {
	return s.perform(ctx, "cycle bug status", func(snap models.Snapshot) (models.Snapshot, error) {
		for _, b := range snap.Bugs {
			if b.ID == id {
				bugs, err := store.SetBugStatus(snap.Bugs, id, b.Status.Next())
				snap.Bugs = bugs
				return snap, err
			}
		}
		return snap, history.ErrNoChange
	})
}

func (s *Service) EditBug(ctx context.Context, b models.Bug) error {
	return s.perform(ctx, "edit bug", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Bugs, b.ID, bugID); err != nil {
			return snap, err
		}
		bugs, err := store.EditBug(snap.Bugs, b)
		snap.Bugs = bugs
		return snap, err
	})
}

func (s *Service) RemoveBug(ctx context.Context, id int64) error {
	return s.perform(ctx, "remove bug", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Bugs, id, bugID); err != nil {
			return snap, err
		}
		snap.Bugs = store.RemoveBug(snap.Bugs, id)
		return snap, nil
	})
}

// Goals

func (s *Service) AddGoal(ctx context.Context, title, description string) (models.Goal, error) {
	var added models.Goal
	err := s.perform(ctx, "add goal", func(snap models.Snapshot) (models.Snapshot, error) {
		goals, g, err := store.AddGoal(snap.Goals, s.ids.Next(), title, description)
		if err != nil {
			return snap, err
		}
		snap.Goals, added = goals, g
		return snap, nil
	})
	return added, err
}

func (s *Service) SetGoalProgress(ctx context.Context, id int64, progress int) error {
	return s.perform(ctx, "set goal progress", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Goals, id, goalID); err != nil {
			return snap, err
		}
		snap.Goals = store.SetGoalProgress(snap.Goals, id, progress)
		return snap, nil
	})
}

func (s *Service) EditGoal(ctx context.Context, g models.Goal) error {
	return s.perform(ctx, "edit goal", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Goals, g.ID, goalID); err != nil {
			return snap, err
		}
		goals, err := store.EditGoal(snap.Goals, g)
		snap.Goals = goals
		return snap, err
	})
}

func (s *Service) RemoveGoal(ctx context.Context, id int64) error {
	return s.perform(ctx, "remove goal", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Goals, id, goalID); err != nil {
			return snap, err
		}
		snap.Goals = store.RemoveGoal(snap.Goals, id)
		return snap, nil
	})
}

// Ideas

// AddIdea stores an idea; tags is the raw comma separated input
func (s *Service) AddIdea(ctx context.Context, title, description, tags string) (models.Idea, error) {
	var added models.Idea
	err := s.perform(ctx, "add idea", func(snap models.Snapshot) (models.Snapshot, error) {
		ideas, idea, err := store.AddIdea(snap.Ideas, s.ids.Next(), title, description, tags)
		if err != nil {
			return snap, err
		}
		snap.Ideas, added = ideas, idea
		return snap, nil
	})
	return added, err
}

func (s *Service) EditIdea(ctx context.Context, idea models.Idea) error {
	return s.perform(ctx, "edit idea", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Ideas, idea.ID, ideaID); err != nil {
			return snap, err
		}
		ideas, err := store.EditIdea(snap.Ideas, idea)
		snap.Ideas = ideas
		return snap, err
	})
}

func (s *Service) RemoveIdea(ctx context.Context, id int64) error {
	return s.perform(ctx, "remove idea", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.Ideas, id, ideaID); err != nil {
			return snap, err
		}
		snap.Ideas = store.RemoveIdea(snap.Ideas, id)
		return snap, nil
	})
}

// Collaboration invites

func (s *Service) AddInvite(ctx context.Context, projectName, email string, perm models.Permission) (models.CollaborationInvite, error) {
	var added models.CollaborationInvite
	err := s.perform(ctx, "add invite", func(snap models.Snapshot) (models.Snapshot, error) {
		invites, c, err := store.AddInvite(snap.CollaborationInvites, s.ids.Next(), projectName, email, perm)
		if err != nil {
			return snap, err
		}
		snap.CollaborationInvites, added = invites, c
		return snap, nil
	})
	return added, err
}

func (s *Service) EditInvite(ctx context.Context, c models.CollaborationInvite) error {
	return s.perform(ctx, "edit invite", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.CollaborationInvites, c.ID, inviteID); err != nil {
			return snap, err
		}
		invites, err := store.EditInvite(snap.CollaborationInvites, c)
		snap.CollaborationInvites = invites
		return snap, err
	})
}

func (s *Service) RemoveInvite(ctx context.Context, id int64) error {
	return s.perform(ctx, "remove invite", func(snap models.Snapshot) (models.Snapshot, error) {
		if err := present(snap.CollaborationInvites, id, inviteID); err != nil {
			return snap, err
		}
		snap.CollaborationInvites = store.RemoveInvite(snap.CollaborationInvites, id)
		return snap, nil
	})
}

func taskID(t models.Task) int64                  { return t.ID }
func subTaskID(st models.SubTask) int64           { return st.ID }
func eventID(e models.Event) int64                { return e.ID }
func milestoneID(m models.Milestone) int64        { return m.ID }
func timeEntryID(te models.TimeEntry) int64       { return te.ID }
func bugID(b models.Bug) int64                    { return b.ID }
func goalID(g models.Goal) int64                  { return g.ID }
func ideaID(i models.Idea) int64                  { return i.ID }
func inviteID(c models.CollaborationInvite) int64 { return c.ID }
