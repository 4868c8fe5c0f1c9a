package models

import "time"

// BugStatus is the lifecycle state of a bug
type BugStatus string

const (
	BugOpen       BugStatus = "Open"
	BugInProgress BugStatus = "In Progress"
	BugClosed     BugStatus = "Closed"
)

// Valid reports whether s is one of the known statuses
func (s BugStatus) Valid() bool {
	switch s {
	case BugOpen, BugInProgress, BugClosed:
		return true
	}
	return false
}

// Next cycles Open -> In Progress -> Closed -> Open
func (s BugStatus) Next() BugStatus {
	switch s {
	case BugOpen:
		return BugInProgress
	case BugInProgress:
		return BugClosed
	}
	return BugOpen
}

// Permission is the access level offered by a collaboration invite
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionAdmin Permission = "admin"
)

func (p Permission) Valid() bool {
	switch p {
	case PermissionRead, PermissionWrite, PermissionAdmin:
		return true
	}
	return false
}

// SubTask is owned by exactly one Task
type SubTask struct {
	ID          int64  `json:"id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	Description string `json:"description,omitempty"`
}

// Task represents a single to-do item with its sub-tasks
type Task struct {
	ID          int64     `json:"id"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	Description string    `json:"description,omitempty"`
	SubTasks    []SubTask `json:"subTasks"`
}

// Event is a calendar entry
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description,omitempty"`
}

// Milestone is a dated checkpoint in the plan
type Milestone struct {
	ID      int64     `json:"id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"dueDate"`
}

// TimeEntry records hours spent against a free-text task label
type TimeEntry struct {
	ID       int64     `json:"id"`
	Task     string    `json:"task"`
	Duration float64   `json:"duration"` // hours
	Date     time.Time `json:"date"`
}

// Bug represents a tracked defect
type Bug struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      BugStatus `json:"status"`
}

// Goal represents a longer-term objective
type Goal struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tasks       []Task `json:"tasks"`
	Progress    int    `json:"progress"` // 0-100
}

// Idea is a tagged note
type Idea struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// CollaborationInvite is an inert record; nothing is ever delivered
type CollaborationInvite struct {
	ID           int64      `json:"id"`
	ProjectName  string     `json:"projectName"`
	InviteeEmail string     `json:"inviteeEmail"`
	Permissions  Permission `json:"permissions"`
}

// Snapshot is the aggregate of every collection. It is the unit of undo,
// redo, save and load.
type Snapshot struct {
	Tasks                []Task                `json:"tasks"`
	Events               []Event               `json:"events"`
	Milestones           []Milestone           `json:"milestones"`
	TimeEntries          []TimeEntry           `json:"timeEntries"`
	Bugs                 []Bug                 `json:"bugs"`
	Goals                []Goal                `json:"goals"`
	Ideas                []Idea                `json:"ideas"`
	CollaborationInvites []CollaborationInvite `json:"collaborationInvites"`
}

// NewSnapshot returns a snapshot with every collection empty (never nil)
func NewSnapshot() Snapshot {
	return Snapshot{
		Tasks:                []Task{},
		Events:               []Event{},
		Milestones:           []Milestone{},
		TimeEntries:          []TimeEntry{},
		Bugs:                 []Bug{},
		Goals:                []Goal{},
		Ideas:                []Idea{},
		CollaborationInvites: []CollaborationInvite{},
	}
}

// IsEmpty reports whether every collection is empty
func (s Snapshot) IsEmpty() bool {
	return len(s.Tasks) == 0 && len(s.Events) == 0 && len(s.Milestones) == 0 &&
		len(s.TimeEntries) == 0 && len(s.Bugs) == 0 && len(s.Goals) == 0 &&
		len(s.Ideas) == 0 && len(s.CollaborationInvites) == 0
}

// Clone returns a deep copy sharing no backing arrays with s. Instants are
// normalized to UTC and every slice in the result is non-nil.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Tasks:                cloneTasks(s.Tasks),
		Events:               make([]Event, len(s.Events)),
		Milestones:           make([]Milestone, len(s.Milestones)),
		TimeEntries:          make([]TimeEntry, len(s.TimeEntries)),
		Bugs:                 make([]Bug, len(s.Bugs)),
		Goals:                make([]Goal, len(s.Goals)),
		Ideas:                make([]Idea, len(s.Ideas)),
		CollaborationInvites: make([]CollaborationInvite, len(s.CollaborationInvites)),
	}
	for i, e := range s.Events {
		e.Start = e.Start.UTC()
		e.End = e.End.UTC()
		c.Events[i] = e
	}
	for i, m := range s.Milestones {
		m.DueDate = m.DueDate.UTC()
		c.Milestones[i] = m
	}
	for i, te := range s.TimeEntries {
		te.Date = te.Date.UTC()
		c.TimeEntries[i] = te
	}
	copy(c.Bugs, s.Bugs)
	for i, g := range s.Goals {
		g.Tasks = cloneTasks(g.Tasks)
		c.Goals[i] = g
	}
	for i, idea := range s.Ideas {
		idea.Tags = append(make([]string, 0, len(idea.Tags)), idea.Tags...)
		c.Ideas[i] = idea
	}
	copy(c.CollaborationInvites, s.CollaborationInvites)
	return c
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.SubTasks = append(make([]SubTask, 0, len(t.SubTasks)), t.SubTasks...)
		out[i] = t
	}
	return out
}
