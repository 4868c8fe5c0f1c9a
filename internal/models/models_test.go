package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClone_SharesNothing(t *testing.T) {
	s := NewSnapshot()
	s.Tasks = []Task{{ID: 1, Text: "a", SubTasks: []SubTask{{ID: 2, Text: "b"}}}}
	s.Goals = []Goal{{ID: 3, Title: "g", Tasks: []Task{{ID: 4, Text: "c", SubTasks: []SubTask{}}}}}
	s.Ideas = []Idea{{ID: 5, Title: "i", Tags: []string{"x"}}}

	c := s.Clone()
	c.Tasks[0].SubTasks[0].Text = "changed"
	c.Goals[0].Tasks[0].Text = "changed"
	c.Ideas[0].Tags[0] = "changed"

	assert.Equal(t, "b", s.Tasks[0].SubTasks[0].Text)
	assert.Equal(t, "c", s.Goals[0].Tasks[0].Text)
	assert.Equal(t, "x", s.Ideas[0].Tags[0])
}

func TestClone_FillsNilSlices(t *testing.T) {
	c := Snapshot{Tasks: []Task{{ID: 1}}}.Clone()

	assert.Equal(t, NewSnapshot().Events, c.Events)
	assert.NotNil(t, c.Tasks[0].SubTasks)
	assert.NotNil(t, c.CollaborationInvites)
}

func TestClone_NormalizesInstantsToUTC(t *testing.T) {
	zone := time.FixedZone("east", 3*60*60)
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, zone)
	s := NewSnapshot()
	s.Events = []Event{{ID: 1, Title: "e", Start: at, End: at}}

	c := s.Clone()
	assert.Equal(t, time.UTC, c.Events[0].Start.Location())
	assert.True(t, c.Events[0].Start.Equal(at))
}

func TestBugStatus_Next(t *testing.T) {
	assert.Equal(t, BugInProgress, BugOpen.Next())
	assert.Equal(t, BugClosed, BugInProgress.Next())
	assert.Equal(t, BugOpen, BugClosed.Next())
	assert.False(t, BugStatus("Done").Valid())
}

func TestSnapshot_IsEmpty(t *testing.T) {
	assert.True(t, NewSnapshot().IsEmpty())
	s := NewSnapshot()
	s.Bugs = []Bug{{ID: 1}}
	assert.False(t, s.IsEmpty())
}
