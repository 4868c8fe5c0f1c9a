package store

import (
	"strings"
	"time"

	"github.com/tgienger/planboard/internal/models"
)

func eventID(e models.Event) int64          { return e.ID }
func milestoneID(m models.Milestone) int64  { return m.ID }
func timeEntryID(te models.TimeEntry) int64 { return te.ID }

func validateEvent(e models.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return required("event", "title")
	}
	if e.Start.IsZero() {
		return required("event", "start")
	}
	if e.End.IsZero() {
		return required("event", "end")
	}
	return nil
}

// AddEvent appends a calendar event. Title, start and end are required;
// start after end is accepted as-is.
func AddEvent(events []models.Event, id int64, title string, start, end time.Time, description string) ([]models.Event, models.Event, error) {
	e := models.Event{
		ID:          id,
		Title:       strings.TrimSpace(title),
		Start:       start.UTC(),
		End:         end.UTC(),
		Description: strings.TrimSpace(description),
	}
	if err := validateEvent(e); err != nil {
		return events, models.Event{}, err
	}
	return appendItem(events, e), e, nil
}

// EditEvent replaces the event with the same id
func EditEvent(events []models.Event, e models.Event) ([]models.Event, error) {
	e.Title = strings.TrimSpace(e.Title)
	e.Start, e.End = e.Start.UTC(), e.End.UTC()
	if err := validateEvent(e); err != nil {
		return events, err
	}
	return replaceByID(events, e.ID, eventID, func(models.Event) models.Event { return e }), nil
}

func RemoveEvent(events []models.Event, id int64) []models.Event {
	return removeByID(events, id, eventID)
}

// AddMilestone appends a milestone. Title and due date are required.
func AddMilestone(milestones []models.Milestone, id int64, title string, due time.Time) ([]models.Milestone, models.Milestone, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return milestones, models.Milestone{}, required("milestone", "title")
	}
	if due.IsZero() {
		return milestones, models.Milestone{}, required("milestone", "due date")
	}
	m := models.Milestone{ID: id, Title: title, DueDate: due.UTC()}
	return appendItem(milestones, m), m, nil
}

func EditMilestone(milestones []models.Milestone, m models.Milestone) ([]models.Milestone, error) {
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return milestones, required("milestone", "title")
	}
	if m.DueDate.IsZero() {
		return milestones, required("milestone", "due date")
	}
	m.DueDate = m.DueDate.UTC()
	return replaceByID(milestones, m.ID, milestoneID, func(models.Milestone) models.Milestone { return m }), nil
}

func RemoveMilestone(milestones []models.Milestone, id int64) []models.Milestone {
	return removeByID(milestones, id, milestoneID)
}

func validateTimeEntry(te models.TimeEntry) error {
	if strings.TrimSpace(te.Task) == "" {
		return required("time entry", "task")
	}
	if te.Duration == 0 {
		return required("time entry", "duration")
	}
	if te.Duration < 0 {
		return invalid("time entry", "duration", te.Duration)
	}
	if te.Date.IsZero() {
		return required("time entry", "date")
	}
	return nil
}

// AddTimeEntry appends hours logged against a free-text task label
func AddTimeEntry(entries []models.TimeEntry, id int64, task string, hours float64, date time.Time) ([]models.TimeEntry, models.TimeEntry, error) {
	te := models.TimeEntry{ID: id, Task: strings.TrimSpace(task), Duration: hours, Date: date.UTC()}
	if err := validateTimeEntry(te); err != nil {
		return entries, models.TimeEntry{}, err
	}
	return appendItem(entries, te), te, nil
}

func EditTimeEntry(entries []models.TimeEntry, te models.TimeEntry) ([]models.TimeEntry, error) {
	te.Task = strings.TrimSpace(te.Task)
	te.Date = te.Date.UTC()
	if err := validateTimeEntry(te); err != nil {
		return entries, err
	}
	return replaceByID(entries, te.ID, timeEntryID, func(models.TimeEntry) models.TimeEntry { return te }), nil
}

func RemoveTimeEntry(entries []models.TimeEntry, id int64) []models.TimeEntry {
	return removeByID(entries, id, timeEntryID)
}
