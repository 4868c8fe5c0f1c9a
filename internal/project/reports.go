package project

import (
	"sort"
	"time"

	"github.com/tgienger/planboard/internal/models"
)

// DayHours is the total time logged on one calendar day
type DayHours struct {
	Date  string  `json:"date"` // YYYY-MM-DD, local time
	Hours float64 `json:"hours"`
}

// HoursByDate sums time entry durations per local calendar day, oldest day
// first.
func (s *Service) HoursByDate() []DayHours {
	return hoursByDate(s.store.Snapshot().TimeEntries, time.Local)
}

func hoursByDate(entries []models.TimeEntry, loc *time.Location) []DayHours {
	totals := make(map[string]float64)
	for _, te := range entries {
		totals[te.Date.In(loc).Format("2006-01-02")] += te.Duration
	}

	days := make([]DayHours, 0, len(totals))
	for date, hours := range totals {
		days = append(days, DayHours{Date: date, Hours: hours})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// EventsOn lists the events whose span touches the local calendar day of
// day, ordered by start.
func (s *Service) EventsOn(day time.Time) []models.Event {
	return eventsOn(s.store.Snapshot().Events, day.In(time.Local))
}

func eventsOn(events []models.Event, day time.Time) []models.Event {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var matched []models.Event
	for _, e := range events {
		if e.Start.Before(end) && !e.End.Before(start) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Start.Before(matched[j].Start) })
	return matched
}
