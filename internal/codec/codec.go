// Package codec converts project snapshots to and from JSON.
//
// Decoding never trusts a generic unmarshal for instants: every date field
// is read as raw JSON and revived through ParseInstant, so files written by
// older versions (epoch milliseconds, datetime-local strings) load too.
// Collections missing from the input come back as empty slices.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tgienger/planboard/internal/models"
)

// ErrDecode is matched by every DecodeError
var ErrDecode = errors.New("decode snapshot")

// DecodeError carries the underlying parse failure
type DecodeError struct {
	Source string // what was being decoded, e.g. "projectData" or a file path
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("decode snapshot: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// Encode serializes a snapshot as compact JSON
func Encode(s models.Snapshot) ([]byte, error) {
	data, err := json.Marshal(s.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// EncodeIndent serializes a snapshot with two space indentation
func EncodeIndent(s models.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// wire types mirror the models but keep instants raw until revived

type wireEvent struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Start       json.RawMessage `json:"start"`
	End         json.RawMessage `json:"end"`
	Description string          `json:"description,omitempty"`
}

type wireMilestone struct {
	ID      int64           `json:"id"`
	Title   string          `json:"title"`
	DueDate json.RawMessage `json:"dueDate"`
}

type wireTimeEntry struct {
	ID       int64           `json:"id"`
	Task     string          `json:"task"`
	Duration float64         `json:"duration"`
	Date     json.RawMessage `json:"date"`
}

type wireSnapshot struct {
	Tasks                []models.Task                `json:"tasks"`
	Events               []wireEvent                  `json:"events"`
	Milestones           []wireMilestone              `json:"milestones"`
	TimeEntries          []wireTimeEntry              `json:"timeEntries"`
	Bugs                 []models.Bug                 `json:"bugs"`
	Goals                []models.Goal                `json:"goals"`
	Ideas                []models.Idea                `json:"ideas"`
	CollaborationInvites []models.CollaborationInvite `json:"collaborationInvites"`
}

// Decode parses snapshot JSON. Absent collections decode as empty.
func Decode(data []byte) (models.Snapshot, error) {
	return decodeNamed("", data)
}

func decodeNamed(source string, data []byte) (models.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return models.Snapshot{}, &DecodeError{Source: source, Err: errors.New("empty input")}
	}
	// only an object is a project; null would unmarshal as empty
	if trimmed[0] != '{' {
		return models.Snapshot{}, &DecodeError{Source: source, Err: errors.New("expected a JSON object")}
	}

	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return models.Snapshot{}, &DecodeError{Source: source, Err: err}
	}

	s, err := w.revive()
	if err != nil {
		return models.Snapshot{}, &DecodeError{Source: source, Err: err}
	}
	return s, nil
}

func (w wireSnapshot) revive() (models.Snapshot, error) {
	s := models.Snapshot{
		Tasks:                w.Tasks,
		Bugs:                 w.Bugs,
		Goals:                w.Goals,
		Ideas:                w.Ideas,
		CollaborationInvites: w.CollaborationInvites,
	}

	for i, we := range w.Events {
		start, err := ParseInstant(we.Start)
		if err != nil {
			return s, fmt.Errorf("events[%d].start: %w", i, err)
		}
		end, err := ParseInstant(we.End)
		if err != nil {
			return s, fmt.Errorf("events[%d].end: %w", i, err)
		}
		s.Events = append(s.Events, models.Event{
			ID:          we.ID,
			Title:       we.Title,
			Start:       start,
			End:         end,
			Description: we.Description,
		})
	}

	for i, wm := range w.Milestones {
		due, err := ParseInstant(wm.DueDate)
		if err != nil {
			return s, fmt.Errorf("milestones[%d].dueDate: %w", i, err)
		}
		s.Milestones = append(s.Milestones, models.Milestone{ID: wm.ID, Title: wm.Title, DueDate: due})
	}

	for i, wt := range w.TimeEntries {
		date, err := ParseInstant(wt.Date)
		if err != nil {
			return s, fmt.Errorf("timeEntries[%d].date: %w", i, err)
		}
		s.TimeEntries = append(s.TimeEntries, models.TimeEntry{ID: wt.ID, Task: wt.Task, Duration: wt.Duration, Date: date})
	}

	// Clone fills every nil slice, nested ones included
	return s.Clone(), nil
}

// instant layouts accepted besides RFC 3339, most specific first
var instantLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseInstant revives a raw JSON instant. It accepts RFC 3339 strings,
// datetime-local strings, plain dates and epoch milliseconds. An absent,
// null or empty value yields the zero time.
func ParseInstant(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, nil
	}

	if raw[0] != '"' {
		ms, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid instant %s", raw)
		}
		if ms < minInstantMillis || ms > maxInstantMillis {
			return time.Time{}, fmt.Errorf("instant %s is outside years 0 to 9999", raw)
		}
		return time.UnixMilli(int64(ms)).UTC(), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return time.Time{}, err
	}
	return ParseInstantText(text)
}

// ParseInstantText parses user or file supplied instant text. Values
// without a zone are read in local time. Empty text yields the zero time.
func ParseInstantText(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return checkYear(text, t.UTC())
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return checkYear(text, t.UTC())
		}
	}
	return time.Time{}, fmt.Errorf("invalid instant %q", text)
}

// Epoch milliseconds of 0000-01-01T00:00:00Z and 9999-12-31T23:59:59.999Z
const (
	minInstantMillis = -62167219200000
	maxInstantMillis = 253402300799999
)

// checkYear rejects instants that time.Time cannot encode back to JSON
func checkYear(text string, t time.Time) (time.Time, error) {
	if y := t.Year(); y < 0 || y > 9999 {
		return time.Time{}, fmt.Errorf("instant %q is outside years 0 to 9999", text)
	}
	return t, nil
}
