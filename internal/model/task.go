package model

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "Pending"
	StatusDone      TaskStatus = "Done"
	StatusCancelled TaskStatus = "Cancelled"
)

// Marker returns the agenda checkbox marker for the status.
func (s TaskStatus) Marker() string {
	switch s {
	case StatusDone:
		return "[x]"
	case StatusCancelled:
		return "[c]"
	default:
		return "[ ]"
	}
}

// StatusFromMarker decodes an agenda checkbox marker. The second return
// value is false for markers the agenda format does not define.
func StatusFromMarker(marker string) (TaskStatus, bool) {
	switch marker {
	case "[ ]":
		return StatusPending, true
	case "[x]", "[X]":
		return StatusDone, true
	case "[c]", "[C]":
		return StatusCancelled, true
	}
	return "", false
}

// Task is a persisted task record. A DueAt at exactly midnight means the
// task is due that day with no specific time, not an event at 00:00.
type Task struct {
	ID          int64      `json:"id"`
	Source      string     `json:"source"` // e.g. "cli", "agenda"
	Title       string     `json:"title"`
	Body        string     `json:"body,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Status      TaskStatus `json:"status"`
	Tags        []string   `json:"tags,omitempty"` // insertion order, no duplicates
	Fingerprint string     `json:"fingerprint,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasTag reports whether the task already carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// TaskUpdate is a partial update applied to a stored task. Nil fields are
// left untouched; ClearDue removes the due timestamp.
type TaskUpdate struct {
	Title       *string
	Body        *string
	DueAt       *time.Time
	ClearDue    bool
	Status      *TaskStatus
	Tags        []string
	Fingerprint *string
	Source      *string
}

// IsEmpty reports whether the update would change nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Body == nil && u.DueAt == nil && !u.ClearDue &&
		u.Status == nil && u.Tags == nil && u.Fingerprint == nil && u.Source == nil
}

// ParsedTask is one task line parsed out of an agenda file. It lives only
// for the duration of a reconciliation run and is never persisted.
type ParsedTask struct {
	Date    time.Time // calendar date of the section the line appeared in
	Marker  string    // raw status marker, e.g. "[x]"
	TimeStr string    // "HH:MM", empty when the line carried no time
	Title   string
	Tags    []string
}
