package reconcile

import (
	"time"

	"github.com/nakachan-ing/agenda-cli/internal/model"
	"github.com/nakachan-ing/agenda-cli/internal/util"
)

// Store is the task store collaborator the engine reconciles against. All
// calls are synchronous; Update is atomic per call and returns the
// materialized record, or an error when the row vanished.
type Store interface {
	Get(id int64) (*model.Task, error)
	// GetByFingerprint returns nil, nil when no task holds the fingerprint.
	GetByFingerprint(fp string) (*model.Task, error)
	All() ([]*model.Task, error)
	Update(id int64, upd model.TaskUpdate) (*model.Task, error)
	AddTag(id int64, tag string) (*model.Task, error)
}

// DueOnQuerier is an optional store capability: direct date-indexed
// lookup. Stores without it are served through All plus in-memory
// filtering; the engine checks for the capability explicitly instead of
// keeping fallback state.
type DueOnQuerier interface {
	DueOn(date time.Time) ([]*model.Task, error)
	DueOnWithTime(date time.Time, excludeID int64) ([]*model.Task, error)
}

// tasksDueOn fetches the stored tasks due on a calendar date, using the
// date-indexed lookup when the store supports it.
func tasksDueOn(s Store, date time.Time) ([]*model.Task, error) {
	if q, ok := s.(DueOnQuerier); ok {
		return q.DueOn(date)
	}
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	var due []*model.Task
	for _, t := range all {
		if t.DueAt != nil && sameDate(*t.DueAt, date) {
			due = append(due, t)
		}
	}
	return due, nil
}

// timedTasksDueOn fetches same-date tasks that carry a specific (non
// midnight) due time, excluding excludeID.
func timedTasksDueOn(s Store, date time.Time, excludeID int64) ([]*model.Task, error) {
	if q, ok := s.(DueOnQuerier); ok {
		return q.DueOnWithTime(date, excludeID)
	}
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	var due []*model.Task
	for _, t := range all {
		if t.ID == excludeID || t.DueAt == nil {
			continue
		}
		if sameDate(*t.DueAt, date) && !util.IsAllDay(*t.DueAt) {
			due = append(due, t)
		}
	}
	return due, nil
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
