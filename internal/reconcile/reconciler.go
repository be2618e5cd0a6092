package reconcile

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/nakachan-ing/agenda-cli/internal/model"
	"github.com/nakachan-ing/agenda-cli/internal/util"
)

// ChangeField names the task field a change entry targets.
type ChangeField string

const (
	FieldStatus ChangeField = "status"
	FieldTitle  ChangeField = "title"
	FieldDue    ChangeField = "due"
)

// Change is one detected field-level difference, with display values.
type Change struct {
	Field ChangeField
	Old   string
	New   string
}

// TaskDiff aggregates every pending change for one stored task.
type TaskDiff struct {
	TaskID    int64
	TaskTitle string // stored title at diff time, for display
	Changes   []Change

	newStatus *model.TaskStatus
	newTitle  *string
	newDue    *time.Time
}

// DiffReport is the pure output of the diff phase.
type DiffReport struct {
	Records   int // parsed records considered
	Matched   int // records paired with exactly one stored task
	Unchanged int // matched records with zero change entries
	Unmatched int // records with no qualifying stored task
	Ambiguous int // records with several qualifying stored tasks
	Diffs     []*TaskDiff
}

// ApplyResult records the per-task outcome of the apply phase. Err is nil
// for tasks whose update call returned a materialized record.
type ApplyResult struct {
	TaskID    int64
	TaskTitle string
	Err       error
}

// ApplyReport summarizes one apply phase.
type ApplyReport struct {
	Updated int
	Failed  int
	Results []ApplyResult
}

// Reconciler runs the two-phase agenda reconciliation against a store.
// Diff never writes; Apply is the only side-effecting phase, so dry-run
// is just the choice not to call it.
type Reconciler struct {
	Store Store
}

// Diff groups parsed records by date, fetches the stored tasks due on
// each date once, matches every record, and computes its change entries.
// It performs no writes.
func (r *Reconciler) Diff(records []model.ParsedTask) (*DiffReport, error) {
	report := &DiffReport{Records: len(records)}

	byDate := map[time.Time][]model.ParsedTask{}
	var dates []time.Time
	for _, rec := range records {
		d := util.DateOf(rec.Date)
		if _, seen := byDate[d]; !seen {
			dates = append(dates, d)
		}
		byDate[d] = append(byDate[d], rec)
	}
	// Date groups may run in any order; ascending keeps output stable.
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// Aggregate change entries per task id: several records can match
	// the same stored task only through distinct fields in theory, but
	// one diff per task keeps the apply phase to one update call each.
	diffByTask := map[int64]*TaskDiff{}

	for _, date := range dates {
		stored, err := tasksDueOn(r.Store, date)
		if err != nil {
			return nil, fmt.Errorf("fetch tasks due %s: %w", date.Format("2006-01-02"), err)
		}

		for _, rec := range byDate[date] {
			match := MatchTask(rec, stored)
			if match.Ambiguous() {
				report.Ambiguous++
				log.Printf("⚠️ %d stored tasks qualify for %q on %s, leaving all untouched",
					len(match.Candidates), rec.Title, date.Format("2006-01-02"))
				continue
			}
			if !match.Matched() {
				report.Unmatched++
				continue
			}
			report.Matched++

			diff := r.diffRecord(rec, match.Task)
			if len(diff.Changes) == 0 {
				report.Unchanged++
				continue
			}
			if existing, ok := diffByTask[diff.TaskID]; ok {
				existing.merge(diff)
				continue
			}
			diffByTask[diff.TaskID] = diff
			report.Diffs = append(report.Diffs, diff)
		}
	}

	return report, nil
}

// diffRecord computes the change entries between one parsed record and
// the stored task it matched.
func (r *Reconciler) diffRecord(rec model.ParsedTask, task *model.Task) *TaskDiff {
	diff := &TaskDiff{TaskID: task.ID, TaskTitle: task.Title}

	// Status: unknown markers carry no status information.
	if status, ok := model.StatusFromMarker(rec.Marker); !ok {
		log.Printf("⚠️ Unrecognized status marker %q on %q, ignoring status", rec.Marker, rec.Title)
	} else if status != task.Status {
		diff.newStatus = &status
		diff.Changes = append(diff.Changes, Change{
			Field: FieldStatus, Old: string(task.Status), New: string(status),
		})
	}

	// Title: compared in normalized form, applied in raw markdown form.
	if util.NormalizeTitle(rec.Title) != util.NormalizeTitle(task.Title) {
		title := rec.Title
		diff.newTitle = &title
		diff.Changes = append(diff.Changes, Change{
			Field: FieldTitle, Old: task.Title, New: title,
		})
	}

	// Due: candidate built from the record's date and optional time,
	// with an unparseable time degrading to the all-day form.
	hour, min, hasTime := util.ParseClock(rec.TimeStr)
	candidate := util.CombineDateTime(util.DateOf(rec.Date), 0, 0)
	if hasTime {
		candidate = util.CombineDateTime(util.DateOf(rec.Date), hour, min)
	}
	if task.DueAt == nil || !task.DueAt.Truncate(time.Second).Equal(candidate) {
		due := candidate
		diff.newDue = &due
		diff.Changes = append(diff.Changes, Change{
			Field: FieldDue, Old: formatDue(task.DueAt), New: formatDue(&due),
		})
	}

	return diff
}

func (d *TaskDiff) merge(other *TaskDiff) {
	if other.newStatus != nil && d.newStatus == nil {
		d.newStatus = other.newStatus
	}
	if other.newTitle != nil && d.newTitle == nil {
		d.newTitle = other.newTitle
	}
	if other.newDue != nil && d.newDue == nil {
		d.newDue = other.newDue
	}
	d.Changes = append(d.Changes, other.Changes...)
}

// Apply issues one update per task with pending changes. Identity-
// affecting changes regenerate the fingerprint first; a fingerprint
// already held by another task fails that task's update and the batch
// moves on. Every collision check reads current store state, since an
// earlier update in the same run can change its outcome.
func (r *Reconciler) Apply(report *DiffReport) *ApplyReport {
	applied := &ApplyReport{}

	for _, diff := range report.Diffs {
		res := ApplyResult{TaskID: diff.TaskID, TaskTitle: diff.TaskTitle}
		res.Err = r.applyDiff(diff)
		if res.Err != nil {
			applied.Failed++
		} else {
			applied.Updated++
		}
		applied.Results = append(applied.Results, res)
	}

	return applied
}

func (r *Reconciler) applyDiff(diff *TaskDiff) error {
	upd := model.TaskUpdate{
		Title:  diff.newTitle,
		Status: diff.newStatus,
		DueAt:  diff.newDue,
	}

	if diff.newTitle != nil || diff.newDue != nil {
		current, err := r.Store.Get(diff.TaskID)
		if err != nil {
			return fmt.Errorf("task vanished before update: %w", err)
		}

		title := current.Title
		if diff.newTitle != nil {
			title = *diff.newTitle
		}
		due := current.DueAt
		if diff.newDue != nil {
			due = diff.newDue
		}

		fp, err := util.TaskFingerprint(title, due)
		if err != nil {
			return fmt.Errorf("regenerate fingerprint: %w", err)
		}
		if fp != current.Fingerprint {
			holder, err := r.Store.GetByFingerprint(fp)
			if err != nil {
				return fmt.Errorf("fingerprint collision check: %w", err)
			}
			if holder != nil && holder.ID != diff.TaskID {
				return fmt.Errorf("update would duplicate fingerprint of task %d (%q)", holder.ID, holder.Title)
			}
			upd.Fingerprint = &fp
		}
	}

	updated, err := r.Store.Update(diff.TaskID, upd)
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("store returned no record for task %d", diff.TaskID)
	}
	return nil
}

func formatDue(t *time.Time) string {
	if t == nil {
		return "none"
	}
	if util.IsAllDay(*t) {
		return t.Format("2006-01-02") + " (all-day)"
	}
	return t.Format("2006-01-02 15:04")
}
