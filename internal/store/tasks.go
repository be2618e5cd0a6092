package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nakachan-ing/agenda-cli/internal/model"
)

const taskColumns = "id, source, title, body, due_at, status, tags, fingerprint, created_at, updated_at"

// Create persists a new task and sets its ID, CreatedAt, and UpdatedAt.
func (s *SQLiteStore) Create(t *model.Task) (int64, error) {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	tags, _ := json.Marshal(t.Tags)

	res, err := s.db.Exec(`
		INSERT INTO tasks (source, title, body, due_at, status, tags, fingerprint, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		t.Source, t.Title, t.Body, nullDue(t.DueAt), string(t.Status),
		string(tags), t.Fingerprint, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert task id: %w", err)
	}
	t.ID = id
	return id, nil
}

// Get retrieves a task by ID. Returns ErrNotFound for unknown ids.
func (s *SQLiteStore) Get(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return t, err
}

// GetByFingerprint returns the task holding the given fingerprint, or nil
// when no task carries it. A fingerprint identifies at most one task.
func (s *SQLiteStore) GetByFingerprint(fp string) (*model.Task, error) {
	if fp == "" {
		return nil, nil
	}
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE fingerprint = ?`, fp)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// DueOn returns all tasks due on the given calendar date, ordered by due
// time then id.
func (s *SQLiteStore) DueOn(date time.Time) ([]*model.Task, error) {
	rows, err := s.db.Query(`
		SELECT `+taskColumns+` FROM tasks
		WHERE due_at IS NOT NULL AND date(due_at) = ?
		ORDER BY due_at ASC, id ASC`,
		date.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks due on %s: %w", date.Format("2006-01-02"), err)
	}
	return collectTasks(rows)
}

// DueOnWithTime returns tasks due on the given date that carry a specific
// time of day (due not at midnight), excluding excludeID. Used by the
// conflict window scan.
func (s *SQLiteStore) DueOnWithTime(date time.Time, excludeID int64) ([]*model.Task, error) {
	rows, err := s.db.Query(`
		SELECT `+taskColumns+` FROM tasks
		WHERE due_at IS NOT NULL AND date(due_at) = ?
			AND time(due_at) != '00:00:00' AND id != ?
		ORDER BY due_at ASC, id ASC`,
		date.Format("2006-01-02"), excludeID,
	)
	if err != nil {
		return nil, fmt.Errorf("query timed tasks due on %s: %w", date.Format("2006-01-02"), err)
	}
	return collectTasks(rows)
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status model.TaskStatus
	From   time.Time // due on or after this date
	To     time.Time // due on or before this date
	Limit  int
}

// List returns tasks matching the filter, due-date ascending with dateless
// tasks last.
func (s *SQLiteStore) List(filter ListFilter) ([]*model.Task, error) {
	q := strings.Builder{}
	q.WriteString("SELECT " + taskColumns + " FROM tasks WHERE 1=1")
	args := []any{}

	if filter.Status != "" {
		q.WriteString(" AND status = ?")
		args = append(args, string(filter.Status))
	}
	if !filter.From.IsZero() {
		q.WriteString(" AND due_at IS NOT NULL AND date(due_at) >= ?")
		args = append(args, filter.From.Format("2006-01-02"))
	}
	if !filter.To.IsZero() {
		q.WriteString(" AND due_at IS NOT NULL AND date(due_at) <= ?")
		args = append(args, filter.To.Format("2006-01-02"))
	}
	q.WriteString(" ORDER BY due_at IS NULL, due_at ASC, id ASC")
	if filter.Limit > 0 {
		q.WriteString(fmt.Sprintf(" LIMIT %d", filter.Limit))
	}

	rows, err := s.db.Query(q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return collectTasks(rows)
}

// All returns every task in the store. Satisfies callers that filter in
// memory when no date-indexed lookup is wanted.
func (s *SQLiteStore) All() ([]*model.Task, error) {
	return s.List(ListFilter{})
}

// Update applies a partial update to a stored task and returns the updated
// record, touching UpdatedAt. Returns ErrNotFound when the row vanished.
// One call carries every changed field, so the row moves atomically.
func (s *SQLiteStore) Update(id int64, upd model.TaskUpdate) (*model.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now()}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *upd.Body)
	}
	if upd.ClearDue {
		sets = append(sets, "due_at = NULL")
	} else if upd.DueAt != nil {
		sets = append(sets, "due_at = ?")
		args = append(args, upd.DueAt.Format(dueLayout))
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*upd.Status))
	}
	if upd.Tags != nil {
		tags, _ := json.Marshal(upd.Tags)
		sets = append(sets, "tags = ?")
		args = append(args, string(tags))
	}
	if upd.Fingerprint != nil {
		sets = append(sets, "fingerprint = ?")
		args = append(args, *upd.Fingerprint)
	}
	if upd.Source != nil {
		sets = append(sets, "source = ?")
		args = append(args, *upd.Source)
	}

	args = append(args, id)
	res, err := s.db.Exec("UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return s.Get(id)
}

// AddTag appends a tag to a task's tag list if not already present and
// returns the updated record. Adding an existing tag is a no-op.
func (s *SQLiteStore) AddTag(id int64, tag string) (*model.Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if t.HasTag(tag) {
		return t, nil
	}
	return s.Update(id, model.TaskUpdate{Tags: append(t.Tags, tag)})
}

// Delete removes a task by ID.
func (s *SQLiteStore) Delete(id int64) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

func collectTasks(rows *sql.Rows) ([]*model.Task, error) {
	defer rows.Close()
	var tasks []*model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(sc scanner) (*model.Task, error) {
	var t model.Task
	var status, tagsJSON string
	var due sql.NullString

	err := sc.Scan(
		&t.ID, &t.Source, &t.Title, &t.Body, &due,
		&status, &tagsJSON, &t.Fingerprint,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = model.TaskStatus(status)
	_ = json.Unmarshal([]byte(tagsJSON), &t.Tags)

	if due.Valid {
		parsed, err := time.ParseInLocation(dueLayout, due.String, time.Local)
		if err != nil {
			return nil, fmt.Errorf("task %d has malformed due_at %q: %w", t.ID, due.String, err)
		}
		t.DueAt = &parsed
	}
	return &t, nil
}

func nullDue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dueLayout)
}
