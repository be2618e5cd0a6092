package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nakachan-ing/agenda-cli/internal/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "agenda.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func due(y int, m time.Month, d, hh, mm int) *time.Time {
	t := time.Date(y, m, d, hh, mm, 0, 0, time.Local)
	return &t
}

func TestCreateAndGet(t *testing.T) {
	s := testStore(t)

	task := &model.Task{
		Source:      "cli",
		Title:       "Morning Meeting",
		Body:        "agenda in the usual doc",
		DueAt:       due(2024, 3, 15, 10, 0),
		Status:      model.StatusPending,
		Tags:        []string{"#meeting"},
		Fingerprint: "fp-morning-meeting",
	}
	id, err := s.Create(task)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == 0 {
		t.Fatalf("Create returned id 0")
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != task.Title || got.Body != task.Body || got.Source != "cli" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.Status != model.StatusPending {
		t.Errorf("Status = %s, want Pending", got.Status)
	}
	if got.DueAt == nil || !got.DueAt.Equal(*task.DueAt) {
		t.Errorf("DueAt = %v, want %v", got.DueAt, task.DueAt)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "#meeting" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.Fingerprint != "fp-morning-meeting" {
		t.Errorf("Fingerprint = %q", got.Fingerprint)
	}
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(999) error = %v, want ErrNotFound", err)
	}
}

func TestGetByFingerprint(t *testing.T) {
	s := testStore(t)

	task := &model.Task{Title: "Review", Status: model.StatusPending, Fingerprint: "fp-review"}
	if _, err := s.Create(task); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.GetByFingerprint("fp-review")
	if err != nil {
		t.Fatalf("GetByFingerprint: %v", err)
	}
	if got == nil || got.ID != task.ID {
		t.Errorf("GetByFingerprint = %+v, want task %d", got, task.ID)
	}

	missing, err := s.GetByFingerprint("fp-nope")
	if err != nil {
		t.Fatalf("GetByFingerprint(miss): %v", err)
	}
	if missing != nil {
		t.Errorf("unknown fingerprint returned %+v, want nil", missing)
	}

	empty, err := s.GetByFingerprint("")
	if err != nil || empty != nil {
		t.Errorf("empty fingerprint = (%+v, %v), want (nil, nil)", empty, err)
	}
}

func TestFingerprintUniqueness(t *testing.T) {
	s := testStore(t)

	first := &model.Task{Title: "One", Status: model.StatusPending, Fingerprint: "fp-dup"}
	if _, err := s.Create(first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := &model.Task{Title: "Two", Status: model.StatusPending, Fingerprint: "fp-dup"}
	if _, err := s.Create(second); err == nil {
		t.Errorf("duplicate fingerprint insert succeeded, want constraint error")
	}

	// Blank fingerprints are exempt from the uniqueness constraint.
	for _, title := range []string{"Blank A", "Blank B"} {
		if _, err := s.Create(&model.Task{Title: title, Status: model.StatusPending}); err != nil {
			t.Errorf("blank-fingerprint insert %q failed: %v", title, err)
		}
	}
}

func TestDueOn(t *testing.T) {
	s := testStore(t)

	fixtures := []*model.Task{
		{Title: "Friday 10:00", DueAt: due(2024, 3, 15, 10, 0), Status: model.StatusPending},
		{Title: "Friday all-day", DueAt: due(2024, 3, 15, 0, 0), Status: model.StatusPending},
		{Title: "Saturday", DueAt: due(2024, 3, 16, 9, 0), Status: model.StatusPending},
		{Title: "Undated", Status: model.StatusPending},
	}
	for _, f := range fixtures {
		if _, err := s.Create(f); err != nil {
			t.Fatalf("Create %q: %v", f.Title, err)
		}
	}

	friday := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	got, err := s.DueOn(friday)
	if err != nil {
		t.Fatalf("DueOn: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("DueOn returned %d tasks, want 2", len(got))
	}
	// Ordered by due time: all-day (midnight) before 10:00.
	if got[0].Title != "Friday all-day" || got[1].Title != "Friday 10:00" {
		t.Errorf("DueOn order = [%s, %s]", got[0].Title, got[1].Title)
	}
}

func TestDueOnWithTime(t *testing.T) {
	s := testStore(t)

	timed := &model.Task{Title: "Timed", DueAt: due(2024, 3, 15, 10, 0), Status: model.StatusPending}
	allDay := &model.Task{Title: "All-day", DueAt: due(2024, 3, 15, 0, 0), Status: model.StatusPending}
	excluded := &model.Task{Title: "Excluded", DueAt: due(2024, 3, 15, 11, 0), Status: model.StatusPending}
	for _, f := range []*model.Task{timed, allDay, excluded} {
		if _, err := s.Create(f); err != nil {
			t.Fatalf("Create %q: %v", f.Title, err)
		}
	}

	friday := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	got, err := s.DueOnWithTime(friday, excluded.ID)
	if err != nil {
		t.Fatalf("DueOnWithTime: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Timed" {
		t.Errorf("DueOnWithTime = %+v, want only the timed task", got)
	}
}

func TestListFilters(t *testing.T) {
	s := testStore(t)

	fixtures := []*model.Task{
		{Title: "Done early", DueAt: due(2024, 3, 10, 9, 0), Status: model.StatusDone},
		{Title: "Pending mid", DueAt: due(2024, 3, 15, 9, 0), Status: model.StatusPending},
		{Title: "Pending late", DueAt: due(2024, 3, 20, 9, 0), Status: model.StatusPending},
		{Title: "Undated", Status: model.StatusPending},
	}
	for _, f := range fixtures {
		if _, err := s.Create(f); err != nil {
			t.Fatalf("Create %q: %v", f.Title, err)
		}
	}

	pending, err := s.List(ListFilter{Status: model.StatusPending})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("pending count = %d, want 3", len(pending))
	}
	// Dateless tasks sort last.
	if pending[len(pending)-1].Title != "Undated" {
		t.Errorf("dateless task not last: %s", pending[len(pending)-1].Title)
	}

	ranged, err := s.List(ListFilter{
		From: time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local),
		To:   time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatalf("List(range): %v", err)
	}
	if len(ranged) != 1 || ranged[0].Title != "Pending mid" {
		t.Errorf("range filter = %+v, want only Pending mid", ranged)
	}

	limited, err := s.List(ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List(limit): %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit = %d results, want 2", len(limited))
	}
}

func TestUpdate(t *testing.T) {
	s := testStore(t)

	task := &model.Task{Title: "Before", DueAt: due(2024, 3, 15, 10, 0), Status: model.StatusPending}
	if _, err := s.Create(task); err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "After"
	status := model.StatusDone
	fp := "fp-after"
	got, err := s.Update(task.ID, model.TaskUpdate{Title: &title, Status: &status, Fingerprint: &fp})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "After" || got.Status != model.StatusDone || got.Fingerprint != "fp-after" {
		t.Errorf("updated task = %+v", got)
	}
	if got.DueAt == nil || !got.DueAt.Equal(*task.DueAt) {
		t.Errorf("untouched due changed: %v", got.DueAt)
	}

	cleared, err := s.Update(task.ID, model.TaskUpdate{ClearDue: true})
	if err != nil {
		t.Fatalf("Update(ClearDue): %v", err)
	}
	if cleared.DueAt != nil {
		t.Errorf("ClearDue left due = %v", cleared.DueAt)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := testStore(t)
	title := "Ghost"
	if _, err := s.Update(999, model.TaskUpdate{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(999) error = %v, want ErrNotFound", err)
	}
}

func TestAddTagIdempotent(t *testing.T) {
	s := testStore(t)

	task := &model.Task{Title: "Tagged", Status: model.StatusPending, Tags: []string{"#one"}}
	if _, err := s.Create(task); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.AddTag(task.ID, "#two")
	if err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("Tags = %v, want 2 entries", got.Tags)
	}

	again, err := s.AddTag(task.ID, "#two")
	if err != nil {
		t.Fatalf("AddTag rerun: %v", err)
	}
	if len(again.Tags) != 2 {
		t.Errorf("AddTag not idempotent: %v", again.Tags)
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)

	task := &model.Task{Title: "Doomed", Status: model.StatusPending}
	if _, err := s.Create(task); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}
