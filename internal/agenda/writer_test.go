package agenda

import (
	"strings"
	"testing"
	"time"

	"github.com/nakachan-ing/agenda-cli/internal/model"
	"github.com/nakachan-ing/agenda-cli/internal/reconcile"
)

func taskWith(id int64, title string, due time.Time, status model.TaskStatus, tags ...string) *model.Task {
	d := due
	return &model.Task{ID: id, Title: title, DueAt: &d, Status: status, Tags: tags}
}

func TestGenerateSectionsAndLines(t *testing.T) {
	today := time.Date(2024, 3, 15, 8, 0, 0, 0, time.Local)
	tasks := []*model.Task{
		taskWith(2, "Afternoon Review", time.Date(2024, 3, 15, 14, 0, 0, 0, time.Local), model.StatusPending),
		taskWith(1, "Morning Meeting", time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local), model.StatusDone, "#meeting", "#important"),
		taskWith(3, "Pack bags", time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local), model.StatusPending),
		taskWith(4, "Expense report", time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local), model.StatusPending),
		{ID: 5, Title: "Undated", Status: model.StatusPending},
	}

	doc := Generate(tasks, today)
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")

	want := []string{
		"# Agenda",
		"",
		"## 2024-03-12 (Tue)",
		"- [ ] Expense report (D+3)",
		"",
		"## 2024-03-15 (Fri)",
		"- [x] 10:00 Morning Meeting (D-Day) #meeting #important",
		"- [ ] 14:00 Afternoon Review (D-Day)",
		"",
		"## 2024-03-18 (Mon)",
		"- [ ] Pack bags (D-3)",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), doc)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestGenerateCancelledSuffix(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	tasks := []*model.Task{
		taskWith(1, "Team offsite", time.Date(2024, 3, 15, 13, 0, 0, 0, time.Local), model.StatusCancelled),
	}
	doc := Generate(tasks, today)
	if !strings.Contains(doc, "- [c] 13:00 Team offsite (D-Day) (Cancelled)") {
		t.Errorf("cancelled line not rendered as expected:\n%s", doc)
	}
}

// The writer's output must parse back into the records it was rendered
// from: same dates, markers, times, titles, and tags.
func TestGenerateRoundTripsThroughParser(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	tasks := []*model.Task{
		taskWith(1, "Morning Meeting", time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local), model.StatusDone, "#meeting"),
		taskWith(2, "Pack bags", time.Date(2024, 3, 18, 0, 0, 0, 0, time.Local), model.StatusPending),
		taskWith(3, "Team offsite", time.Date(2024, 3, 18, 13, 0, 0, 0, time.Local), model.StatusCancelled),
	}

	records, err := reconcile.ParseAgenda(strings.NewReader(Generate(tasks, today)))
	if err != nil {
		t.Fatalf("ParseAgenda: %v", err)
	}
	if len(records) != len(tasks) {
		t.Fatalf("round trip yielded %d records, want %d", len(records), len(tasks))
	}

	for i, task := range tasks {
		rec := records[i]
		if rec.Title != task.Title {
			t.Errorf("record %d title = %q, want %q", i, rec.Title, task.Title)
		}
		if rec.Marker != task.Status.Marker() {
			t.Errorf("record %d marker = %q, want %q", i, rec.Marker, task.Status.Marker())
		}
		wantDate := time.Date(task.DueAt.Year(), task.DueAt.Month(), task.DueAt.Day(), 0, 0, 0, 0, time.Local)
		if !rec.Date.Equal(wantDate) {
			t.Errorf("record %d date = %v, want %v", i, rec.Date, wantDate)
		}
	}

	if records[0].TimeStr != "10:00" {
		t.Errorf("timed task lost its time: %q", records[0].TimeStr)
	}
	if records[1].TimeStr != "" {
		t.Errorf("all-day task gained a time: %q", records[1].TimeStr)
	}
	if len(records[0].Tags) != 1 || records[0].Tags[0] != "#meeting" {
		t.Errorf("tags lost in round trip: %v", records[0].Tags)
	}
}
