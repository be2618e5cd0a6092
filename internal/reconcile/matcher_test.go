package reconcile

import (
	"testing"
	"time"

	"github.com/nakachan-ing/agenda-cli/internal/model"
)

func taskAt(id int64, title string, due time.Time) *model.Task {
	d := due
	return &model.Task{ID: id, Title: title, DueAt: &d, Status: model.StatusPending}
}

func TestMatchTaskTimedExact(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	candidates := []*model.Task{
		taskAt(1, "Morning Meeting", time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)),
		taskAt(2, "Morning Meeting", time.Date(2024, 3, 15, 11, 0, 0, 0, time.Local)),
	}

	rec := model.ParsedTask{Date: date, Marker: "[ ]", TimeStr: "10:00", Title: "Morning Meeting"}
	res := MatchTask(rec, candidates)
	if !res.Matched() {
		t.Fatalf("expected a match")
	}
	if res.Task.ID != 1 {
		t.Errorf("matched task %d, want 1 (same title at 11:00 must not cross-match)", res.Task.ID)
	}
}

func TestMatchTaskTimelessRequiresAllDay(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	timed := taskAt(1, "Review PR", time.Date(2024, 3, 15, 14, 0, 0, 0, time.Local))
	allDay := taskAt(2, "Review PR", time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local))

	rec := model.ParsedTask{Date: date, Marker: "[ ]", Title: "Review PR"}

	res := MatchTask(rec, []*model.Task{timed})
	if res.Matched() {
		t.Errorf("timeless record must not match a timed task")
	}

	res = MatchTask(rec, []*model.Task{timed, allDay})
	if !res.Matched() || res.Task.ID != 2 {
		t.Errorf("timeless record should match only the all-day task, got %+v", res)
	}
}

func TestMatchTaskNormalizedTitleEquality(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	stored := taskAt(1, "Morning Meeting!", time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local))

	rec := model.ParsedTask{Date: date, Marker: "[ ]", TimeStr: "10:00", Title: "  morning   meeting "}
	if res := MatchTask(rec, []*model.Task{stored}); !res.Matched() {
		t.Errorf("normalization-equivalent titles should match")
	}

	rec.Title = "Evening Meeting"
	if res := MatchTask(rec, []*model.Task{stored}); res.Matched() {
		t.Errorf("different titles must not match")
	}
}

func TestMatchTaskAmbiguity(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	candidates := []*model.Task{
		taskAt(1, "Standup", time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)),
		taskAt(2, "Standup", time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)),
	}

	rec := model.ParsedTask{Date: date, Marker: "[ ]", TimeStr: "09:00", Title: "Standup"}
	res := MatchTask(rec, candidates)
	if res.Matched() {
		t.Errorf("two qualifying tasks must not resolve to one")
	}
	if !res.Ambiguous() {
		t.Errorf("expected ambiguity to be reported")
	}
	if len(res.Candidates) != 2 {
		t.Errorf("Candidates = %d, want 2", len(res.Candidates))
	}
}

func TestMatchTaskSkipsUnusableCandidates(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	noDue := &model.Task{ID: 1, Title: "Standup"}
	noTitle := taskAt(2, "", time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local))

	rec := model.ParsedTask{Date: date, Marker: "[ ]", TimeStr: "09:00", Title: "Standup"}
	if res := MatchTask(rec, []*model.Task{noDue, noTitle}); res.Matched() || res.Ambiguous() {
		t.Errorf("candidates without title or due must be skipped, got %+v", res)
	}
}

func TestMatchTaskUnparseableTimeDegradesToAllDay(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	allDay := taskAt(1, "Standup", time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local))

	rec := model.ParsedTask{Date: date, Marker: "[ ]", TimeStr: "99:99", Title: "Standup"}
	res := MatchTask(rec, []*model.Task{allDay})
	if !res.Matched() {
		t.Errorf("unparseable time should fall back to the all-day rule")
	}
}

func TestMatchTaskDeterministic(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	candidates := []*model.Task{
		taskAt(1, "Write docs", time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)),
	}
	rec := model.ParsedTask{Date: date, Marker: "[ ]", Title: "Write docs"}

	first := MatchTask(rec, candidates)
	for i := 0; i < 5; i++ {
		again := MatchTask(rec, candidates)
		if again.Matched() != first.Matched() || (again.Matched() && again.Task.ID != first.Task.ID) {
			t.Fatalf("match result changed across identical calls")
		}
	}
}
