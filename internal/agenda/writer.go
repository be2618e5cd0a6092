// Package agenda renders stored tasks into the day-sectioned markdown
// document the reconciliation scanner reads back.
package agenda

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/nakachan-ing/agenda-cli/internal/model"
	"github.com/nakachan-ing/agenda-cli/internal/util"
)

// Generate renders tasks as agenda markdown: one `## 2006-01-02 (Mon)`
// section per due date in ascending order, tasks within a day ordered by
// due time then id. Undated tasks are not part of the agenda. The D-Day
// annotation is computed relative to today's calendar date.
func Generate(tasks []*model.Task, today time.Time) string {
	byDate := map[time.Time][]*model.Task{}
	var dates []time.Time
	for _, t := range tasks {
		if t.DueAt == nil {
			continue
		}
		d := util.DateOf(*t.DueAt)
		if _, seen := byDate[d]; !seen {
			dates = append(dates, d)
		}
		byDate[d] = append(byDate[d], t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var b strings.Builder
	b.WriteString("# Agenda\n")
	for _, date := range dates {
		day := byDate[date]
		sort.SliceStable(day, func(i, j int) bool {
			if !day[i].DueAt.Equal(*day[j].DueAt) {
				return day[i].DueAt.Before(*day[j].DueAt)
			}
			return day[i].ID < day[j].ID
		})

		fmt.Fprintf(&b, "\n## %s (%s)\n", date.Format("2006-01-02"), date.Format("Mon"))
		for _, t := range day {
			b.WriteString(renderLine(t, today))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// renderLine formats one task line the way the scanner parses it:
// marker, optional time, title, D-Day annotation, tags, and a trailing
// (Cancelled) note for cancelled tasks.
func renderLine(t *model.Task, today time.Time) string {
	var b strings.Builder
	b.WriteString("- ")
	b.WriteString(t.Status.Marker())
	b.WriteByte(' ')

	if !util.IsAllDay(*t.DueAt) {
		b.WriteString(t.DueAt.Format("15:04"))
		b.WriteByte(' ')
	}

	b.WriteString(t.Title)
	b.WriteByte(' ')
	b.WriteString(dDay(util.DateOf(*t.DueAt), util.DateOf(today)))

	for _, tag := range t.Tags {
		b.WriteByte(' ')
		b.WriteString(tag)
	}

	if t.Status == model.StatusCancelled {
		b.WriteString(" (Cancelled)")
	}
	return b.String()
}

// dDay renders the countdown annotation for a due date relative to today:
// (D-Day) on the day itself, (D-n) before it, (D+n) after it.
func dDay(due, today time.Time) string {
	// Round, not truncate: a DST transition makes one civil day 23h or 25h.
	days := int(math.Round(due.Sub(today).Hours() / 24))
	switch {
	case days == 0:
		return "(D-Day)"
	case days > 0:
		return fmt.Sprintf("(D-%d)", days)
	default:
		return fmt.Sprintf("(D+%d)", -days)
	}
}

// WriteFile renders tasks and writes the document to path, creating or
// replacing it.
func WriteFile(path string, tasks []*model.Task, today time.Time) error {
	if err := os.WriteFile(path, []byte(Generate(tasks, today)), 0644); err != nil {
		return fmt.Errorf("write agenda file: %w", err)
	}
	return nil
}
