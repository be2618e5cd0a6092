package reconcile

import (
	"github.com/nakachan-ing/agenda-cli/internal/model"
	"github.com/nakachan-ing/agenda-cli/internal/util"
)

// MatchResult is the outcome of matching one parsed record against the
// stored tasks due on its date. When several stored tasks qualify the
// match is ambiguous and left unresolved: Task stays nil and Candidates
// carries all of them, in the order the caller supplied.
type MatchResult struct {
	Task       *model.Task
	Candidates []*model.Task
}

// Ambiguous reports whether more than one stored task qualified.
func (r MatchResult) Ambiguous() bool { return len(r.Candidates) > 1 }

// Matched reports whether exactly one stored task qualified.
func (r MatchResult) Matched() bool { return r.Task != nil }

// MatchTask pairs a parsed agenda record with stored tasks already
// filtered to the record's date. A candidate qualifies when its
// normalized title equals the record's and its due time-of-day aligns:
// a record with an explicit parseable time requires that exact time; a
// record with no time (or an unparseable one) requires the all-day form,
// due at midnight. Same-title tasks at different times never cross-match.
// A record with no title matches nothing.
func MatchTask(rec model.ParsedTask, candidates []*model.Task) MatchResult {
	if rec.Title == "" {
		return MatchResult{}
	}

	recTitle := util.NormalizeTitle(rec.Title)
	if recTitle == "" {
		return MatchResult{}
	}

	// An unparseable time string degrades to "no time", not an error.
	hour, min, hasTime := util.ParseClock(rec.TimeStr)

	var qualifying []*model.Task
	for _, t := range candidates {
		if t.Title == "" || t.DueAt == nil {
			continue
		}
		if util.NormalizeTitle(t.Title) != recTitle {
			continue
		}

		due := *t.DueAt
		if hasTime {
			if due.Hour() == hour && due.Minute() == min && due.Second() == 0 {
				qualifying = append(qualifying, t)
			}
		} else if util.IsAllDay(due) {
			qualifying = append(qualifying, t)
		}
	}

	res := MatchResult{Candidates: qualifying}
	if len(qualifying) == 1 {
		res.Task = qualifying[0]
	}
	return res
}
