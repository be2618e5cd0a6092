package reconcile

import (
	"fmt"
	"log"
	"time"

	"github.com/nakachan-ing/agenda-cli/internal/model"
	"github.com/nakachan-ing/agenda-cli/internal/util"
)

// ConflictTag marks tasks whose due times sit too close together on the
// same day.
const ConflictTag = "#conflict"

// conflictWindow is the proximity threshold: two timed tasks on the same
// date conflict when their due times are strictly less than this apart.
const conflictWindow = time.Hour

// TagConflicts checks a newly created timed task against every other
// timed task due on the same date and tags both sides of each near
// collision. All-day tasks never conflict. Every candidate pair is
// examined; tagging is idempotent, so re-tagging an already marked task
// is harmless.
func TagConflicts(s Store, created *model.Task) error {
	if created.DueAt == nil || util.IsAllDay(*created.DueAt) {
		return nil
	}

	candidates, err := timedTasksDueOn(s, util.DateOf(*created.DueAt), created.ID)
	if err != nil {
		return fmt.Errorf("fetch same-day tasks: %w", err)
	}

	for _, other := range candidates {
		gap := created.DueAt.Sub(*other.DueAt)
		if gap < 0 {
			gap = -gap
		}
		if gap >= conflictWindow {
			continue
		}

		log.Printf("⚠️ %q (%s) is within an hour of %q (%s)",
			created.Title, created.DueAt.Format("15:04"),
			other.Title, other.DueAt.Format("15:04"))

		if _, err := s.AddTag(created.ID, ConflictTag); err != nil {
			return fmt.Errorf("tag task %d: %w", created.ID, err)
		}
		if _, err := s.AddTag(other.ID, ConflictTag); err != nil {
			return fmt.Errorf("tag task %d: %w", other.ID, err)
		}
	}
	return nil
}
