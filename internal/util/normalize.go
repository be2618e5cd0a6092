// Package util holds small shared helpers: title normalization, task
// fingerprints, date/time resolution, and the S3 backup plumbing.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrEmptyTitle is returned when a fingerprint is requested for an empty
// title. That is a caller bug, not a data condition, so it is never
// silently substituted.
var ErrEmptyTitle = errors.New("title cannot be empty for fingerprint generation")

var (
	rePunctuation = regexp.MustCompile("[.,;!?'\"`’‘“”()*\\[\\]{}]")
	reWhitespace  = regexp.MustCompile(`\s+`)
)

// NormalizeTitle canonicalizes a title for identity comparison: lowercase,
// strip decorative punctuation, collapse whitespace runs, trim.
func NormalizeTitle(title string) string {
	if title == "" {
		return ""
	}
	normalized := strings.ToLower(title)
	normalized = rePunctuation.ReplaceAllString(normalized, "")
	normalized = reWhitespace.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// fingerprintDueLayout matches the store's due precision: naive local
// time to the second. A date-only due (midnight) and an explicit 00:00:00
// therefore hash identically.
const fingerprintDueLayout = "2006-01-02T15:04:05"

// noDueDateMarker stands in for the due timestamp of tasks without one.
const noDueDateMarker = "NO_DUE_DATE"

// TaskFingerprint derives the deduplication identity of a task: a SHA256
// hex digest over the normalized title and the due timestamp to the
// second. Identical (title, due) input always yields the same digest.
func TaskFingerprint(title string, due *time.Time) (string, error) {
	if title == "" {
		return "", ErrEmptyTitle
	}

	dueStr := noDueDateMarker
	if due != nil {
		dueStr = due.Format(fingerprintDueLayout)
	}

	sum := sha256.Sum256([]byte("title:" + NormalizeTitle(title) + "::due:" + dueStr))
	return hex.EncodeToString(sum[:]), nil
}
