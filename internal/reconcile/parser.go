// Package reconcile parses day-sectioned agenda markdown, matches its
// entries against stored tasks, computes field-level diffs, applies them
// under the fingerprint identity invariants, and tags time-overlap
// conflicts between stored tasks.
package reconcile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/nakachan-ing/agenda-cli/internal/model"
)

// placeholderTitle replaces an empty title when a task line still carried
// a status marker, so the record is kept instead of dropped.
const placeholderTitle = "Untitled Task"

var (
	// `## 2024-03-15 (Fri)`: captures the date, requires a label.
	reDateHeader = regexp.MustCompile(`^##\s*(\d{4}-\d{2}-\d{2})\s*\(.+\)\s*$`)

	// `- [x] 10:00 rest of line`: marker, optional time, remainder.
	reTaskLine = regexp.MustCompile(`^\s*-\s*(\[.?\])\s*(?:(\d{2}:\d{2})\s+)?(.*)$`)

	reTags = regexp.MustCompile(`(#\S+)`)

	// D-Day annotations: (D-Day), (D-3), (D+7), optionally with a label
	// after the number, e.g. (D-3 남음).
	reDDay = regexp.MustCompile(`\s*\((?:D-Day|D-\d+(?:\s+[^)]*)?|D\+\d+(?:\s+[^)]*)?)\)`)

	reCancelledMarker = regexp.MustCompile(`(?i)\s*\(cancelled\)\s*$`)
)

type lineKind int

const (
	lineUnrecognized lineKind = iota
	lineDateHeader
	lineTaskLine
)

// classifiedLine is the tagged result of classifying one input line.
type classifiedLine struct {
	kind lineKind

	// lineDateHeader
	date time.Time

	// lineTaskLine
	marker  string
	timeStr string
	rest    string
}

// classifyLine is the pure per-line classifier behind the scanner. It has
// no state: section tracking lives entirely in ParseAgenda.
func classifyLine(line string) classifiedLine {
	if m := reDateHeader.FindStringSubmatch(line); m != nil {
		date, err := time.ParseInLocation("2006-01-02", m[1], time.Local)
		if err != nil {
			// Digits matched but not a real calendar date; skip the line.
			return classifiedLine{kind: lineUnrecognized}
		}
		return classifiedLine{kind: lineDateHeader, date: date}
	}

	if m := reTaskLine.FindStringSubmatch(line); m != nil {
		return classifiedLine{
			kind:    lineTaskLine,
			marker:  m[1],
			timeStr: m[2],
			rest:    strings.TrimSpace(m[3]),
		}
	}

	return classifiedLine{kind: lineUnrecognized}
}

// extractTitleAndTags splits the remainder of a task line into its title
// and tag set. Tags, the D-Day annotation, and a trailing (Cancelled)
// marker are removed to isolate the title; tags are deduplicated in
// first-occurrence order.
func extractTitleAndTags(segment string) (string, []string) {
	found := reTags.FindAllString(segment, -1)

	work := reTags.ReplaceAllString(segment, "")
	work = reDDay.ReplaceAllString(work, "")
	work = reCancelledMarker.ReplaceAllString(work, "")
	title := strings.TrimSpace(reWhitespaceRun.ReplaceAllString(work, " "))

	var tags []string
	seen := map[string]bool{}
	for _, tag := range found {
		tag = strings.TrimSpace(tag)
		if strings.HasPrefix(tag, "#") && !seen[tag] {
			tags = append(tags, tag)
			seen[tag] = true
		}
	}
	return title, tags
}

var reWhitespaceRun = regexp.MustCompile(`\s+`)

// ParseAgenda scans a day-sectioned agenda document and returns its task
// lines as ephemeral records, in file order. The scanner has two states:
// before the first date header every line is ignored; inside a section,
// task lines emit records and unrecognized lines are skipped. A bad line
// never aborts the parse.
func ParseAgenda(r io.Reader) ([]model.ParsedTask, error) {
	var records []model.ParsedTask
	var current time.Time
	inSection := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cl := classifyLine(line)
		switch cl.kind {
		case lineDateHeader:
			current = cl.date
			inSection = true

		case lineTaskLine:
			if !inSection {
				continue
			}
			title, tags := extractTitleAndTags(cl.rest)
			if title == "" {
				title = placeholderTitle
			}
			records = append(records, model.ParsedTask{
				Date:    current,
				Marker:  cl.marker,
				TimeStr: cl.timeStr,
				Title:   title,
				Tags:    tags,
			})

		case lineUnrecognized:
			// skipped silently
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan agenda: %w", err)
	}
	return records, nil
}

// ParseAgendaFile parses an agenda markdown file. A missing file is the
// caller's error to surface.
func ParseAgendaFile(path string) ([]model.ParsedTask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open agenda file: %w", err)
	}
	defer f.Close()
	return ParseAgenda(f)
}
