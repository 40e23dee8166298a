package classify

import (
	"fmt"
	"sort"
	"strconv"
)

// unknownMessageCap bounds the synthetic record's message when nothing matched.
const unknownMessageCap = 500

// Classifier scans raw log text and tags spans with error kinds using an
// ordered pattern table. It holds no mutable state; Classify is a pure
// function of the input and the table.
type Classifier struct {
	patterns    PatternSet
	windowLines int
	dedupe      bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithPatterns substitutes the classification table. Tests use this to
// exercise custom tables without touching package state.
func WithPatterns(ps PatternSet) Option {
	return func(c *Classifier) { c.patterns = ps }
}

// WithWindowLines sets the context window (lines before/after a match).
func WithWindowLines(n int) Option {
	return func(c *Classifier) {
		if n >= 0 {
			c.windowLines = n
		}
	}
}

// WithDedupe drops records whose matched span was already claimed by an
// earlier pattern. Patterns match independently, so the same log text can
// otherwise produce duplicate records under two kinds. Off by default to
// keep the noisier, higher-recall behavior.
func WithDedupe() Option {
	return func(c *Classifier) { c.dedupe = true }
}

// NewClassifier builds a Classifier with the default pattern table and a
// 3-line context window.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		patterns:    DefaultPatterns(),
		windowLines: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type match struct {
	offset int
	record ErrorRecord
}

// Classify returns every classified error found in logText, grouped by
// kind in table order; within one kind, records appear in log order.
// When no pattern matches anywhere, exactly one KindUnknown record is
// returned whose message is a truncated prefix of the log and whose
// context is the entire log.
func (c *Classifier) Classify(logText string) []ErrorRecord {
	var records []ErrorRecord
	claimed := make(map[string]bool)

	for _, entry := range c.patterns {
		var kindMatches []match
		for _, re := range entry.Patterns {
			for _, loc := range re.FindAllStringSubmatchIndex(logText, -1) {
				rec := c.recordFromMatch(logText, loc, entry.Kind)
				kindMatches = append(kindMatches, match{offset: loc[0], record: rec})
			}
		}
		// Each pattern scans independently; restore log order within the kind.
		sort.SliceStable(kindMatches, func(i, j int) bool {
			return kindMatches[i].offset < kindMatches[j].offset
		})
		for _, m := range kindMatches {
			if c.dedupe {
				key := spanKey(m.offset, m.record.Message)
				if claimed[key] {
					continue
				}
				claimed[key] = true
			}
			records = append(records, m.record)
		}
	}

	if len(records) == 0 {
		return []ErrorRecord{unknownRecord(logText)}
	}
	return records
}

// recordFromMatch builds a record from a submatch index slice. Group 1 is
// the file path and group 2 the line number, when the pattern captured them.
func (c *Classifier) recordFromMatch(logText string, loc []int, kind Kind) ErrorRecord {
	rec := ErrorRecord{
		Kind:       kind,
		Message:    logText[loc[0]:loc[1]],
		Context:    ExtractContext(logText, loc[0], c.windowLines),
		Suggestion: kind.Suggestion(),
	}
	if len(loc) >= 4 && loc[2] >= 0 {
		rec.FilePath = logText[loc[2]:loc[3]]
	}
	if len(loc) >= 6 && loc[4] >= 0 {
		if n, err := strconv.Atoi(logText[loc[4]:loc[5]]); err == nil && n > 0 {
			rec.LineNumber = n
		}
	}
	return rec
}

func unknownRecord(logText string) ErrorRecord {
	msg := logText
	if len(msg) > unknownMessageCap {
		msg = msg[:unknownMessageCap]
	}
	return ErrorRecord{
		Kind:       KindUnknown,
		Message:    msg,
		Context:    logText,
		Suggestion: KindUnknown.Suggestion(),
	}
}

func spanKey(offset int, message string) string {
	return fmt.Sprintf("%d:%d", offset, len(message))
}
