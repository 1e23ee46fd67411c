package intent

import (
	"regexp"
	"strings"
)

// Keyword tables for classification. Matching is substring based on the
// lower-cased message, so "address" still satisfies "add".
var (
	addVerbs           = []string{"add"}
	addObjects         = []string{"task", "reminder", "meeting", "event"}
	prioritizeKeywords = []string{"prioritize", "priority"}
	scheduleKeywords   = []string{"schedule", "calendar", "meeting"}
	insightKeywords    = []string{"insight", "productivity", "analysis"}
	recommendKeywords  = []string{"focus", "what should", "recommend"}
)

// titleTriggers are stripped out of a message to form a task title.
var titleTriggers = regexp.MustCompile(`(?i)add|task|reminder|todo|meeting|event`)

// datePatterns are tried in order; any match yields a due date.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)tomorrow`),
	regexp.MustCompile(`(?i)today`),
	regexp.MustCompile(`(?i)next week`),
	regexp.MustCompile(`(?i)monday|tuesday|wednesday|thursday|friday|saturday|sunday`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}`),
	regexp.MustCompile(`\d{1,2}:\d{2}`),
}

type categoryPattern struct {
	category Category
	pattern  *regexp.Regexp
}

// categoryPatterns are evaluated in declaration order; the first hit wins.
var categoryPatterns = []categoryPattern{
	{CategoryWork, regexp.MustCompile(`(?i)work|meeting|project|client|business`)},
	{CategoryPersonal, regexp.MustCompile(`(?i)personal|family|home|health`)},
	{CategoryLearning, regexp.MustCompile(`(?i)learn|study|course|read|research`)},
	{CategoryFitness, regexp.MustCompile(`(?i)gym|exercise|workout|run|fitness`)},
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
