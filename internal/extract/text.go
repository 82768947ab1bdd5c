package extract

import (
	"regexp"
	"strings"
	"time"
)

// Text normalization patterns. Compiled once at package load.
var (
	// whitespaceRe collapses any run of whitespace to a single space.
	whitespaceRe = regexp.MustCompile(`\s+`)

	// forumArtifactRe strips quoting chrome the forum injects into post
	// bodies when users reply with quotes.
	forumArtifactRe = regexp.MustCompile(`(?i)(Quote:|Reply:|Originally posted by:)`)

	// punctuationRunRe matches runs of 3 or more of the same terminal
	// punctuation character.
	punctuationRunRe = regexp.MustCompile(`([.!?]){3,}`)

	// bareURLRe matches standalone URLs with a conservative character
	// class. Post bodies frequently contain pasted links that add no
	// searchable content.
	bareURLRe = regexp.MustCompile(`https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\\(),]|%[0-9a-fA-F]{2})+`)

	// postedDateRe matches the forum's "Posted MM/DD/YYYY HH:MM"
	// annotation. Month, day and hour may be one or two digits.
	postedDateRe = regexp.MustCompile(`Posted\s+(\d{1,2}/\d{1,2}/\d{4}\s+\d{1,2}:\d{2})`)
)

// postDateLayout is the Go layout for the forum's date annotation.
const postDateLayout = "1/2/2006 15:04"

// cleanText normalizes extracted text: collapses whitespace, strips forum
// quoting artifacts, caps repeated terminal punctuation at three, and
// removes bare URLs.
func cleanText(text string) string {
	if text == "" {
		return ""
	}

	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	text = forumArtifactRe.ReplaceAllString(text, "")
	text = punctuationRunRe.ReplaceAllString(text, "$1$1$1")
	text = bareURLRe.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}

// findPostedDate searches text for the forum's date annotation and parses
// it. The second return value is false when no annotation is present or the
// matched text does not parse; an absent date is never an error.
func findPostedDate(text string) (time.Time, bool) {
	m := postedDateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	t, err := time.Parse(postDateLayout, whitespaceRe.ReplaceAllString(m[1], " "))
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// truncate returns s cut to at most max runes. A max of 0 or less means
// no limit.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
