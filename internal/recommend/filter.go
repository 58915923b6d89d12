package recommend

import (
	"regexp"
	"strings"
)

// MinClauseWords is the shortest clause checked for verbatim echo. Shorter
// clauses match source text by accident too often to mean anything.
const MinClauseWords = 3

var (
	echoMarkers    = regexp.MustCompile(`(?i)\b(i|me|my)\b|\bthe (app|service|design)\b`)
	clauseBoundary = regexp.MustCompile(`[.,;:!?\n]+`)
)

// Echoes reports whether generated text should be discarded: it speaks in the
// first person, names the product generically, or shares a clause with the
// source feedback word for word, in either direction.
func Echoes(generated, source string) bool {
	if echoMarkers.MatchString(generated) {
		return true
	}
	return quotes(normalize(source), generated) || quotes(normalize(generated), source)
}

// quotes reports whether any clause of text long enough to matter appears
// inside the already normalized haystack.
func quotes(haystack, text string) bool {
	for _, clause := range clauseBoundary.Split(text, -1) {
		clause = normalize(clause)
		if len(strings.Fields(clause)) < MinClauseWords {
			continue
		}
		if strings.Contains(haystack, clause) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
