package processing

import "strings"

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Segment splits text into trimmed sentences on '.', '!' and '?'. The
// terminators are dropped and so is any fragment that is empty after trimming.
func Segment(text string) []string {
	fragments := strings.FieldsFunc(text, isTerminator)
	sentences := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if s := strings.TrimSpace(f); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
