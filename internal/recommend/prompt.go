package recommend

import (
	"regexp"
	"strings"
)

var (
	namePrefix   = regexp.MustCompile(`^[^:\n]*:\s*`)
	ratingSuffix = regexp.MustCompile(`\s*\(Rating:\s*\d+\)\s*$`)
)

// CleanCorpus keeps only the free text of each "name: text (Rating: n)" line.
func CleanCorpus(corpus string) string {
	var lines []string
	for _, line := range strings.Split(corpus, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = ratingSuffix.ReplaceAllString(line, "")
		line = namePrefix.ReplaceAllString(line, "")
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt wraps the cleaned feedback in the instructions sent to the generator.
func BuildPrompt(feedback string) string {
	var b strings.Builder
	b.WriteString("You are a senior consultant advising a product and service team.\n")
	b.WriteString("Analyze the customer feedback below and give ONE actionable recommendation.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Write directly to the team (e.g. 'The team should ...').\n")
	b.WriteString("- Do NOT repeat, quote or paraphrase customer sentences.\n")
	b.WriteString("- Focus on the single biggest improvement opportunity.\n")
	b.WriteString("- Keep it short (1-2 sentences).\n\n")
	b.WriteString("Customer feedback:\n")
	b.WriteString(feedback)
	b.WriteString("\n\nFinal recommendation for the team:")
	return b.String()
}
