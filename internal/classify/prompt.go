package classify

import (
	"fmt"
	"strings"
)

// RenderPrompt formats classified records as a Markdown block grouped by
// kind, in classification order. The output feeds a remediation prompt;
// it is meant for humans and LLMs, not for machine parsing.
func RenderPrompt(records []ErrorRecord) string {
	if len(records) == 0 {
		return "No errors classified.\n"
	}

	grouped := make(map[Kind][]ErrorRecord)
	for _, rec := range records {
		grouped[rec.Kind] = append(grouped[rec.Kind], rec)
	}

	var b strings.Builder
	b.WriteString("# Classified CI Failures\n")
	for _, kind := range Kinds() {
		recs := grouped[kind]
		if len(recs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s (%d)\n", kind.Title(), len(recs))
		for _, rec := range recs {
			b.WriteString("\n")
			if rec.FilePath != "" {
				if rec.LineNumber > 0 {
					fmt.Fprintf(&b, "**%s:%d**\n", rec.FilePath, rec.LineNumber)
				} else {
					fmt.Fprintf(&b, "**%s**\n", rec.FilePath)
				}
			}
			fmt.Fprintf(&b, "%s\n", rec.Message)
			if rec.Context != "" {
				fmt.Fprintf(&b, "```\n%s\n```\n", rec.Context)
			}
			if rec.Suggestion != "" {
				fmt.Fprintf(&b, "Suggestion: %s\n", rec.Suggestion)
			}
		}
	}
	return b.String()
}
