package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/cheerioskun/matchninja/internal/models"
)

// RenderMarkdown formats a report as a Markdown document.
func RenderMarkdown(r *models.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Match report `%s`\n\n", r.Pattern)
	if r.ID != "" {
		fmt.Fprintf(&sb, "- Run: `%s`\n", r.ID)
	}
	fmt.Fprintf(&sb, "- Source: `%s` (split by %s)\n", r.Source, r.Split)
	fmt.Fprintf(&sb, "- Created: %s\n", r.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- Candidates: %d\n", r.Candidates)
	fmt.Fprintf(&sb, "- Full matches: %d (%.1f%%)\n", r.FullMatches, r.MatchRate()*100)
	fmt.Fprintf(&sb, "- Best match length: %d of %d tokens\n\n", r.BestMatchLength, len(r.Tokens))

	sb.WriteString("## Tokens\n\n")
	for i, tok := range r.Tokens {
		fmt.Fprintf(&sb, "%d. `%s`\n", i+1, tok)
	}
	sb.WriteString("\n")

	sb.WriteString("## Depth histogram\n\n")
	sb.WriteString("| Tokens matched | Candidates |\n|---:|---:|\n")
	for _, p := range r.Histogram {
		fmt.Fprintf(&sb, "| %d | %d |\n", p.Depth, p.Count)
	}
	sb.WriteString("\n")

	if len(r.Files) > 0 {
		sb.WriteString("## Files\n\n")
		sb.WriteString("| File | Candidates | Full matches | Best depth |\n|---|---:|---:|---:|\n")
		for _, f := range r.Files {
			fmt.Fprintf(&sb, "| %s | %d | %d | %d |\n", escapeCell(f.Path), f.Candidates, f.FullMatches, f.BestDepth)
		}
		sb.WriteString("\n")
	}

	if len(r.Samples) > 0 {
		sb.WriteString("## Best candidates\n\n")
		for _, s := range r.Samples {
			fmt.Fprintf(&sb, "- `%s`\n", strings.ReplaceAll(s, "`", "'"))
		}
		sb.WriteString("\n")
	}

	if len(r.UnmatchedWords) > 0 {
		sb.WriteString("## Unmatched words\n\n")
		sb.WriteString(strings.Join(r.UnmatchedWords, ", "))
		sb.WriteString("\n")
	}

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
