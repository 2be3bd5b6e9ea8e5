package engine

import (
	"fmt"
	"strings"

	"github.com/vamshidharreddye/llmlocalai/internal/search"
)

// RenderTable formats hits as a monospace table inside a fenced text
// block. Timestamps are shown to second precision; sizes in kilobytes.
func RenderTable(hits []search.Hit) string {
	if len(hits) == 0 {
		return ""
	}

	const header = "Idx  Size(KB)  Created              Modified             Name"

	var b strings.Builder
	b.WriteString("```text\n")
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", len(header)) + "\n")
	for i, hit := range hits {
		fmt.Fprintf(&b, "%3d  %8.1f  %-19.19s  %-19.19s  %s\n",
			i+1,
			float64(hit.SizeBytes)/1024.0,
			hit.Created,
			hit.Modified,
			hit.Basename,
		)
	}
	b.WriteString("```")
	return b.String()
}
