// Package summarizer extracts text from a resolved file and drives the
// generation call. Every failure along the way degrades to something the
// user can still read: an error line plus the raw extracted text, or an
// explanatory message when there is no text either. Nothing here propagates
// an error to the caller.
package summarizer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vamshidharreddye/llmlocalai/internal/extract"
	"github.com/vamshidharreddye/llmlocalai/internal/index"
	"github.com/vamshidharreddye/llmlocalai/internal/llm"
)

const (
	// promptCharBudget is the hard cap on document text embedded in the
	// prompt. Small local models crash on oversized contexts.
	promptCharBudget = 2000

	// Degraded-response snippet caps.
	textSnippetCap = 4000
	pdfSnippetCap  = 8000
)

const promptTemplate = `You are a helpful assistant.

Provide a concise summary of this document. Include:
- A short overview (3-5 bullet points)
- Any important dates, names, or numbers
- The main purpose of the document

Document content:
%s
`

const (
	msgNoText = "I couldn't extract any readable text from this file."

	msgNothingAtAll = "I couldn't summarize because the local model failed, " +
		"and I couldn't extract text from the file. Try a smaller model or check file permissions."
)

// Summarizer drives the extract -> generate -> degrade pipeline.
type Summarizer struct {
	llm *llm.Client
}

// New creates a Summarizer backed by the given generation client.
func New(client *llm.Client) *Summarizer {
	return &Summarizer{llm: client}
}

// Summarize produces a summary of the entry's content, or the best degraded
// substitute available. The model override, when non-empty, applies to this
// call only.
func (s *Summarizer) Summarize(ctx context.Context, entry index.FileEntry, modelOverride string) string {
	ext := strings.ToLower(entry.Extension)

	if !extract.Summarizable(ext) {
		return fmt.Sprintf(
			"This is a %s file (extension %s). Automatic summarization is currently "+
				"implemented for PDFs and common text formats (.txt, .md, .rtf, .docx).",
			entry.Kind, ext)
	}

	text, err := extract.Text(entry.Path, ext, extract.SummaryLimits)
	if err != nil || strings.TrimSpace(text) == "" {
		return msgNoText
	}

	prompt := fmt.Sprintf(promptTemplate, truncate(text, promptCharBudget))

	summary, genErr := s.llm.Generate(ctx, prompt, modelOverride)
	if genErr == nil {
		return summary
	}

	return s.degraded(genErr, text, ext)
}

// degraded builds the fallback response: the error line (when present)
// followed by a raw text snippet, so the user still gets something useful
// instead of a cryptic model crash message.
func (s *Summarizer) degraded(genErr error, text, ext string) string {
	errLine := llm.ErrorLine(genErr)

	limit := textSnippetCap
	if ext == ".pdf" {
		limit = pdfSnippetCap
	}
	snippet := truncate(text, limit)

	if strings.TrimSpace(snippet) == "" {
		if errLine != "" {
			return errLine + "\n\n" + msgNothingAtAll
		}
		return msgNothingAtAll
	}

	if errLine != "" {
		return errLine + "\n\n" + snippet
	}
	return "(Model unavailable) Extracted text snippet:\n\n" + snippet
}

// truncate cuts s to at most max bytes, backing off to a rune boundary so
// the result stays valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
