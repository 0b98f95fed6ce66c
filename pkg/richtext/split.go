package richtext

import (
	"strings"
	"unicode/utf8"
)

// MaxBlockLength stays under the Notion per-block 2000 character ceiling.
const MaxBlockLength = 1900

// SplitText chunks generated prose for multi-block appends. Paragraph
// boundaries are preserved where possible; a single oversized paragraph is
// hard-split at the limit. Order of the input text is preserved.
func SplitText(text string) []string {
	if len(text) <= MaxBlockLength {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		for len(para) > MaxBlockLength {
			flush()
			cut := runeBoundary(para, MaxBlockLength)
			chunks = append(chunks, para[:cut])
			para = para[cut:]
		}

		extra := 0
		if current.Len() > 0 {
			extra = 2
		}
		if current.Len()+extra+len(para) > MaxBlockLength {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}

	flush()
	return chunks
}

// runeBoundary backs a byte cut off until it does not land inside a
// multibyte rune.
func runeBoundary(s string, cut int) int {
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return cut
}
