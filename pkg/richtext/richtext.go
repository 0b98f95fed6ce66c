package richtext

import "strings"

// Annotations mirrors the Notion rich-text annotation object.
type Annotations struct {
	Bold          bool `json:"bold,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
	Code          bool `json:"code,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// RichText is one styled span in the shape the Notion API expects.
type RichText struct {
	Type        string       `json:"type"`
	Text        TextContent  `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

func plain(content string) RichText {
	return RichText{Type: "text", Text: TextContent{Content: content}}
}

// Simple returns a single unstyled span.
func Simple(text string) []RichText {
	return []RichText{plain(text)}
}

// Parse tokenizes inline markdown markers into styled spans in one pass:
// ***bold italic***, **bold**, *italic*, _italic_, ~~strikethrough~~,
// `code` and [text](url). Unterminated markers are emitted literally.
func Parse(text string) []RichText {
	var spans []RichText
	var literal strings.Builder

	flushLiteral := func() {
		if literal.Len() > 0 {
			spans = append(spans, plain(literal.String()))
			literal.Reset()
		}
	}

	i := 0
	for i < len(text) {
		marker, annotations, isLink := matchMarker(text[i:])
		if marker == "" {
			literal.WriteByte(text[i])
			i++
			continue
		}

		if isLink {
			label, url, consumed := matchLink(text[i:])
			if consumed == 0 {
				literal.WriteByte(text[i])
				i++
				continue
			}
			flushLiteral()
			spans = append(spans, RichText{
				Type: "text",
				Text: TextContent{Content: label, Link: &Link{URL: url}},
			})
			i += consumed
			continue
		}

		end := strings.Index(text[i+len(marker):], marker)
		if end <= 0 {
			// No closing marker or empty span: treat as literal text.
			literal.WriteString(marker)
			i += len(marker)
			continue
		}

		inner := text[i+len(marker) : i+len(marker)+end]
		flushLiteral()
		a := annotations
		spans = append(spans, RichText{
			Type:        "text",
			Text:        TextContent{Content: inner},
			Annotations: &a,
		})
		i += 2*len(marker) + end
	}

	flushLiteral()

	if len(spans) == 0 {
		return Simple(text)
	}
	return spans
}

// matchMarker reports the marker starting at s, longest first so ***
// wins over ** and *.
func matchMarker(s string) (string, Annotations, bool) {
	switch {
	case strings.HasPrefix(s, "***"):
		return "***", Annotations{Bold: true, Italic: true}, false
	case strings.HasPrefix(s, "**"):
		return "**", Annotations{Bold: true}, false
	case strings.HasPrefix(s, "*"):
		return "*", Annotations{Italic: true}, false
	case strings.HasPrefix(s, "_"):
		return "_", Annotations{Italic: true}, false
	case strings.HasPrefix(s, "~~"):
		return "~~", Annotations{Strikethrough: true}, false
	case strings.HasPrefix(s, "`"):
		return "`", Annotations{Code: true}, false
	case strings.HasPrefix(s, "["):
		return "[", Annotations{}, true
	}
	return "", Annotations{}, false
}

// matchLink parses [label](url) at the start of s, returning bytes consumed
// or zero when s is not a well-formed link.
func matchLink(s string) (label, url string, consumed int) {
	closeBracket := strings.Index(s, "]")
	if closeBracket <= 1 {
		return "", "", 0
	}
	if closeBracket+1 >= len(s) || s[closeBracket+1] != '(' {
		return "", "", 0
	}
	closeParen := strings.Index(s[closeBracket+2:], ")")
	if closeParen <= 0 {
		return "", "", 0
	}

	label = s[1:closeBracket]
	url = s[closeBracket+2 : closeBracket+2+closeParen]
	return label, url, closeBracket + closeParen + 3
}
