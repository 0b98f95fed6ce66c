package notion

import (
	"encoding/json"
	"strings"

	"NotionVoice/pkg/richtext"
)

// Page is the subset of a page (or database row) object the executors need.
type Page struct {
	ID         string                     `json:"id"`
	Object     string                     `json:"object"`
	Archived   bool                       `json:"archived"`
	URL        string                     `json:"url,omitempty"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
}

type Database struct {
	ID    string              `json:"id"`
	Title []richtext.RichText `json:"title,omitempty"`
}

// Block is a returned block object. The type-specific payload is kept raw and
// inspected only for its rich text.
type Block struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Archived bool   `json:"archived"`

	raw map[string]json.RawMessage
}

func (b *Block) UnmarshalJSON(data []byte) error {
	type alias Block
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = Block(a)
	return json.Unmarshal(data, &b.raw)
}

type richTextPayload struct {
	RichText []struct {
		PlainText string `json:"plain_text"`
	} `json:"rich_text"`
}

// PlainText concatenates the block's rich text, empty for block types that
// carry none (dividers, images).
func (b *Block) PlainText() string {
	payload, ok := b.raw[b.Type]
	if !ok {
		return ""
	}

	var rt richTextPayload
	if err := json.Unmarshal(payload, &rt); err != nil {
		return ""
	}

	var sb strings.Builder
	for _, span := range rt.RichText {
		sb.WriteString(span.PlainText)
	}
	return sb.String()
}

type searchResponse struct {
	Results []Page `json:"results"`
}

type blockListResponse struct {
	Results []Block `json:"results"`
}

// Title extracts the page's title from whichever property holds it.
func (p *Page) Title() string {
	for _, raw := range p.Properties {
		var prop struct {
			Type  string `json:"type"`
			Title []struct {
				PlainText string `json:"plain_text"`
			} `json:"title"`
		}
		if err := json.Unmarshal(raw, &prop); err != nil {
			continue
		}
		if prop.Type != "title" {
			continue
		}
		var sb strings.Builder
		for _, span := range prop.Title {
			sb.WriteString(span.PlainText)
		}
		return sb.String()
	}
	return ""
}

// BlockRequest is one block object in an append payload.
type BlockRequest map[string]interface{}

// NewBlock builds a typed block request around the given spans.
func NewBlock(blockType string, spans []richtext.RichText) BlockRequest {
	return BlockRequest{
		"type":    blockType,
		blockType: map[string]interface{}{"rich_text": spans},
	}
}

// NewTodoBlock builds an unchecked to-do item.
func NewTodoBlock(spans []richtext.RichText) BlockRequest {
	return BlockRequest{
		"type": "to_do",
		"to_do": map[string]interface{}{
			"rich_text": spans,
			"checked":   false,
		},
	}
}

// NewCalloutBlock builds a callout with an emoji icon.
func NewCalloutBlock(spans []richtext.RichText, emoji string) BlockRequest {
	if emoji == "" {
		emoji = "💡"
	}
	return BlockRequest{
		"type": "callout",
		"callout": map[string]interface{}{
			"rich_text": spans,
			"icon":      map[string]string{"type": "emoji", "emoji": emoji},
		},
	}
}

// NewCodeBlock builds a code block with an optional language.
func NewCodeBlock(spans []richtext.RichText, language string) BlockRequest {
	if language == "" {
		language = "plain text"
	}
	return BlockRequest{
		"type": "code",
		"code": map[string]interface{}{
			"rich_text": spans,
			"language":  language,
		},
	}
}

// NewDividerBlock builds a horizontal divider.
func NewDividerBlock() BlockRequest {
	return BlockRequest{
		"type":    "divider",
		"divider": map[string]interface{}{},
	}
}
