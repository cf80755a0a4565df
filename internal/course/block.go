package course

import (
	"fmt"
	"sort"
)

// BlockType discriminates the content block union.
type BlockType string

const (
	BlockRichText    BlockType = "richtext"
	BlockVideo       BlockType = "video"
	BlockImage       BlockType = "image"
	BlockModel3D     BlockType = "model3d"
	BlockEmbed       BlockType = "embed"
	BlockCallout     BlockType = "callout"
	BlockDivider     BlockType = "divider"
	BlockInteractive BlockType = "interactive"
)

// BlockWidth controls row layout. Two consecutive half-width blocks share a row.
type BlockWidth string

const (
	WidthFull BlockWidth = "full"
	WidthHalf BlockWidth = "half"
)

// CalloutStyle is the visual style of a callout block.
type CalloutStyle string

const (
	CalloutInfo    CalloutStyle = "info"
	CalloutWarning CalloutStyle = "warning"
	CalloutDanger  CalloutStyle = "danger"
	CalloutSuccess CalloutStyle = "success"
)

// ContentBlock is one unit of topic content. Exactly one payload field is
// populated, matching Type; the rest stay nil.
type ContentBlock struct {
	ID    string     `json:"id" yaml:"id"`
	Type  BlockType  `json:"type" yaml:"type"`
	Order int        `json:"order" yaml:"order"`
	Width BlockWidth `json:"width,omitempty" yaml:"width,omitempty"`

	RichText    *RichTextData    `json:"richtext,omitempty" yaml:"richtext,omitempty"`
	Video       *VideoData       `json:"video,omitempty" yaml:"video,omitempty"`
	Image       *ImageData       `json:"image,omitempty" yaml:"image,omitempty"`
	Model3D     *Model3DData     `json:"model3d,omitempty" yaml:"model3d,omitempty"`
	Embed       *EmbedData       `json:"embed,omitempty" yaml:"embed,omitempty"`
	Callout     *CalloutData     `json:"callout,omitempty" yaml:"callout,omitempty"`
	Interactive *InteractiveData `json:"interactive,omitempty" yaml:"interactive,omitempty"`
}

// RichTextData holds editor-produced HTML.
type RichTextData struct {
	HTML string `json:"html" yaml:"html"`
}

// VideoData references an external or self-hosted video by URL.
type VideoData struct {
	URL string `json:"url" yaml:"url"`
}

// ImageData holds an image URL with display options.
type ImageData struct {
	URL       string `json:"url" yaml:"url"`
	Caption   string `json:"caption,omitempty" yaml:"caption,omitempty"`
	Scale     int    `json:"scale,omitempty" yaml:"scale,omitempty"` // percent, 10-100
	Alignment string `json:"alignment,omitempty" yaml:"alignment,omitempty"`
}

// Model3DData references a 3D asset or an external viewer link.
type Model3DData struct {
	URL   string `json:"url" yaml:"url"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// EmbedData holds an arbitrary iframe URL and its pixel height.
type EmbedData struct {
	URL    string `json:"url" yaml:"url"`
	Height int    `json:"height" yaml:"height"`
}

// CalloutData is a styled aside within topic content.
type CalloutData struct {
	Style CalloutStyle `json:"style" yaml:"style"`
	Title string       `json:"title,omitempty" yaml:"title,omitempty"`
	Body  string       `json:"body" yaml:"body"`
}

// Row is one rendered row of blocks: either a single full-width block or a
// pair of half-width blocks.
type Row []ContentBlock

// GroupRows arranges blocks into render rows. Blocks are sorted by Order and
// scanned left to right: a half-width block followed immediately by another
// half-width block forms a row of two; everything else gets its own row. The
// pairing is greedy, so three consecutive halves become [pair, single].
func GroupRows(blocks []ContentBlock) []Row {
	sorted := make([]ContentBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	var rows []Row
	for i := 0; i < len(sorted); i++ {
		cur := sorted[i]
		if cur.EffectiveWidth() == WidthHalf && i+1 < len(sorted) && sorted[i+1].EffectiveWidth() == WidthHalf {
			rows = append(rows, Row{cur, sorted[i+1]})
			i++
			continue
		}
		rows = append(rows, Row{cur})
	}
	return rows
}

// EffectiveWidth returns the block width with the full default applied.
func (b ContentBlock) EffectiveWidth() BlockWidth {
	if b.Width == WidthHalf {
		return WidthHalf
	}
	return WidthFull
}

// Validate checks that the block is well formed: a known type, a non-negative
// order, a valid width, and exactly the payload matching its type.
func (b ContentBlock) Validate() error {
	if b.ID == "" {
		return ValidationError{Field: "id", Msg: "block id is required"}
	}
	if b.Order < 0 {
		return ValidationError{Field: "order", Msg: "order must be non-negative"}
	}
	if b.Width != "" && b.Width != WidthFull && b.Width != WidthHalf {
		return ValidationError{Field: "width", Msg: fmt.Sprintf("unknown width %q", b.Width)}
	}

	if err := b.validatePayloadShape(); err != nil {
		return err
	}

	switch b.Type {
	case BlockRichText:
		if b.RichText.HTML == "" {
			return ValidationError{Field: "richtext.html", Msg: "richtext body is required"}
		}
	case BlockVideo:
		if b.Video.URL == "" {
			return ValidationError{Field: "video.url", Msg: "video url is required"}
		}
	case BlockImage:
		if b.Image.URL == "" {
			return ValidationError{Field: "image.url", Msg: "image url is required"}
		}
		if b.Image.Scale != 0 && (b.Image.Scale < 10 || b.Image.Scale > 100) {
			return ValidationError{Field: "image.scale", Msg: "scale must be between 10 and 100"}
		}
	case BlockModel3D:
		if b.Model3D.URL == "" {
			return ValidationError{Field: "model3d.url", Msg: "model url is required"}
		}
	case BlockEmbed:
		if b.Embed.URL == "" {
			return ValidationError{Field: "embed.url", Msg: "embed url is required"}
		}
		if b.Embed.Height <= 0 {
			return ValidationError{Field: "embed.height", Msg: "embed height must be positive"}
		}
	case BlockCallout:
		switch b.Callout.Style {
		case CalloutInfo, CalloutWarning, CalloutDanger, CalloutSuccess:
		default:
			return ValidationError{Field: "callout.style", Msg: fmt.Sprintf("unknown callout style %q", b.Callout.Style)}
		}
		if b.Callout.Body == "" {
			return ValidationError{Field: "callout.body", Msg: "callout body is required"}
		}
	case BlockDivider:
		// No payload.
	case BlockInteractive:
		if err := b.Interactive.Validate(); err != nil {
			return err
		}
	default:
		return ValidationError{Field: "type", Msg: fmt.Sprintf("unknown block type %q", b.Type)}
	}

	return nil
}

// validatePayloadShape rejects blocks carrying a payload from another variant
// or missing the payload for their own.
func (b ContentBlock) validatePayloadShape() error {
	payloads := map[BlockType]bool{
		BlockRichText:    b.RichText != nil,
		BlockVideo:       b.Video != nil,
		BlockImage:       b.Image != nil,
		BlockModel3D:     b.Model3D != nil,
		BlockEmbed:       b.Embed != nil,
		BlockCallout:     b.Callout != nil,
		BlockInteractive: b.Interactive != nil,
	}

	for typ, present := range payloads {
		if typ == b.Type {
			if !present {
				return ValidationError{Field: string(typ), Msg: fmt.Sprintf("%s block is missing its payload", typ)}
			}
			continue
		}
		if present {
			return ValidationError{Field: string(typ), Msg: fmt.Sprintf("%s block carries a %s payload", b.Type, typ)}
		}
	}

	return nil
}
