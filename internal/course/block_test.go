package course_test

import (
	"testing"

	"github.com/staplero/staplero/internal/course"
)

func richText(id string, order int, width course.BlockWidth) course.ContentBlock {
	return course.ContentBlock{
		ID:       id,
		Type:     course.BlockRichText,
		Order:    order,
		Width:    width,
		RichText: &course.RichTextData{HTML: "<p>veiligheid eerst</p>"},
	}
}

func TestGroupRows_ThreeHalves(t *testing.T) {
	blocks := []course.ContentBlock{
		richText("a", 0, course.WidthHalf),
		richText("b", 1, course.WidthHalf),
		richText("c", 2, course.WidthHalf),
	}

	rows := course.GroupRows(blocks)

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if len(rows[0]) != 2 || rows[0][0].ID != "a" || rows[0][1].ID != "b" {
		t.Errorf("first row = %v, want [a b]", rowIDs(rows[0]))
	}
	if len(rows[1]) != 1 || rows[1][0].ID != "c" {
		t.Errorf("second row = %v, want [c]", rowIDs(rows[1]))
	}
}

func TestGroupRows_FullBreaksPair(t *testing.T) {
	blocks := []course.ContentBlock{
		richText("a", 0, course.WidthHalf),
		richText("b", 1, course.WidthFull),
		richText("c", 2, course.WidthHalf),
	}

	rows := course.GroupRows(blocks)

	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (full block breaks the pair)", len(rows))
	}
	for i, want := range []string{"a", "b", "c"} {
		if len(rows[i]) != 1 || rows[i][0].ID != want {
			t.Errorf("row %d = %v, want [%s]", i, rowIDs(rows[i]), want)
		}
	}
}

func TestGroupRows_SortsByOrder(t *testing.T) {
	blocks := []course.ContentBlock{
		richText("late", 5, course.WidthFull),
		richText("early", 1, course.WidthFull),
	}

	rows := course.GroupRows(blocks)

	if rows[0][0].ID != "early" || rows[1][0].ID != "late" {
		t.Errorf("rows not ordered by Order field: %v then %v", rowIDs(rows[0]), rowIDs(rows[1]))
	}
}

func TestGroupRows_Empty(t *testing.T) {
	if rows := course.GroupRows(nil); len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}

func TestEffectiveWidth_DefaultsToFull(t *testing.T) {
	b := course.ContentBlock{ID: "x", Type: course.BlockDivider}
	if got := b.EffectiveWidth(); got != course.WidthFull {
		t.Errorf("EffectiveWidth() = %q, want full", got)
	}
}

func TestBlockValidate(t *testing.T) {
	tests := []struct {
		name    string
		block   course.ContentBlock
		wantErr bool
	}{
		{
			name:  "valid richtext",
			block: richText("a", 0, course.WidthFull),
		},
		{
			name: "valid divider",
			block: course.ContentBlock{
				ID:   "d",
				Type: course.BlockDivider,
			},
		},
		{
			name: "missing id",
			block: course.ContentBlock{
				Type:     course.BlockRichText,
				RichText: &course.RichTextData{HTML: "<p>x</p>"},
			},
			wantErr: true,
		},
		{
			name: "negative order",
			block: course.ContentBlock{
				ID:       "a",
				Type:     course.BlockRichText,
				Order:    -1,
				RichText: &course.RichTextData{HTML: "<p>x</p>"},
			},
			wantErr: true,
		},
		{
			name: "payload from another variant",
			block: course.ContentBlock{
				ID:       "a",
				Type:     course.BlockVideo,
				Video:    &course.VideoData{URL: "https://cdn.staplero.nl/v.mp4"},
				RichText: &course.RichTextData{HTML: "<p>x</p>"},
			},
			wantErr: true,
		},
		{
			name: "missing payload",
			block: course.ContentBlock{
				ID:   "a",
				Type: course.BlockVideo,
			},
			wantErr: true,
		},
		{
			name: "divider with payload",
			block: course.ContentBlock{
				ID:       "d",
				Type:     course.BlockDivider,
				RichText: &course.RichTextData{HTML: "<p>x</p>"},
			},
			wantErr: true,
		},
		{
			name: "image scale out of range",
			block: course.ContentBlock{
				ID:    "i",
				Type:  course.BlockImage,
				Image: &course.ImageData{URL: "https://cdn.staplero.nl/i.png", Scale: 5},
			},
			wantErr: true,
		},
		{
			name: "image scale in range",
			block: course.ContentBlock{
				ID:    "i",
				Type:  course.BlockImage,
				Image: &course.ImageData{URL: "https://cdn.staplero.nl/i.png", Scale: 80},
			},
		},
		{
			name: "embed without height",
			block: course.ContentBlock{
				ID:    "e",
				Type:  course.BlockEmbed,
				Embed: &course.EmbedData{URL: "https://example.com/widget"},
			},
			wantErr: true,
		},
		{
			name: "callout with unknown style",
			block: course.ContentBlock{
				ID:      "c",
				Type:    course.BlockCallout,
				Callout: &course.CalloutData{Style: "loud", Body: "pas op"},
			},
			wantErr: true,
		},
		{
			name: "unknown width",
			block: course.ContentBlock{
				ID:       "a",
				Type:     course.BlockRichText,
				Width:    "third",
				RichText: &course.RichTextData{HTML: "<p>x</p>"},
			},
			wantErr: true,
		},
		{
			name: "unknown type",
			block: course.ContentBlock{
				ID:   "a",
				Type: "carousel",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.block.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func rowIDs(row course.Row) []string {
	ids := make([]string, len(row))
	for i, b := range row {
		ids[i] = b.ID
	}
	return ids
}
