package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mdShape struct {
	Text   string
	Size   float64
	Indent int
	Code   bool
	Rule   bool
}

func TestMarkdownBlocks(t *testing.T) {
	src := "# Title\n\n## Sub\n\n    x\n    y\n\n---\n\n- one\n- two\n\n3. a\n4. b\n\n> quoted\n\nend"
	var got []mdShape
	for _, b := range markdownBlocks(src, 16) {
		got = append(got, mdShape{Text: b.text, Size: b.size, Indent: b.indent, Code: b.code, Rule: b.rule})
	}
	want := []mdShape{
		{Text: "Title", Size: 28},
		{Text: "Sub", Size: 24},
		{Text: "x\ny", Size: 14, Indent: 8, Code: true},
		{Rule: true},
		{Text: "• one", Size: 16, Indent: 16},
		{Text: "• two", Size: 16, Indent: 16},
		{Text: "3. a", Size: 16, Indent: 16},
		{Text: "4. b", Size: 16, Indent: 16},
		{Text: "quoted", Size: 16, Indent: 12},
		{Text: "end", Size: 16},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("blocks (-want +got):\n%s", diff)
	}
}

func TestMarkdownHeadingSizeFloorsAtBase(t *testing.T) {
	blocks := markdownBlocks("###### small", 10)
	if len(blocks) != 1 || blocks[0].size != 10 {
		t.Fatalf("blocks = %+v", blocks)
	}
}
