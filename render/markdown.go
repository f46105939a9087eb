package render

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gosuda/prism/ast"
	pruntime "github.com/gosuda/prism/runtime"
)

type mdBlock struct {
	text   string
	size   float64
	color  uint32
	indent int
	code   bool
	rule   bool
}

var markdown = goldmark.New()

// markdownBlocks flattens a markdown document into wrap-ready blocks.
func markdownBlocks(src string, base float64) []mdBlock {
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))
	var out []mdBlock
	var walk func(n gast.Node, indent int, bullet string)
	walk = func(n gast.Node, indent int, bullet string) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch b := c.(type) {
			case *gast.Heading:
				size := base + float64(max(4-b.Level, 0))*4
				out = append(out, mdBlock{text: inlineText(b, source), size: size, color: 0x000000, indent: indent})
			case *gast.Paragraph, *gast.TextBlock:
				out = append(out, mdBlock{text: bullet + inlineText(b, source), size: base, color: 0x000000, indent: indent})
				bullet = ""
			case *gast.FencedCodeBlock, *gast.CodeBlock:
				lines := c.Lines()
				code := make([]string, 0, lines.Len())
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					code = append(code, strings.TrimRight(string(seg.Value(source)), "\n"))
				}
				out = append(out, mdBlock{text: strings.Join(code, "\n"), size: base - 2, color: colorLabel, indent: indent + 8, code: true})
			case *gast.ThematicBreak:
				out = append(out, mdBlock{rule: true, indent: indent})
			case *gast.List:
				i := b.Start
				for item := c.FirstChild(); item != nil; item = item.NextSibling() {
					mark := "• "
					if b.IsOrdered() {
						mark = strconv.Itoa(i) + ". "
						i++
					}
					walk(item, indent+16, mark)
				}
			case *gast.Blockquote:
				walk(c, indent+12, "")
			default:
				walk(c, indent, bullet)
			}
		}
	}
	walk(doc, 0, "")
	return out
}

func inlineText(n gast.Node, source []byte) string {
	var sb strings.Builder
	var walk func(gast.Node)
	walk = func(n gast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *gast.Text:
				sb.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					sb.WriteByte(' ')
				}
			case *gast.String:
				sb.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

func (e *Engine) blockHeight(b mdBlock, limit int) int {
	if b.rule {
		return 9
	}
	if b.code {
		return e.lineHeight(b.size) * (strings.Count(b.text, "\n") + 1)
	}
	_, h := e.measureText(b.text, b.size, limit-b.indent)
	return h
}

func (e *Engine) measureMarkdown(n *ast.ViewNode, env pruntime.Env, limit int) (int, int) {
	blocks := markdownBlocks(e.stringProp(n, "content", env, ""), e.floatProp(n, "size", env, defaultText))
	if len(blocks) == 0 {
		return 0, e.lineHeight(e.floatProp(n, "size", env, defaultText))
	}
	maxW, total := 0, 0
	for i, b := range blocks {
		if i > 0 {
			total += markdownBlock
		}
		total += e.blockHeight(b, limit)
		if b.rule {
			continue
		}
		if b.code {
			for _, l := range strings.Split(b.text, "\n") {
				maxW = max(maxW, min(approxWidth(l, b.size)+b.indent, limit))
			}
			continue
		}
		for _, l := range wrap(b.text, b.size, limit-b.indent) {
			maxW = max(maxW, min(approxWidth(l, b.size)+b.indent, limit))
		}
	}
	return maxW, total
}

func (e *Engine) paintMarkdown(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	blocks := markdownBlocks(e.stringProp(n, "content", env, ""), e.floatProp(n, "size", env, defaultText))
	fg := e.colorProp(n, "color", env, ast.Black).U32()
	y := ctx.Y
	for _, b := range blocks {
		h := e.blockHeight(b, ctx.W)
		x := ctx.X + b.indent
		switch {
		case b.rule:
			fb.FillRect(ctx.X, y+4, ctx.W, 1, colorTrack)
		case b.code:
			fb.FillRect(ctx.X+b.indent-8, y, ctx.W-b.indent+8, h, 0xF5F5F5)
			lh := e.lineHeight(b.size)
			for i, line := range strings.Split(b.text, "\n") {
				e.drawText(fb, line, x, e.baseline(y+i*lh, lh, b.size), b.size, b.color)
			}
		default:
			c := b.color
			if c == 0x000000 {
				c = fg
			}
			lh := e.lineHeight(b.size)
			ly := y
			for _, line := range wrap(b.text, b.size, ctx.W-b.indent) {
				e.drawText(fb, line, x, e.baseline(ly, lh, b.size), b.size, c)
				ly += lh
			}
		}
		y += h + markdownBlock
	}
}
