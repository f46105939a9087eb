package render

import (
	"github.com/gosuda/prism/ast"
	pruntime "github.com/gosuda/prism/runtime"
)

// ownBackground lists widgets that draw their background prop themselves.
var ownBackground = map[ast.NodeKind]bool{
	ast.KindButton:  true,
	ast.KindBadge:   true,
	ast.KindToast:   true,
	ast.KindTooltip: true,
	ast.KindPopover: true,
}

func (e *Engine) paint(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect, root bool) {
	if !e.visible(n, env) {
		return
	}
	inner := ctx.inset(e.sizeProp(n, "padding", env, 0))
	gap := e.sizeProp(n, "gap", env, 0)
	if !root && !ownBackground[n.Kind] {
		if bg := e.colorProp(n, "background", env, ast.White); bg != ast.White {
			fb.BlendRect(ctx.X, ctx.Y, ctx.W, ctx.H, bg)
		}
	}

	switch n.Kind {
	case ast.KindColumn, ast.KindStack, ast.KindScroll, ast.KindBox, ast.KindList:
		e.paintColumn(fb, n.Children, env, inner, gap)
	case ast.KindRow:
		e.paintRow(fb, n, env, inner, gap)
	case ast.KindGrid:
		e.paintGrid(fb, n, env, inner, gap)
	case ast.KindCenter:
		e.paintCenter(fb, n, env, inner, gap)
	case ast.KindSpacer:
	case ast.KindDivider:
		e.paintDivider(fb, n, env, ctx)
	case ast.KindText:
		e.paintText(fb, n, env, inner)
	case ast.KindMarkdown:
		e.paintMarkdown(fb, n, env, inner)
	case ast.KindLink:
		e.paintLink(fb, n, env, inner)
	case ast.KindButton:
		e.paintButton(fb, n, env, ctx)
	case ast.KindInput:
		e.paintInput(fb, n, env, ctx)
	case ast.KindTextarea:
		e.paintTextarea(fb, n, env, ctx)
	case ast.KindCheckbox:
		e.paintCheckbox(fb, n, env, ctx)
	case ast.KindRadio:
		e.paintRadio(fb, n, env, ctx)
	case ast.KindToggle:
		e.paintToggle(fb, n, env, ctx)
	case ast.KindSelect:
		e.paintSelect(fb, n, env, ctx)
	case ast.KindSlider:
		e.paintSlider(fb, n, env, ctx)
	case ast.KindImage:
		e.paintImage(fb, n, env, ctx)
	case ast.KindIcon:
		e.paintIcon(fb, n, env, ctx)
	case ast.KindVideo, ast.KindAudio:
		e.paintMedia(fb, ctx)
	case ast.KindCard:
		e.paintCard(fb, n, env, inner)
	case ast.KindBadge:
		e.paintBadge(fb, n, env, ctx)
	case ast.KindProgress:
		e.paintProgress(fb, n, env, ctx)
	case ast.KindAvatar:
		e.paintAvatar(fb, n, env, ctx)
	case ast.KindTable:
		e.paintTable(fb, n, env, inner)
	case ast.KindModal:
		if e.boolProp(n, "open", env, false) {
			e.overlays = append(e.overlays, overlay{node: n, env: env})
		}
	case ast.KindToast, ast.KindTooltip, ast.KindPopover:
		e.paintBanner(fb, n, env, ctx)
	case ast.KindEach:
		e.paintEach(fb, n, env, inner)
	case ast.KindIf, ast.KindShow:
		e.paintColumn(fb, n.Children, env, inner, e.sizeProp(n, "gap", env, flowGap))
	case ast.KindSwitch:
		for _, c := range n.Children {
			if e.visible(c, env) {
				e.paint(fb, c, env, inner, false)
				break
			}
		}
	case ast.KindSlot:
		children := e.slotChildren(n)
		done := e.enterSlot()
		e.paintColumn(fb, children, env, inner, e.sizeProp(n, "gap", env, flowGap))
		done()
	case ast.KindComponent:
		children, cenv, ok := e.enterComponent(n, env)
		if !ok {
			return
		}
		e.paintColumn(fb, children, cenv, inner, gap)
		e.leaveComponent()
	}
}

func (e *Engine) paintColumn(fb *Framebuffer, children []*ast.ViewNode, env pruntime.Env, ctx Rect, gap int) {
	y := ctx.Y
	for _, c := range children {
		if !e.visible(c, env) {
			continue
		}
		_, ch := e.measure(c, env, ctx.W)
		e.paint(fb, c, env, Rect{X: ctx.X, Y: y, W: ctx.W, H: ch}, false)
		y += ch + gap
	}
}

// paintRow centers the row's content horizontally and each child vertically
// against the tallest one.
func (e *Engine) paintRow(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect, gap int) {
	type cell struct {
		node *ast.ViewNode
		w, h int
	}
	var cells []cell
	total, maxH := 0, 0
	for _, c := range n.Children {
		if !e.visible(c, env) {
			continue
		}
		w, h := e.measure(c, env, ctx.W)
		cells = append(cells, cell{node: c, w: w, h: h})
		total += w
		maxH = max(maxH, h)
	}
	if len(cells) == 0 {
		return
	}
	total += gap * (len(cells) - 1)
	x := ctx.X + max((ctx.W-total)/2, 0)
	for _, c := range cells {
		e.paint(fb, c.node, env, Rect{X: x, Y: ctx.Y + (maxH-c.h)/2, W: c.w, H: c.h}, false)
		x += c.w + gap
	}
}

func (e *Engine) paintGrid(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect, gap int) {
	cols := e.intProp(n, "columns", env, 2)
	if cols <= 0 {
		return
	}
	var cells []*ast.ViewNode
	for _, c := range n.Children {
		if e.visible(c, env) {
			cells = append(cells, c)
		}
	}
	if len(cells) == 0 {
		return
	}
	rows := (len(cells) + cols - 1) / cols
	cellW := max((ctx.W-gap*(cols-1))/cols, 0)
	cellH := max((ctx.H-gap*(rows-1))/rows, 0)
	for i, c := range cells {
		col, row := i%cols, i/cols
		e.paint(fb, c, env, Rect{
			X: ctx.X + col*(cellW+gap),
			Y: ctx.Y + row*(cellH+gap),
			W: cellW,
			H: cellH,
		}, false)
	}
}

func (e *Engine) paintCenter(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect, gap int) {
	y := ctx.Y
	for _, c := range n.Children {
		if !e.visible(c, env) {
			continue
		}
		cw, ch := e.measure(c, env, ctx.W)
		e.paint(fb, c, env, Rect{X: ctx.X + max((ctx.W-cw)/2, 0), Y: y, W: cw, H: ch}, false)
		y += ch + gap
	}
}

func (e *Engine) paintEach(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	gap := e.sizeProp(n, "gap", env, flowGap)
	if _, ok := n.Prop("items"); !ok {
		e.paintColumn(fb, n.Children, env, ctx, gap)
		return
	}
	y := ctx.Y
	e.eachItem(n, env, func(item pruntime.Env) {
		for _, c := range n.Children {
			if !e.visible(c, item) {
				continue
			}
			_, ch := e.measure(c, item, ctx.W)
			e.paint(fb, c, item, Rect{X: ctx.X, Y: y, W: ctx.W, H: ch}, false)
			y += ch + gap
		}
	})
}

// paintOverlay draws an open modal over everything painted so far. Regions
// registered underneath are dropped since the dimmed content cannot be
// reached.
func (e *Engine) paintOverlay(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env) {
	fb.Dim()
	e.boxes = e.boxes[:0]
	w := max(min(400, fb.Width-40), 0)
	h := max(min(300, fb.Height-40), 0)
	x := (fb.Width - w) / 2
	y := (fb.Height - h) / 2
	fb.FillRect(x, y, w, h, 0xFFFFFF)
	fb.Outline(x, y, w, h, 0xCCCCCC, 1)
	e.paintColumn(fb, n.Children, env, Rect{X: x, Y: y, W: w, H: h}.inset(20), e.sizeProp(n, "gap", env, 0))
}
