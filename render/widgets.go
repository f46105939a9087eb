package render

import (
	"unicode"
	"unicode/utf8"

	"github.com/gosuda/prism/ast"
	pruntime "github.com/gosuda/prism/runtime"
)

const (
	colorAccent      = 0x4285F4
	colorBorder      = 0xCCCCCC
	colorPlaceholder = 0x999999
	colorLabel       = 0x333333
	colorMuted       = 0x666666
	colorTrack       = 0xE0E0E0
	colorLink        = 0x1976D2
	colorBanner      = 0x323232
)

func (e *Engine) paintText(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	content := e.stringProp(n, "content", env, "")
	if content == "" {
		return
	}
	size := e.floatProp(n, "size", env, defaultText)
	fg := e.colorProp(n, "color", env, ast.Black).U32()
	align := e.stringProp(n, "align", env, "left")
	lh := e.lineHeight(size)
	y := ctx.Y
	for _, line := range wrap(content, size, ctx.W) {
		x := ctx.X
		switch align {
		case "center":
			x += max((ctx.W-e.font.Measure(line, size))/2, 0)
		case "right":
			x += max(ctx.W-e.font.Measure(line, size), 0)
		}
		e.drawText(fb, line, x, e.baseline(y, lh, size), size, fg)
		y += lh
	}
}

func (e *Engine) paintLink(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	content := e.stringProp(n, "content", env, "Link")
	href := e.stringProp(n, "href", env, "")
	size := e.floatProp(n, "size", env, defaultText)
	lines := wrap(content, size, ctx.W)
	lh := e.lineHeight(size)
	y, maxW := ctx.Y, 0
	for _, line := range lines {
		w := min(e.font.Measure(line, size), ctx.W)
		maxW = max(maxW, w)
		base := e.baseline(y, lh, size)
		e.drawText(fb, line, ctx.X, base, size, colorLink)
		fb.FillRect(ctx.X, base+2, w, 1, colorLink)
		y += lh
	}
	if href != "" {
		e.register(Box{Rect: Rect{X: ctx.X, Y: ctx.Y, W: max(maxW, 20), H: max(len(lines)*lh, 16)}, Href: href})
	}
}

func (e *Engine) paintDivider(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	c := e.colorProp(n, "color", env, ast.FromU32(colorTrack)).U32()
	if e.stringProp(n, "direction", env, "horizontal") == "vertical" {
		fb.FillRect(ctx.X+ctx.W/2, ctx.Y, 1, ctx.H, c)
		return
	}
	fb.FillRect(ctx.X, ctx.Y+ctx.H/2, ctx.W, 1, c)
}

func (e *Engine) paintButton(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	content := e.stringProp(n, "content", env, "Button")
	fg := e.colorProp(n, "color", env, ast.Black).U32()
	bg := e.colorProp(n, "background", env, ast.LightGray)
	w := e.buttonWidth(content, ctx.W)
	x, y := ctx.X, ctx.Y+(ctx.H-buttonHeight)/2

	top := bg.Lighten(20)
	fb.FillRoundedGradient(x, y, w, buttonHeight, 10, top.U32(), bg.U32())
	fb.FillRect(x+2, y+1, w-4, 1, top.Lighten(36).U32())
	fb.FillRect(x+2, y+buttonHeight-2, w-4, 1, bg.Darken(30).U32())

	if utf8.RuneCountInString(content) <= 2 {
		// Short labels are centered on their ink box.
		const size = 16.0
		if x0, y0, x1, y1, ok := e.glyphBounds(content, size); ok {
			pen := x + (w-(x1-x0))/2 - x0
			base := y + (buttonHeight-(y1-y0))/2 - y0
			e.drawText(fb, content, pen, base, size, fg)
		}
	} else {
		tw := e.textWidth(content, buttonText)
		e.drawText(fb, content, x+max((w-tw)/2, 0), e.baseline(y, buttonHeight, buttonText), buttonText, fg)
	}

	if action, args, ok := e.handler(n, "on_click", env); ok {
		e.register(Box{Rect: Rect{X: x, Y: y, W: w, H: buttonHeight}, Action: action, Args: args})
	}
}

func (e *Engine) paintInput(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	binding := e.binding(n, env)
	value := e.bound(env, binding)
	placeholder := e.stringProp(n, "placeholder", env, "")
	w := inputWidth(ctx.W)
	x, y := ctx.X, ctx.Y+(ctx.H-inputHeight)/2
	focused := binding != "" && binding == e.focus

	fb.FillRect(x, y, w, inputHeight, 0xFFFFFF)
	if focused {
		fb.Outline(x, y, w, inputHeight, colorAccent, 2)
	} else {
		fb.Outline(x, y, w, inputHeight, colorBorder, 1)
	}

	tx, base, room := x+10, e.baseline(y, inputHeight, controlText), w-20
	if value == "" && !focused {
		e.drawText(fb, e.fitHead(placeholder, controlText, room), tx, base, controlText, colorPlaceholder)
	} else {
		shown := e.fitTail(value, controlText, room)
		e.drawText(fb, shown, tx, base, controlText, 0x000000)
		if focused && e.cursorOn {
			e.drawCursor(fb, tx+e.font.Measure(shown, controlText), base)
		}
	}

	if binding != "" {
		e.register(Box{Rect: Rect{X: x, Y: y, W: w, H: inputHeight}, Binding: binding})
	}
}

func (e *Engine) drawCursor(fb *Framebuffer, x, base int) {
	m := e.font.LineMetrics(controlText)
	fb.FillRect(x, base-int(controlText), 2, max(int(controlText)+m.Descent, 14), 0x000000)
}

func (e *Engine) paintTextarea(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	binding := e.binding(n, env)
	value := e.bound(env, binding)
	w := min(ctx.W, 400)
	h := e.sizeProp(n, "height", env, 100)
	focused := binding != "" && binding == e.focus

	fb.FillRect(ctx.X, ctx.Y, w, h, 0xFFFFFF)
	if focused {
		fb.Outline(ctx.X, ctx.Y, w, h, colorAccent, 2)
	} else {
		fb.Outline(ctx.X, ctx.Y, w, h, colorBorder, 1)
	}

	text, fg := value, uint32(0x000000)
	if value == "" {
		text, fg = e.stringProp(n, "placeholder", env, ""), colorPlaceholder
	}
	lh := e.lineHeight(controlText)
	y, last := ctx.Y+8, ""
	for _, line := range wrap(text, controlText, w-16) {
		if y+lh > ctx.Y+h-4 {
			break
		}
		e.drawText(fb, line, ctx.X+8, e.baseline(y, lh, controlText), controlText, fg)
		last = line
		y += lh
	}
	if focused && e.cursorOn {
		if value == "" {
			last, y = "", y+lh
		}
		e.drawCursor(fb, ctx.X+8+e.font.Measure(last, controlText), e.baseline(y-lh, lh, controlText))
	}

	if binding != "" {
		e.register(Box{Rect: Rect{X: ctx.X, Y: ctx.Y, W: w, H: h}, Binding: binding})
	}
}

func (e *Engine) paintCheckbox(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	label := e.stringProp(n, "label", env, "")
	y := ctx.Y + (ctx.H-checkboxSize)/2
	fb.Outline(ctx.X, y, checkboxSize, checkboxSize, colorMuted, 1)
	if e.boolProp(n, "checked", env, false) {
		fb.FillRect(ctx.X+4, y+4, checkboxSize-8, checkboxSize-8, colorAccent)
	}
	e.paintControlLabel(fb, label, ctx.X, y)
	e.registerChange(n, env, ctx.X, y, label)
}

func (e *Engine) paintRadio(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	label := e.stringProp(n, "label", env, "")
	y := ctx.Y + (ctx.H-checkboxSize)/2
	fb.FillRoundedGradient(ctx.X, y, checkboxSize, checkboxSize, checkboxSize/2, colorMuted, colorMuted)
	fb.FillRoundedGradient(ctx.X+1, y+1, checkboxSize-2, checkboxSize-2, checkboxSize/2-1, 0xFFFFFF, 0xFFFFFF)
	if e.boolProp(n, "selected", env, false) {
		fb.FillRoundedGradient(ctx.X+5, y+5, 10, 10, 5, colorAccent, colorAccent)
	}
	e.paintControlLabel(fb, label, ctx.X, y)
	e.registerChange(n, env, ctx.X, y, label)
}

func (e *Engine) paintControlLabel(fb *Framebuffer, label string, x, y int) {
	if label == "" {
		return
	}
	e.drawText(fb, label, x+checkboxSize+8, e.baseline(y, checkboxSize, controlText), controlText, colorLabel)
}

func (e *Engine) registerChange(n *ast.ViewNode, env pruntime.Env, x, y int, label string) {
	action, args, ok := e.handler(n, "on_change", env)
	if !ok {
		return
	}
	w := checkboxSize
	if label != "" {
		w += 8 + e.textWidth(label, controlText)
	}
	e.register(Box{Rect: Rect{X: x, Y: y, W: w, H: checkboxSize}, Action: action, Args: args})
}

func (e *Engine) paintToggle(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	on := e.boolProp(n, "value", env, false)
	y := ctx.Y + (ctx.H-toggleHeight)/2
	track, thumb := uint32(colorBorder), ctx.X+2
	if on {
		track, thumb = colorAccent, ctx.X+toggleWidth-22
	}
	fb.FillRoundedGradient(ctx.X, y, toggleWidth, toggleHeight, toggleHeight/2, track, track)
	fb.FillRoundedGradient(thumb, y+2, 20, 20, 10, 0xFFFFFF, 0xFFFFFF)
	if action, args, ok := e.handler(n, "on_change", env); ok {
		e.register(Box{Rect: Rect{X: ctx.X, Y: y, W: toggleWidth, H: toggleHeight}, Action: action, Args: args})
	}
}

func (e *Engine) paintSelect(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	value := e.stringProp(n, "value", env, "Select...")
	w := min(ctx.W, selectWidth)
	fb.FillRect(ctx.X, ctx.Y, w, selectHeight, 0xFFFFFF)
	fb.Outline(ctx.X, ctx.Y, w, selectHeight, colorBorder, 1)
	base := e.baseline(ctx.Y, selectHeight, controlText)
	e.drawText(fb, e.fitHead(value, controlText, w-36), ctx.X+8, base, controlText, colorLabel)
	e.drawText(fb, "▼", ctx.X+w-20, base, 12, colorMuted)
	if action, args, ok := e.handler(n, "on_change", env); ok {
		e.register(Box{Rect: Rect{X: ctx.X, Y: ctx.Y, W: w, H: selectHeight}, Action: action, Args: args})
	}
}

func (e *Engine) paintSlider(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	value := e.floatProp(n, "value", env, 50)
	lo := e.floatProp(n, "min", env, 0)
	hi := e.floatProp(n, "max", env, 100)
	w := min(ctx.W, sliderWidth)
	y := ctx.Y + ctx.H/2 - 2

	ratio := 0.0
	if hi > lo {
		ratio = max(0, min(1, (value-lo)/(hi-lo)))
	}
	filled := int(float64(w) * ratio)
	fb.FillRect(ctx.X, y, w, 4, colorTrack)
	fb.FillRect(ctx.X, y, filled, 4, colorAccent)
	fb.FillRoundedGradient(ctx.X+filled-8, y-6, 16, 16, 8, colorAccent, colorAccent)
	if action, args, ok := e.handler(n, "on_change", env); ok {
		e.register(Box{Rect: Rect{X: ctx.X, Y: ctx.Y, W: w, H: ctx.H}, Action: action, Args: args})
	}
}

func (e *Engine) paintImage(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	w := min(e.sizeProp(n, "width", env, 100), ctx.W)
	h := min(e.sizeProp(n, "height", env, 100), ctx.H)
	fb.FillRect(ctx.X, ctx.Y, w, h, colorTrack)
	alt := e.stringProp(n, "alt", env, "Image")
	e.drawText(fb, e.fitHead(alt, 12, w-16), ctx.X+8, ctx.Y+8+e.font.LineMetrics(12).Ascent, 12, colorMuted)
}

func (e *Engine) paintIcon(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	size := e.floatProp(n, "size", env, 24)
	fg := e.colorProp(n, "color", env, ast.Black).U32()
	e.drawText(fb, e.stringProp(n, "name", env, "?"), ctx.X, e.baseline(ctx.Y, e.lineHeight(size), size), size, fg)
}

func (e *Engine) paintMedia(fb *Framebuffer, ctx Rect) {
	fb.FillRect(ctx.X, ctx.Y, min(ctx.W, mediaWidth), min(ctx.H, mediaHeight), 0x333333)
	e.drawText(fb, "▶ Media", ctx.X+10, ctx.Y+10+e.font.LineMetrics(controlText).Ascent, controlText, 0xFFFFFF)
}

func (e *Engine) paintCard(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	fb.FillRect(ctx.X+2, ctx.Y+2, ctx.W, ctx.H, 0xDDDDDD)
	fb.FillRect(ctx.X, ctx.Y, ctx.W, ctx.H, 0xFFFFFF)
	fb.Outline(ctx.X, ctx.Y, ctx.W, ctx.H, colorTrack, 1)
	e.paintColumn(fb, n.Children, env, ctx.inset(cardInset), e.sizeProp(n, "gap", env, 0))
}

func (e *Engine) paintBadge(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	content := e.stringProp(n, "content", env, "0")
	bg := e.colorProp(n, "background", env, ast.Red).U32()
	fg := e.colorProp(n, "color", env, ast.White).U32()
	w, y := badgeWidth(content), ctx.Y+(ctx.H-24)/2
	fb.FillRect(ctx.X, y, w, 24, bg)
	e.drawText(fb, content, ctx.X+8, e.baseline(y, 24, controlText), controlText, fg)
}

func (e *Engine) paintProgress(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	value := e.floatProp(n, "value", env, 0)
	hi := e.floatProp(n, "max", env, 100)
	y := ctx.Y + ctx.H/2 - 4
	fb.FillRect(ctx.X, y, ctx.W, 8, colorTrack)
	ratio := 0.0
	if hi > 0 {
		ratio = max(0, min(1, value/hi))
	}
	fill := e.colorProp(n, "color", env, ast.Green).U32()
	fb.FillRect(ctx.X, y, int(float64(ctx.W)*ratio), 8, fill)
}

func (e *Engine) paintAvatar(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	s := e.sizeProp(n, "size", env, 40)
	c := e.colorProp(n, "color", env, ast.Gray).U32()
	fb.FillRoundedGradient(ctx.X, ctx.Y, s, s, s/2, c, c)

	initial := "?"
	if r, _ := utf8.DecodeRuneInString(e.stringProp(n, "name", env, "?")); r != utf8.RuneError {
		initial = string(unicode.ToUpper(r))
	}
	size := float64(s) / 2
	if x0, y0, x1, y1, ok := e.glyphBounds(initial, size); ok {
		e.drawText(fb, initial, ctx.X+(s-(x1-x0))/2-x0, ctx.Y+(s-(y1-y0))/2-y0, size, 0xFFFFFF)
	}
}

func (e *Engine) paintTable(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	y := ctx.Y
	for _, c := range n.Children {
		if !e.visible(c, env) {
			continue
		}
		fb.Outline(ctx.X, y, ctx.W, tableRow, colorTrack, 1)
		e.paint(fb, c, env, Rect{X: ctx.X, Y: y, W: ctx.W, H: tableRow}, false)
		y += tableRow
	}
}

// paintBanner draws toasts, tooltips and popovers as a dark rounded strip
// holding the content text and then the children.
func (e *Engine) paintBanner(fb *Framebuffer, n *ast.ViewNode, env pruntime.Env, ctx Rect) {
	w, h := e.measureBanner(n, env, ctx.W)
	bg := e.colorProp(n, "background", env, ast.FromU32(colorBanner)).U32()
	fb.FillRoundedGradient(ctx.X, ctx.Y, w, h, 6, bg, bg)

	inner := Rect{X: ctx.X, Y: ctx.Y, W: w, H: h}.inset(bannerInset)
	if content := e.stringProp(n, "content", env, ""); content != "" {
		lh := e.lineHeight(controlText)
		fg := e.colorProp(n, "color", env, ast.White).U32()
		for _, line := range wrap(content, controlText, inner.W) {
			e.drawText(fb, line, inner.X, e.baseline(inner.Y, lh, controlText), controlText, fg)
			inner.Y += lh
		}
		inner.Y += flowGap
	}
	e.paintColumn(fb, n.Children, env, inner, flowGap)
}
