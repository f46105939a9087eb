package render

import (
	"unicode/utf8"

	"github.com/gosuda/prism/ast"
	pruntime "github.com/gosuda/prism/runtime"
)

const (
	buttonHeight  = 36
	buttonText    = 14.0
	inputHeight   = 36
	controlText   = 14.0
	flowGap       = 4
	tableRow      = 36
	cardInset     = 16
	bannerInset   = 8
	checkboxSize  = 20
	toggleWidth   = 44
	toggleHeight  = 24
	selectWidth   = 200
	selectHeight  = 36
	sliderWidth   = 200
	sliderHeight  = 20
	mediaWidth    = 320
	mediaHeight   = 180
	defaultText   = 16.0
	markdownBlock = 6
)

func (e *Engine) measure(n *ast.ViewNode, env pruntime.Env, limit int) (int, int) {
	limit = max(limit, 0)
	switch n.Kind {
	case ast.KindColumn, ast.KindStack, ast.KindScroll, ast.KindList:
		return e.measureColumn(n.Children, env, limit, e.sizeProp(n, "padding", env, 0), e.sizeProp(n, "gap", env, 0))
	case ast.KindBox:
		w, h := e.measureColumn(n.Children, env, limit, e.sizeProp(n, "padding", env, 0), e.sizeProp(n, "gap", env, 0))
		return e.sizeProp(n, "width", env, w), e.sizeProp(n, "height", env, h)
	case ast.KindRow:
		return e.measureRow(n, env, limit)
	case ast.KindGrid:
		return e.measureGrid(n, env, limit)
	case ast.KindCenter:
		_, h := e.measureColumn(n.Children, env, limit, e.sizeProp(n, "padding", env, 0), e.sizeProp(n, "gap", env, 0))
		return limit, h
	case ast.KindSpacer:
		return e.sizeProp(n, "width", env, 0), e.sizeProp(n, "height", env, 0)
	case ast.KindDivider:
		if e.stringProp(n, "direction", env, "horizontal") == "vertical" {
			return 1, e.sizeProp(n, "height", env, toggleHeight)
		}
		return limit, 1
	case ast.KindText, ast.KindLink:
		def := ""
		if n.Kind == ast.KindLink {
			def = "Link"
		}
		size := e.floatProp(n, "size", env, defaultText)
		return e.measureText(e.stringProp(n, "content", env, def), size, limit)
	case ast.KindMarkdown:
		return e.measureMarkdown(n, env, limit)
	case ast.KindButton:
		return e.buttonWidth(e.stringProp(n, "content", env, "Button"), limit), buttonHeight
	case ast.KindInput:
		return inputWidth(limit), inputHeight
	case ast.KindTextarea:
		return min(limit, 400), e.sizeProp(n, "height", env, 100)
	case ast.KindCheckbox, ast.KindRadio:
		w := checkboxSize
		if label := e.stringProp(n, "label", env, ""); label != "" {
			w += 8 + e.textWidth(label, controlText)
		}
		return min(w, limit), 24
	case ast.KindToggle:
		return min(toggleWidth, limit), toggleHeight
	case ast.KindSelect:
		return min(selectWidth, limit), selectHeight
	case ast.KindSlider:
		return min(sliderWidth, limit), sliderHeight
	case ast.KindImage:
		return min(e.sizeProp(n, "width", env, 100), limit), e.sizeProp(n, "height", env, 100)
	case ast.KindIcon:
		size := e.floatProp(n, "size", env, 24)
		return min(e.textWidth(e.stringProp(n, "name", env, "?"), size), limit), e.lineHeight(size)
	case ast.KindAvatar:
		s := e.sizeProp(n, "size", env, 40)
		return s, s
	case ast.KindVideo, ast.KindAudio:
		return min(mediaWidth, limit), mediaHeight
	case ast.KindTable:
		rows := 0
		for _, c := range n.Children {
			if e.visible(c, env) {
				rows++
			}
		}
		return limit, rows * tableRow
	case ast.KindCard:
		_, h := e.measureColumn(n.Children, env, limit-2*cardInset, 0, e.sizeProp(n, "gap", env, 0))
		return limit, h + 2*cardInset
	case ast.KindBadge:
		return badgeWidth(e.stringProp(n, "content", env, "0")), 24
	case ast.KindProgress:
		return limit, 16
	case ast.KindModal:
		return 0, 0
	case ast.KindToast, ast.KindTooltip, ast.KindPopover:
		return e.measureBanner(n, env, limit)
	case ast.KindEach:
		return e.measureEach(n, env, limit)
	case ast.KindSwitch:
		for _, c := range n.Children {
			if e.visible(c, env) {
				return e.measure(c, env, limit)
			}
		}
		return 0, 0
	case ast.KindSlot:
		children := e.slotChildren(n)
		done := e.enterSlot()
		defer done()
		return e.measureColumn(children, env, limit, 0, e.sizeProp(n, "gap", env, flowGap))
	case ast.KindIf, ast.KindShow:
		return e.measureColumn(n.Children, env, limit, 0, e.sizeProp(n, "gap", env, flowGap))
	case ast.KindComponent:
		return e.measureComponent(n, env, limit)
	default:
		return 0, 0
	}
}

// measureColumn stacks children vertically: the widest child sets the width
// and heights add up with gaps between them.
func (e *Engine) measureColumn(children []*ast.ViewNode, env pruntime.Env, limit, pad, gap int) (int, int) {
	maxW, total, count := 0, 0, 0
	for _, c := range children {
		if !e.visible(c, env) {
			continue
		}
		cw, ch := e.measure(c, env, limit-2*pad)
		maxW = max(maxW, cw)
		total += ch
		count++
	}
	if count > 0 {
		total += gap * (count - 1)
	}
	return maxW + 2*pad, total + 2*pad
}

func (e *Engine) measureRow(n *ast.ViewNode, env pruntime.Env, limit int) (int, int) {
	pad, gap := e.sizeProp(n, "padding", env, 0), e.sizeProp(n, "gap", env, 0)
	total, maxH, count := 0, 0, 0
	for _, c := range n.Children {
		if !e.visible(c, env) {
			continue
		}
		cw, ch := e.measure(c, env, limit-2*pad)
		total += cw
		maxH = max(maxH, ch)
		count++
	}
	if count > 0 {
		total += gap * (count - 1)
	}
	return total + 2*pad, maxH + 2*pad
}

func (e *Engine) measureGrid(n *ast.ViewNode, env pruntime.Env, limit int) (int, int) {
	cols := max(e.intProp(n, "columns", env, 2), 1)
	pad, gap := e.sizeProp(n, "padding", env, 0), e.sizeProp(n, "gap", env, 0)
	maxW, maxH, count := 0, 0, 0
	for _, c := range n.Children {
		if !e.visible(c, env) {
			continue
		}
		cw, ch := e.measure(c, env, limit-2*pad)
		maxW, maxH = max(maxW, cw), max(maxH, ch)
		count++
	}
	if count == 0 {
		return 0, 0
	}
	rows := (count + cols - 1) / cols
	w := maxW*cols + gap*(cols-1) + 2*pad
	h := maxH*rows + gap*(rows-1) + 2*pad
	return min(w, limit), h
}

func (e *Engine) measureText(content string, size float64, limit int) (int, int) {
	lines := wrap(content, size, limit)
	maxW := 0
	for _, l := range lines {
		maxW = max(maxW, min(approxWidth(l, size), limit))
	}
	return maxW, e.lineHeight(size) * max(len(lines), 1)
}

func (e *Engine) measureBanner(n *ast.ViewNode, env pruntime.Env, limit int) (int, int) {
	inner := limit - 2*bannerInset
	w, h := 0, 0
	if content := e.stringProp(n, "content", env, ""); content != "" {
		w, h = e.measureText(content, controlText, inner)
	}
	cw, ch := e.measureColumn(n.Children, env, inner, 0, flowGap)
	if ch > 0 && h > 0 {
		h += flowGap
	}
	return min(max(w, cw)+2*bannerInset, limit), h + ch + 2*bannerInset
}

func (e *Engine) measureEach(n *ast.ViewNode, env pruntime.Env, limit int) (int, int) {
	gap := e.sizeProp(n, "gap", env, flowGap)
	if _, ok := n.Prop("items"); !ok {
		return e.measureColumn(n.Children, env, limit, 0, gap)
	}
	maxW, total, count := 0, 0, 0
	e.eachItem(n, env, func(item pruntime.Env) {
		for _, c := range n.Children {
			if !e.visible(c, item) {
				continue
			}
			cw, ch := e.measure(c, item, limit)
			maxW = max(maxW, cw)
			total += ch
			count++
		}
	})
	if count > 0 {
		total += gap * (count - 1)
	}
	return maxW, total
}

func (e *Engine) measureComponent(n *ast.ViewNode, env pruntime.Env, limit int) (int, int) {
	children, cenv, ok := e.enterComponent(n, env)
	if !ok {
		return 0, 0
	}
	defer e.leaveComponent()
	return e.measureColumn(children, cenv, limit, e.sizeProp(n, "padding", env, 0), e.sizeProp(n, "gap", env, 0))
}

func (e *Engine) buttonWidth(content string, limit int) int {
	if utf8.RuneCountInString(content) <= 2 {
		return 36
	}
	return min(max(e.textWidth(content, buttonText)+24, 36), limit)
}

func inputWidth(limit int) int {
	return max(min(limit-20, 280), 0)
}

func badgeWidth(content string) int {
	return max(len(content)*10+16, 28)
}
