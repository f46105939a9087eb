package ast

import "strconv"

type NodeKind int

const (
	KindColumn NodeKind = iota
	KindRow
	KindStack
	KindGrid
	KindScroll
	KindCenter
	KindBox
	KindSpacer
	KindDivider
	KindText
	KindMarkdown
	KindLink
	KindButton
	KindInput
	KindTextarea
	KindCheckbox
	KindRadio
	KindSelect
	KindSlider
	KindToggle
	KindImage
	KindIcon
	KindVideo
	KindAudio
	KindTable
	KindList
	KindCard
	KindBadge
	KindProgress
	KindAvatar
	KindModal
	KindToast
	KindTooltip
	KindPopover
	KindEach
	KindIf
	KindShow
	KindSwitch
	KindSlot
	KindComponent
)

var kindNames = map[NodeKind]string{
	KindColumn:   "column",
	KindRow:      "row",
	KindStack:    "stack",
	KindGrid:     "grid",
	KindScroll:   "scroll",
	KindCenter:   "center",
	KindBox:      "box",
	KindSpacer:   "spacer",
	KindDivider:  "divider",
	KindText:     "text",
	KindMarkdown: "markdown",
	KindLink:     "link",
	KindButton:   "button",
	KindInput:    "input",
	KindTextarea: "textarea",
	KindCheckbox: "checkbox",
	KindRadio:    "radio",
	KindSelect:   "select",
	KindSlider:   "slider",
	KindToggle:   "toggle",
	KindImage:    "image",
	KindIcon:     "icon",
	KindVideo:    "video",
	KindAudio:    "audio",
	KindTable:    "table",
	KindList:     "list",
	KindCard:     "card",
	KindBadge:    "badge",
	KindProgress: "progress",
	KindAvatar:   "avatar",
	KindModal:    "modal",
	KindToast:    "toast",
	KindTooltip:  "tooltip",
	KindPopover:  "popover",
	KindEach:     "each",
	KindIf:       "if",
	KindShow:     "show",
	KindSwitch:   "switch",
	KindSlot:     "slot",
}

var kindsByName = func() map[string]NodeKind {
	out := make(map[string]NodeKind, len(kindNames))
	for k, n := range kindNames {
		out[n] = k
	}
	return out
}()

// LookupKind resolves a built-in node keyword.
func LookupKind(name string) (NodeKind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

func (k NodeKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	if k == KindComponent {
		return "component"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

type ViewNode struct {
	Kind      NodeKind
	Component string
	Content   *PropValue
	Props     map[string]PropValue
	Children  []*ViewNode
}

func (n *ViewNode) Prop(name string) (PropValue, bool) {
	if n == nil || n.Props == nil {
		return PropValue{}, false
	}
	p, ok := n.Props[name]
	return p, ok
}

type PropKind int

const (
	PropStatic PropKind = iota
	PropExpr
	PropColor
	PropHandler
	PropEventHandler
)

// PropValue holds one property. Static carries a literal expression, Expr a
// dynamic one, Handler an action name or binding key, and Args the call
// arguments of an EventHandler.
type PropValue struct {
	Kind    PropKind
	Static  Expr
	Expr    Expr
	Color   Color
	Handler string
	Args    []Expr
}

func StaticProp(e Expr) PropValue {
	return PropValue{Kind: PropStatic, Static: e}
}

func ExprProp(e Expr) PropValue {
	return PropValue{Kind: PropExpr, Expr: e}
}

func ColorProp(c Color) PropValue {
	return PropValue{Kind: PropColor, Color: c}
}

func HandlerProp(name string) PropValue {
	return PropValue{Kind: PropHandler, Handler: name}
}

func EventHandlerProp(action string, args []Expr) PropValue {
	return PropValue{Kind: PropEventHandler, Handler: action, Args: args}
}
