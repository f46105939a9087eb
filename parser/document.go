package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gosuda/prism/ast"
)

// ParseApp parses a complete document. On error no partial App is
// returned.
func ParseApp(src string) (*ast.App, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: toks}
	app := &ast.App{
		Name:       "Untitled",
		Version:    1,
		State:      map[string]ast.Expr{},
		Computed:   map[string]ast.Expr{},
		Components: map[string]*ast.ViewNode{},
		Actions:    map[string]*ast.ActionBlock{},
		Routes:     map[string]string{},
	}
	if err := p.parseDocument(app); err != nil {
		return nil, err
	}
	if app.View == nil {
		app.View = &ast.ViewNode{Kind: ast.KindColumn, Props: map[string]ast.PropValue{}}
	}
	return app, nil
}

func (p *parser) parseDocument(app *ast.App) error {
	for {
		p.skipSeparators()
		t := p.next()
		if t.kind == tokEOF {
			return nil
		}
		if t.kind == tokAt {
			if err := p.parseDirective(app); err != nil {
				return err
			}
			continue
		}
		if t.kind != tokIdent {
			return p.errorf(t, "expected section, found %s", describe(t))
		}
		if t.lit == "view" && app.View != nil {
			return p.errorf(t, "duplicate view section")
		}

		var err error
		switch t.lit {
		case "state":
			err = p.parseBindings(app.State, &app.StateOrder)
		case "computed":
			err = p.parseBindings(app.Computed, nil)
		case "view":
			app.View, err = p.parseView()
		case "actions":
			err = p.parseActions(app.Actions)
		case "components":
			err = p.parseComponents(app.Components)
		case "routes":
			err = p.parseRoutes(app.Routes)
		default:
			return p.errorf(t, "unknown section %q", t.lit)
		}
		if err != nil {
			return err
		}
	}
}

func (p *parser) parseDirective(app *ast.App) error {
	name, err := p.expectIdent("directive name")
	if err != nil {
		return err
	}
	switch name {
	case "app":
		t := p.next()
		switch t.kind {
		case tokString:
			app.Name = unescape(t.lit)
		case tokIdent:
			app.Name = t.lit
		default:
			return p.errorf(t, "expected app name, found %s", describe(t))
		}
	case "version":
		t, err := p.expect(tokInt, "version number")
		if err != nil {
			return err
		}
		v, err := parseInt(t.lit)
		if err != nil {
			return p.errorf(t, "invalid version %q", t.lit)
		}
		app.Version = v
	default:
		return p.errorf(p.peek(), "unknown directive @%s", name)
	}
	return nil
}

// parseBindings reads `name: expr` entries (`=` is accepted too) up to the
// closing brace. order records first declaration order when non-nil.
func (p *parser) parseBindings(into map[string]ast.Expr, order *[]string) error {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return err
	}
	for {
		p.skipSeparators()
		t := p.next()
		if t.kind == tokRBrace {
			return nil
		}
		if t.kind != tokIdent {
			return p.errorf(t, "expected field name, found %s", describe(t))
		}
		if sep := p.next(); sep.kind != tokColon && sep.kind != tokAssign {
			return p.errorf(sep, "expected ':' after %q, found %s", t.lit, describe(sep))
		}
		e, err := p.parseExpr(precPipe)
		if err != nil {
			return err
		}
		if _, dup := into[t.lit]; !dup && order != nil {
			*order = append(*order, t.lit)
		}
		into[t.lit] = e
	}
}

func (p *parser) parseView() (*ast.ViewNode, error) {
	nodes, err := p.parseNodeList()
	if err != nil {
		return nil, err
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return &ast.ViewNode{Kind: ast.KindColumn, Props: map[string]ast.PropValue{}, Children: nodes}, nil
}

// parseNodeList reads a braced sequence of view nodes.
func (p *parser) parseNodeList() ([]*ast.ViewNode, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	nodes := []*ast.ViewNode{}
	for {
		p.skipSeparators()
		if p.peek().kind == tokRBrace {
			p.next()
			return nodes, nil
		}
		n, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

func (p *parser) parseActions(into map[string]*ast.ActionBlock) error {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return err
	}
	for {
		p.skipSeparators()
		t := p.next()
		if t.kind == tokRBrace {
			return nil
		}
		if t.kind != tokIdent {
			return p.errorf(t, "expected action name, found %s", describe(t))
		}
		action := &ast.ActionBlock{Name: t.lit, Params: []string{}}
		if p.peek().kind == tokLParen {
			p.next()
			for p.peek().kind != tokRParen {
				param, err := p.expectIdent("parameter name")
				if err != nil {
					return err
				}
				action.Params = append(action.Params, param)
				if p.peek().kind != tokComma {
					break
				}
				p.next()
			}
			if _, err := p.expect(tokRParen, "')'"); err != nil {
				return err
			}
		}
		body, err := p.parseBlock()
		if err != nil {
			return err
		}
		action.Body = body
		into[t.lit] = action
	}
}

func (p *parser) parseComponents(into map[string]*ast.ViewNode) error {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return err
	}
	for {
		p.skipSeparators()
		t := p.next()
		if t.kind == tokRBrace {
			return nil
		}
		if t.kind != tokIdent {
			return p.errorf(t, "expected component name, found %s", describe(t))
		}
		children, err := p.parseNodeList()
		if err != nil {
			return err
		}
		into[t.lit] = &ast.ViewNode{
			Kind:      ast.KindComponent,
			Component: t.lit,
			Props:     map[string]ast.PropValue{},
			Children:  children,
		}
	}
}

func (p *parser) parseRoutes(into map[string]string) error {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return err
	}
	for {
		p.skipSeparators()
		t := p.next()
		if t.kind == tokRBrace {
			return nil
		}
		var key string
		switch t.kind {
		case tokString:
			key = unescape(t.lit)
		case tokIdent:
			key = t.lit
		default:
			return p.errorf(t, "expected route, found %s", describe(t))
		}
		if _, err := p.expect(tokColon, "':' after route"); err != nil {
			return err
		}
		target, err := p.expect(tokString, "route target")
		if err != nil {
			return err
		}
		into[key] = unescape(target.lit)
	}
}

func (p *parser) parseNode() (*ast.ViewNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, p.errorf(p.peek(), "view nesting too deep")
	}

	t, err := p.expect(tokIdent, "view node")
	if err != nil {
		return nil, err
	}
	n := &ast.ViewNode{Props: map[string]ast.PropValue{}}
	if r, _ := utf8.DecodeRuneInString(t.lit); unicode.IsUpper(r) {
		n.Kind = ast.KindComponent
		n.Component = t.lit
	} else {
		kind, ok := ast.LookupKind(t.lit)
		if !ok {
			return nil, p.errorf(t, "unknown node kind %q", t.lit)
		}
		n.Kind = kind
	}

	if c := p.peek(); c.kind == tokString {
		p.next()
		content, err := p.stringExpr(c)
		if err != nil {
			return nil, err
		}
		prop := propFromExpr(content)
		n.Content = &prop
	}
	if p.peek().kind != tokLBrace {
		return n, nil
	}
	p.next()
	for {
		p.skipSeparators()
		t := p.peek()
		if t.kind == tokRBrace {
			p.next()
			return n, nil
		}
		if t.kind != tokIdent {
			return nil, p.errorf(t, "expected property or child node, found %s", describe(t))
		}
		if p.peekAt(1).kind != tokColon {
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
			continue
		}
		p.next()
		p.next()
		v, err := p.parseProp(n.Kind, t.lit)
		if err != nil {
			return nil, err
		}
		n.Props[t.lit] = v
	}
}

func isHandlerProp(name string) bool {
	return name == "bind" || strings.HasPrefix(name, "on_")
}

func (p *parser) parseProp(kind ast.NodeKind, name string) (ast.PropValue, error) {
	t := p.peek()
	if t.kind == tokColor {
		if _, _, width := p.binaryOpAt(1); width == 0 && p.peekAt(1).kind != tokQuestion {
			p.next()
			c, ok := ast.ParseColor(t.lit)
			if !ok {
				return ast.PropValue{}, p.errorf(t, "invalid color %q", t.lit)
			}
			return ast.ColorProp(c), nil
		}
	}
	if isHandlerProp(name) {
		switch t.kind {
		case tokIdent:
			p.next()
			if p.peek().kind == tokLParen {
				args, err := p.parseArgs()
				if err != nil {
					return ast.PropValue{}, err
				}
				return ast.EventHandlerProp(t.lit, args), nil
			}
			return ast.HandlerProp(t.lit), nil
		case tokString:
			p.next()
			return ast.HandlerProp(unescape(t.lit)), nil
		}
	}
	if kind == ast.KindEach && (name == "as" || name == "index") && p.bareIdent() {
		p.next()
		return ast.StaticProp(ast.StringLit{Value: t.lit}), nil
	}
	e, err := p.parseExpr(precPipe)
	if err != nil {
		return ast.PropValue{}, err
	}
	return propFromExpr(e), nil
}

// bareIdent reports whether the cursor sits on an identifier that is not
// the start of a longer expression.
func (p *parser) bareIdent() bool {
	if p.peek().kind != tokIdent {
		return false
	}
	switch p.peekAt(1).kind {
	case tokDot, tokLParen, tokLBracket, tokQuestion:
		return false
	}
	_, _, width := p.binaryOpAt(1)
	return width == 0
}

// binaryOpAt looks n tokens ahead for a binary operator.
func (p *parser) binaryOpAt(n int) (string, int, int) {
	save := p.pos
	p.pos += n
	defer func() { p.pos = save }()
	return p.binaryOp()
}

func propFromExpr(e ast.Expr) ast.PropValue {
	switch e.(type) {
	case ast.NullLit, ast.BoolLit, ast.IntLit, ast.FloatLit, ast.StringLit:
		return ast.StaticProp(e)
	}
	return ast.ExprProp(e)
}
