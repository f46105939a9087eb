package parser

import (
	"strconv"
	"strings"

	"github.com/gosuda/prism/ast"
)

const maxDepth = 256

const (
	precPipe = iota + 1
	precCoalesce
	precTernary
	precOr
	precAnd
	precEquality
	precCompare
	precRange
	precAdd
	precMul
	precPow
)

// ParseExpr parses a single expression.
func ParseExpr(src string) (ast.Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: toks}
	p.skipNewlines()
	e, err := p.parseExpr(precPipe)
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %s after expression", describe(t))
	}
	return e, nil
}

type parser struct {
	tokens []token
	pos    int
	depth  int
}

func (p *parser) peek() token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return token{kind: tokEOF}
		}
		last := p.tokens[len(p.tokens)-1]
		return token{kind: tokEOF, line: last.line, col: last.col}
	}
	return p.tokens[p.pos+n]
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return t, p.errorf(t, "expected %s, found %s", what, describe(t))
	}
	return p.next(), nil
}

func (p *parser) expectIdent(what string) (string, error) {
	t, err := p.expect(tokIdent, what)
	if err != nil {
		return "", err
	}
	return t.lit, nil
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tokNewline {
		p.next()
	}
}

func (p *parser) skipSeparators() {
	for {
		switch p.peek().kind {
		case tokNewline, tokSemicolon, tokComma:
			p.next()
		default:
			return
		}
	}
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return errorAt(t.line, t.col, format, args...)
}

func isWord(t token, word string) bool {
	return t.kind == tokIdent && t.lit == word
}

func describe(t token) string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "newline"
	case tokString:
		return "string"
	default:
		return strconv.Quote(t.lit)
	}
}

func (p *parser) parseExpr(minPrec int) (ast.Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, p.errorf(p.peek(), "expression nesting too deep")
	}

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.peek().kind == tokQuestion && minPrec <= precTernary {
			p.next()
			p.skipNewlines()
			onTrue, err := p.parseExpr(precTernary)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokColon, "':' in conditional expression"); err != nil {
				return nil, err
			}
			p.skipNewlines()
			onFalse, err := p.parseExpr(precTernary)
			if err != nil {
				return nil, err
			}
			left = ast.TernaryExpr{Cond: left, True: onTrue, False: onFalse}
			continue
		}

		op, prec, width := p.binaryOp()
		if width == 0 || prec < minPrec {
			break
		}
		p.pos += width
		p.skipNewlines()
		nextPrec := prec + 1
		if op == "**" {
			nextPrec = prec
		}
		right, err := p.parseExpr(nextPrec)
		if err != nil {
			return nil, err
		}
		switch op {
		case "|>":
			left = ast.PipeExpr{Value: left, Transform: right}
		case "??":
			left = ast.CoalesceExpr{Value: left, Default: right}
		case "..", "..=":
			left = ast.RangeExpr{Start: left, End: right, Inclusive: op == "..="}
		default:
			left = ast.BinaryExpr{Op: op, Left: left, Right: right}
		}
	}
	return left, nil
}

// binaryOp reports the operator at the cursor, its precedence and how many
// tokens it spans. width is 0 when no binary operator follows.
func (p *parser) binaryOp() (string, int, int) {
	t := p.peek()
	switch t.kind {
	case tokOp:
		switch t.lit {
		case "|>":
			return t.lit, precPipe, 1
		case "??":
			return t.lit, precCoalesce, 1
		case "||":
			return "or", precOr, 1
		case "&&":
			return "and", precAnd, 1
		case "==", "!=":
			return t.lit, precEquality, 1
		case "<", "<=", ">", ">=":
			return t.lit, precCompare, 1
		case "..", "..=":
			return t.lit, precRange, 1
		case "+", "-", "++":
			return t.lit, precAdd, 1
		case "*", "/", "%":
			return t.lit, precMul, 1
		case "**":
			return t.lit, precPow, 1
		}
	case tokIdent:
		switch t.lit {
		case "or":
			return "or", precOr, 1
		case "and":
			return "and", precAnd, 1
		case "in":
			return "in", precCompare, 1
		case "not":
			if isWord(p.peekAt(1), "in") {
				return "not in", precCompare, 2
			}
		}
	}
	return "", 0, 0
}

func (p *parser) parseUnary() (ast.Expr, error) {
	t := p.peek()
	switch {
	case t.kind == tokOp && t.lit == "!", isWord(t, "not"):
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: "not", Expr: operand}, nil
	case t.kind == tokOp && (t.lit == "-" || t.lit == "+"):
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if t.lit == "-" {
			switch lit := operand.(type) {
			case ast.IntLit:
				return ast.IntLit{Value: -lit.Value}, nil
			case ast.FloatLit:
				return ast.FloatLit{Value: -lit.Value}, nil
			}
		}
		return ast.UnaryExpr{Op: t.lit, Expr: operand}, nil
	case (isWord(t, "typeof") || isWord(t, "len")) && p.startsOperand(p.peekAt(1)):
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.UnaryExpr{Op: t.lit, Expr: operand}, nil
	}
	return p.parsePostfix()
}

// startsOperand reports whether t can begin the operand of a prefix word
// operator. `len(x)` is left to the call syntax.
func (p *parser) startsOperand(t token) bool {
	switch t.kind {
	case tokInt, tokFloat, tokString, tokLBracket, tokLBrace:
		return true
	case tokIdent:
		switch t.lit {
		case "and", "or", "in":
			return false
		}
		return true
	}
	return false
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokDot:
			p.next()
			name, err := p.expectIdent("property name")
			if err != nil {
				return nil, err
			}
			if p.peek().kind == tokLParen {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				e = ast.MethodCallExpr{Object: e, Method: name, Args: args}
				continue
			}
			e = ast.PropertyExpr{Object: e, Name: name}
		case tokLBracket:
			p.next()
			idx, err := p.parseExpr(precPipe)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRBracket, "']'"); err != nil {
				return nil, err
			}
			e = ast.IndexExpr{Object: e, Index: idx}
		case tokLParen:
			ref, ok := e.(ast.VarRef)
			if !ok {
				return e, nil
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			e = ast.CallExpr{Name: ref.Name, Args: args}
		default:
			return e, nil
		}
	}
}

func (p *parser) parseArgs() ([]ast.Expr, error) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	args := []ast.Expr{}
	for p.peek().kind != tokRParen {
		arg, err := p.parseExpr(precPipe)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		v, err := parseInt(t.lit)
		if err != nil {
			return nil, p.errorf(t, "invalid integer %q", t.lit)
		}
		return ast.IntLit{Value: v}, nil
	case tokFloat:
		v, err := strconv.ParseFloat(t.lit, 64)
		if err != nil {
			return nil, p.errorf(t, "invalid number %q", t.lit)
		}
		return ast.FloatLit{Value: v}, nil
	case tokString:
		return p.stringExpr(t)
	case tokColor:
		return ast.StringLit{Value: t.lit}, nil
	case tokIdent:
		switch t.lit {
		case "null":
			return ast.NullLit{}, nil
		case "true":
			return ast.BoolLit{Value: true}, nil
		case "false":
			return ast.BoolLit{Value: false}, nil
		}
		return ast.VarRef{Name: t.lit}, nil
	case tokLParen:
		e, err := p.parseExpr(precPipe)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case tokLBracket:
		return p.parseList()
	case tokLBrace:
		return p.parseObject()
	case tokPipe:
		return p.parseLambda()
	case tokOp:
		if t.lit == "||" {
			body, err := p.parseExpr(precPipe)
			if err != nil {
				return nil, err
			}
			return ast.LambdaExpr{Body: body}, nil
		}
	}
	return nil, p.errorf(t, "unexpected %s in expression", describe(t))
}

func parseInt(lit string) (int64, error) {
	if rest, ok := strings.CutPrefix(strings.ToLower(lit), "0x"); ok {
		return strconv.ParseInt(rest, 16, 64)
	}
	return strconv.ParseInt(lit, 10, 64)
}

func (p *parser) parseList() (ast.Expr, error) {
	items := []ast.Expr{}
	for p.peek().kind != tokRBracket {
		var item ast.Expr
		if p.peek().kind == tokEllipsis {
			p.next()
			inner, err := p.parseExpr(precPipe)
			if err != nil {
				return nil, err
			}
			item = ast.SpreadExpr{Expr: inner}
		} else {
			e, err := p.parseExpr(precPipe)
			if err != nil {
				return nil, err
			}
			item = e
		}
		items = append(items, item)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(tokRBracket, "']'"); err != nil {
		return nil, err
	}
	return ast.ListLit{Items: items}, nil
}

// parseObject reads the fields of an object literal; the opening brace has
// been consumed. Fields may be separated by commas or newlines.
func (p *parser) parseObject() (ast.Expr, error) {
	fields := []ast.ObjectField{}
	for {
		p.skipSeparators()
		t := p.peek()
		if t.kind == tokRBrace {
			p.next()
			return ast.ObjectLit{Fields: fields}, nil
		}
		var key string
		switch t.kind {
		case tokIdent:
			key = t.lit
		case tokString:
			key = unescape(t.lit)
		default:
			return nil, p.errorf(t, "expected object key, found %s", describe(t))
		}
		p.next()
		if _, err := p.expect(tokColon, "':' after object key"); err != nil {
			return nil, err
		}
		v, err := p.parseExpr(precPipe)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.ObjectField{Key: key, Value: v})
	}
}

func (p *parser) parseLambda() (ast.Expr, error) {
	params := []string{}
	for p.peek().kind != tokPipe {
		name, err := p.expectIdent("lambda parameter")
		if err != nil {
			return nil, err
		}
		params = append(params, name)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(tokPipe, "'|'"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr(precPipe)
	if err != nil {
		return nil, err
	}
	return ast.LambdaExpr{Params: params, Body: body}, nil
}

// stringExpr turns a string token into a literal, or into an interpolation
// when it embeds {expr} segments.
func (p *parser) stringExpr(t token) (ast.Expr, error) {
	if !hasInterpolation(t.lit) {
		return ast.StringLit{Value: unescape(t.lit)}, nil
	}
	segs, ok := splitInterpolation(t.lit)
	if !ok {
		return nil, p.errorf(t, "unclosed '{' in string")
	}
	parts := make([]ast.InterpPart, 0, len(segs))
	for _, seg := range segs {
		if !seg.isExpr {
			parts = append(parts, ast.InterpPart{Text: seg.text})
			continue
		}
		if strings.TrimSpace(seg.text) == "" {
			continue
		}
		e, err := ParseExpr(seg.text)
		if err != nil {
			msg := err.Error()
			if pe, ok := err.(*Error); ok {
				msg = pe.Msg
			}
			return nil, p.errorf(t, "in interpolation {%s}: %s", seg.text, msg)
		}
		parts = append(parts, ast.InterpPart{Expr: e})
	}
	return ast.InterpExpr{Parts: parts}, nil
}
