package parser

import (
	"strings"

	"github.com/gosuda/prism/ast"
)

var statementKeywords = map[string]struct{}{
	"if": {}, "for": {}, "while": {}, "return": {}, "break": {}, "continue": {},
	"call": {}, "log": {}, "emit": {}, "navigate": {}, "fetch": {}, "delay": {},
	"push": {}, "pop": {}, "insert": {}, "remove": {}, "clear": {},
}

var httpMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "PATCH": {}, "DELETE": {}, "HEAD": {}, "OPTIONS": {},
}

// ParseStatements parses a statement sequence such as an action body
// without its braces.
func ParseStatements(src string) ([]ast.Statement, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: toks}
	stmts, err := p.parseStatements(tokEOF)
	if err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatements(tokRBrace)
	if err != nil {
		return nil, err
	}
	p.next()
	return stmts, nil
}

// parseStatements reads statements up to (not including) the end token.
func (p *parser) parseStatements(end tokenKind) ([]ast.Statement, error) {
	stmts := []ast.Statement{}
	for {
		for p.peek().kind == tokNewline || p.peek().kind == tokSemicolon {
			p.next()
		}
		t := p.peek()
		if t.kind == end {
			return stmts, nil
		}
		if t.kind == tokEOF {
			return nil, p.errorf(t, "unexpected end of input in block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		switch after := p.peek(); after.kind {
		case tokNewline, tokSemicolon, tokEOF:
		default:
			if after.kind != end {
				return nil, p.errorf(after, "expected end of statement, found %s", describe(after))
			}
		}
	}
}

func (p *parser) atStatementEnd() bool {
	switch p.peek().kind {
	case tokNewline, tokSemicolon, tokRBrace, tokEOF:
		return true
	}
	return false
}

func (p *parser) parseStatement() (ast.Statement, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, p.errorf(p.peek(), "statement nesting too deep")
	}

	t := p.peek()
	if t.kind != tokIdent {
		return nil, p.errorf(t, "expected statement, found %s", describe(t))
	}
	if _, kw := statementKeywords[t.lit]; kw {
		if k := p.peekAt(1).kind; k != tokAssign && k != tokColon {
			return p.parseKeywordStatement()
		}
	}
	return p.parseAssignOrCall()
}

func (p *parser) parseAssignOrCall() (ast.Statement, error) {
	name := p.next().lit
	stmt := ast.AssignStmt{Name: name}
	switch t := p.peek(); t.kind {
	case tokAssign, tokColon:
		p.next()
	case tokLParen:
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return ast.CallStmt{Name: name, Args: args}, nil
	case tokLBracket:
		p.next()
		idx, err := p.parseExpr(precPipe)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket, "']'"); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokAssign, "'=' after index target"); err != nil {
			return nil, err
		}
		stmt.Index = idx
	case tokDot:
		p.next()
		prop, err := p.expectIdent("property name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokAssign, "'=' after property target"); err != nil {
			return nil, err
		}
		stmt.Property = prop
	default:
		return nil, p.errorf(t, "expected '=' after %q, found %s", name, describe(t))
	}
	e, err := p.parseExpr(precPipe)
	if err != nil {
		return nil, err
	}
	stmt.Expr = e
	return stmt, nil
}

func (p *parser) parseKeywordStatement() (ast.Statement, error) {
	kw := p.next()
	switch kw.lit {
	case "if":
		return p.parseIf()
	case "for":
		item, err := p.expectIdent("loop variable")
		if err != nil {
			return nil, err
		}
		stmt := ast.ForEachStmt{Item: item}
		if p.peek().kind == tokComma {
			p.next()
			if stmt.Index, err = p.expectIdent("index variable"); err != nil {
				return nil, err
			}
		}
		if t := p.next(); !isWord(t, "in") {
			return nil, p.errorf(t, "expected 'in', found %s", describe(t))
		}
		if stmt.Collection, err = p.parseExpr(precPipe); err != nil {
			return nil, err
		}
		if stmt.Body, err = p.parseBlock(); err != nil {
			return nil, err
		}
		return stmt, nil
	case "while":
		cond, err := p.parseExpr(precPipe)
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return ast.WhileStmt{Cond: cond, Body: body}, nil
	case "return":
		if p.atStatementEnd() {
			return ast.ReturnStmt{}, nil
		}
		v, err := p.parseExpr(precPipe)
		if err != nil {
			return nil, err
		}
		return ast.ReturnStmt{Value: v}, nil
	case "break":
		return ast.BreakStmt{}, nil
	case "continue":
		return ast.ContinueStmt{}, nil
	case "call":
		name, err := p.expectIdent("action name")
		if err != nil {
			return nil, err
		}
		stmt := ast.CallStmt{Name: name}
		if p.peek().kind == tokLParen {
			if stmt.Args, err = p.parseArgs(); err != nil {
				return nil, err
			}
		}
		return stmt, nil
	case "log":
		v, err := p.parseExpr(precPipe)
		if err != nil {
			return nil, err
		}
		return ast.LogStmt{Expr: v}, nil
	case "emit":
		t := p.next()
		var event string
		switch t.kind {
		case tokIdent:
			event = t.lit
		case tokString:
			event = unescape(t.lit)
		default:
			return nil, p.errorf(t, "expected event name, found %s", describe(t))
		}
		stmt := ast.EmitStmt{Event: event}
		if p.peek().kind == tokComma {
			p.next()
		}
		if !p.atStatementEnd() {
			data, err := p.parseExpr(precPipe)
			if err != nil {
				return nil, err
			}
			stmt.Data = data
		}
		return stmt, nil
	case "navigate":
		v, err := p.parseExpr(precPipe)
		if err != nil {
			return nil, err
		}
		return ast.NavigateStmt{Target: v}, nil
	case "fetch":
		return p.parseFetch()
	case "delay":
		ms, err := p.parseExpr(precPipe)
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return ast.DelayStmt{Ms: ms, Body: body}, nil
	case "push", "pop", "insert", "remove", "clear":
		return p.parseListStatement(kw.lit)
	}
	return nil, p.errorf(kw, "unknown statement %q", kw.lit)
}

func (p *parser) parseIf() (ast.Statement, error) {
	cond, err := p.parseExpr(precPipe)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := ast.IfStmt{Cond: cond, Then: then}

	save := p.pos
	p.skipNewlines()
	if !isWord(p.peek(), "else") {
		p.pos = save
		return stmt, nil
	}
	p.next()
	if isWord(p.peek(), "if") {
		p.next()
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.Else = []ast.Statement{nested}
		return stmt, nil
	}
	if stmt.Else, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseFetch() (ast.Statement, error) {
	stmt := ast.FetchStmt{Method: "GET"}
	if t := p.peek(); t.kind == tokIdent {
		if _, ok := httpMethods[strings.ToUpper(t.lit)]; ok && p.peekAt(1).kind != tokLBrace && !p.isStatementEndAt(1) {
			stmt.Method = strings.ToUpper(t.lit)
			p.next()
		}
	}
	url, err := p.parseExpr(precPipe)
	if err != nil {
		return nil, err
	}
	stmt.URL = url
	if p.peek().kind != tokLBrace {
		return stmt, nil
	}
	p.next()
	for {
		p.skipSeparators()
		t := p.next()
		if t.kind == tokRBrace {
			return stmt, nil
		}
		if t.kind != tokIdent {
			return nil, p.errorf(t, "expected fetch option, found %s", describe(t))
		}
		if _, err := p.expect(tokColon, "':' after fetch option"); err != nil {
			return nil, err
		}
		switch t.lit {
		case "body":
			if stmt.Body, err = p.parseExpr(precPipe); err != nil {
				return nil, err
			}
		case "headers":
			if _, err := p.expect(tokLBrace, "'{' for headers"); err != nil {
				return nil, err
			}
			obj, err := p.parseObject()
			if err != nil {
				return nil, err
			}
			stmt.Headers = obj.(ast.ObjectLit).Fields
		case "success", "on_success":
			if stmt.OnSuccess, err = p.expectIdent("success handler"); err != nil {
				return nil, err
			}
		case "error", "on_error":
			if stmt.OnError, err = p.expectIdent("error handler"); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf(t, "unknown fetch option %q", t.lit)
		}
	}
}

func (p *parser) isStatementEndAt(n int) bool {
	switch p.peekAt(n).kind {
	case tokNewline, tokSemicolon, tokRBrace, tokEOF:
		return true
	}
	return false
}

func (p *parser) parseListStatement(op string) (ast.Statement, error) {
	target, err := p.expectIdent("list name")
	if err != nil {
		return nil, err
	}
	operand := func() (ast.Expr, error) {
		if p.peek().kind == tokComma {
			p.next()
		}
		return p.parseExpr(precPipe)
	}
	switch op {
	case "push":
		v, err := operand()
		if err != nil {
			return nil, err
		}
		return ast.ListPushStmt{Target: target, Value: v}, nil
	case "pop":
		return ast.ListPopStmt{Target: target}, nil
	case "clear":
		return ast.ListClearStmt{Target: target}, nil
	case "remove":
		idx, err := operand()
		if err != nil {
			return nil, err
		}
		return ast.ListRemoveStmt{Target: target, Index: idx}, nil
	default:
		idx, err := operand()
		if err != nil {
			return nil, err
		}
		v, err := operand()
		if err != nil {
			return nil, err
		}
		return ast.ListInsertStmt{Target: target, Index: idx, Value: v}, nil
	}
}
