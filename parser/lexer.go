package parser

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokInt
	tokFloat
	tokString
	tokIdent
	tokColor
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokComma
	tokColon
	tokSemicolon
	tokQuestion
	tokDot
	tokAt
	tokPipe
	tokAssign
	tokEllipsis
	tokOp
)

// token carries raw string contents (escapes still in place) so the parser
// can split interpolation segments before unescaping.
type token struct {
	kind tokenKind
	lit  string
	line int
	col  int
}

type lexer struct {
	src   []rune
	pos   int
	line  int
	col   int
	depth int
	toks  []token
}

func tokenize(src string) ([]token, error) {
	lx := &lexer{src: []rune(normalize(src)), line: 1, col: 1}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.toks, nil
}

func (lx *lexer) peekRune(off int) rune {
	if lx.pos+off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+off]
}

func (lx *lexer) advance() rune {
	r := lx.src[lx.pos]
	lx.pos++
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) emit(kind tokenKind, lit string, line, col int) {
	lx.toks = append(lx.toks, token{kind: kind, lit: lit, line: line, col: col})
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		line, col := lx.line, lx.col
		ch := lx.peekRune(0)
		switch {
		case ch == '\n':
			lx.advance()
			if lx.depth == 0 && (len(lx.toks) == 0 || lx.toks[len(lx.toks)-1].kind != tokNewline) {
				lx.emit(tokNewline, "\n", line, col)
			}
			continue
		case unicode.IsSpace(ch):
			lx.advance()
			continue
		case ch == '-' && lx.peekRune(1) == '-', ch == '/' && lx.peekRune(1) == '/':
			for lx.pos < len(lx.src) && lx.peekRune(0) != '\n' {
				lx.advance()
			}
			continue
		case unicode.IsDigit(ch):
			lx.number(line, col)
			continue
		case ch == '"':
			if err := lx.str(line, col); err != nil {
				return err
			}
			continue
		case ch == '#':
			lx.advance()
			start := lx.pos
			for lx.pos < len(lx.src) && isHexDigit(lx.peekRune(0)) {
				lx.advance()
			}
			hex := string(lx.src[start:lx.pos])
			if hex == "" {
				return errorAt(line, col, "expected hex digits after #")
			}
			lx.emit(tokColor, "#"+hex, line, col)
			continue
		case isIdentStart(ch):
			start := lx.pos
			for lx.pos < len(lx.src) && isIdentPart(lx.peekRune(0)) {
				lx.advance()
			}
			lx.emit(tokIdent, string(lx.src[start:lx.pos]), line, col)
			continue
		}

		if three := lx.lookahead(3); three == "..." || three == "..=" {
			lx.pos += 3
			lx.col += 3
			if three == "..." {
				lx.emit(tokEllipsis, three, line, col)
			} else {
				lx.emit(tokOp, three, line, col)
			}
			continue
		}
		switch two := lx.lookahead(2); two {
		case "==", "!=", "<=", ">=", "&&", "||", "++", "**", "..", "|>", "??":
			lx.pos += 2
			lx.col += 2
			lx.emit(tokOp, two, line, col)
			continue
		}

		lx.advance()
		switch ch {
		case '(':
			lx.depth++
			lx.emit(tokLParen, "(", line, col)
		case ')':
			if lx.depth > 0 {
				lx.depth--
			}
			lx.emit(tokRParen, ")", line, col)
		case '[':
			lx.depth++
			lx.emit(tokLBracket, "[", line, col)
		case ']':
			if lx.depth > 0 {
				lx.depth--
			}
			lx.emit(tokRBracket, "]", line, col)
		case '{':
			lx.emit(tokLBrace, "{", line, col)
		case '}':
			lx.emit(tokRBrace, "}", line, col)
		case ',':
			lx.emit(tokComma, ",", line, col)
		case ':':
			lx.emit(tokColon, ":", line, col)
		case ';':
			lx.emit(tokSemicolon, ";", line, col)
		case '?':
			lx.emit(tokQuestion, "?", line, col)
		case '.':
			lx.emit(tokDot, ".", line, col)
		case '@':
			lx.emit(tokAt, "@", line, col)
		case '|':
			lx.emit(tokPipe, "|", line, col)
		case '=':
			lx.emit(tokAssign, "=", line, col)
		case '+', '-', '*', '/', '%', '<', '>', '!':
			lx.emit(tokOp, string(ch), line, col)
		default:
			return errorAt(line, col, "unexpected character %q", ch)
		}
	}
	lx.emit(tokEOF, "", lx.line, lx.col)
	return nil
}

func (lx *lexer) lookahead(n int) string {
	if lx.pos+n > len(lx.src) {
		return ""
	}
	return string(lx.src[lx.pos : lx.pos+n])
}

func (lx *lexer) number(line, col int) {
	start := lx.pos
	if lx.peekRune(0) == '0' && (lx.peekRune(1) == 'x' || lx.peekRune(1) == 'X') && isHexDigit(lx.peekRune(2)) {
		lx.advance()
		lx.advance()
		for lx.pos < len(lx.src) && isHexDigit(lx.peekRune(0)) {
			lx.advance()
		}
		lx.emit(tokInt, string(lx.src[start:lx.pos]), line, col)
		return
	}
	for lx.pos < len(lx.src) && (unicode.IsDigit(lx.peekRune(0)) || lx.peekRune(0) == '_') {
		lx.advance()
	}
	kind := tokInt
	if lx.peekRune(0) == '.' && unicode.IsDigit(lx.peekRune(1)) {
		kind = tokFloat
		lx.advance()
		for lx.pos < len(lx.src) && unicode.IsDigit(lx.peekRune(0)) {
			lx.advance()
		}
	}
	if r := lx.peekRune(0); (r == 'e' || r == 'E') && (unicode.IsDigit(lx.peekRune(1)) || ((lx.peekRune(1) == '-' || lx.peekRune(1) == '+') && unicode.IsDigit(lx.peekRune(2)))) {
		kind = tokFloat
		lx.advance()
		if r := lx.peekRune(0); r == '-' || r == '+' {
			lx.advance()
		}
		for lx.pos < len(lx.src) && unicode.IsDigit(lx.peekRune(0)) {
			lx.advance()
		}
	}
	lx.emit(kind, strings.ReplaceAll(string(lx.src[start:lx.pos]), "_", ""), line, col)
}

func (lx *lexer) str(line, col int) error {
	lx.advance()
	start := lx.pos
	escape := false
	for lx.pos < len(lx.src) {
		r := lx.peekRune(0)
		if escape {
			escape = false
			lx.advance()
			continue
		}
		if r == '\\' {
			escape = true
			lx.advance()
			continue
		}
		if r == '"' {
			lx.emit(tokString, string(lx.src[start:lx.pos]), line, col)
			lx.advance()
			return nil
		}
		lx.advance()
	}
	return errorAt(line, col, "unterminated string")
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
