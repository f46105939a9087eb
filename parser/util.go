package parser

import "strings"

func normalize(raw string) string {
	raw = strings.TrimPrefix(raw, "\uFEFF")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.ReplaceAll(raw, "\r", "\n")
}

// unescape resolves backslash escapes in the raw contents of a string token.
func unescape(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	b := strings.Builder{}
	escape := false
	for _, r := range raw {
		if escape {
			switch r {
			case 'n':
				b.WriteRune('\n')
			case 'r':
				b.WriteRune('\r')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(r)
			}
			escape = false
			continue
		}
		if r == '\\' {
			escape = true
			continue
		}
		b.WriteRune(r)
	}
	if escape {
		b.WriteRune('\\')
	}
	return b.String()
}

type segment struct {
	text   string
	isExpr bool
}

// splitInterpolation cuts raw string contents into literal text and the
// sources of embedded {expr} segments. Braces nest, and quoted strings
// inside a segment are skipped. ok is false for an unclosed segment.
func splitInterpolation(raw string) ([]segment, bool) {
	var segs []segment
	lit := strings.Builder{}
	rs := []rune(raw)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == '\\' && i+1 < len(rs) {
			lit.WriteRune(r)
			lit.WriteRune(rs[i+1])
			i++
			continue
		}
		if r != '{' {
			lit.WriteRune(r)
			continue
		}
		depth := 1
		inStr := false
		j := i + 1
		for ; j < len(rs) && depth > 0; j++ {
			switch c := rs[j]; {
			case inStr && c == '\\':
				j++
			case c == '"':
				inStr = !inStr
			case !inStr && c == '{':
				depth++
			case !inStr && c == '}':
				depth--
			}
		}
		if depth != 0 {
			return nil, false
		}
		if lit.Len() > 0 {
			segs = append(segs, segment{text: unescape(lit.String())})
			lit.Reset()
		}
		segs = append(segs, segment{text: string(rs[i+1 : j-1]), isExpr: true})
		i = j - 1
	}
	if lit.Len() > 0 {
		segs = append(segs, segment{text: unescape(lit.String())})
	}
	return segs, true
}

func hasInterpolation(raw string) bool {
	rs := []rune(raw)
	for i := 0; i < len(rs); i++ {
		if rs[i] == '\\' {
			i++
			continue
		}
		if rs[i] == '{' {
			return true
		}
	}
	return false
}
