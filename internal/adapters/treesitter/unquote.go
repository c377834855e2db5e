package treesitter

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// unquote returns the value of a JavaScript string literal written with
// single or double quotes. Malformed escapes are kept as written.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 == len(body) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch esc := body[i]; esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case 'x':
			if r, ok := hexRune(body, i+1, 2); ok {
				b.WriteRune(r)
				i += 2
			} else {
				b.WriteString(`\x`)
			}
		case 'u':
			r, width, ok := unicodeEscape(body, i+1)
			if !ok {
				b.WriteString(`\u`)
				continue
			}
			i += width
			if r >= 0xD800 && r < 0xDC00 && i+2 < len(body) && body[i+1] == '\\' && body[i+2] == 'u' {
				if lo, w, ok := unicodeEscape(body, i+3); ok && lo >= 0xDC00 && lo < 0xE000 {
					r = 0x10000 + (r-0xD800)<<10 + (lo - 0xDC00)
					i += 2 + w
				}
			}
			if r >= 0xD800 && r < 0xE000 {
				r = utf8.RuneError
			}
			b.WriteRune(r)
		default:
			b.WriteByte(esc)
		}
	}
	return b.String()
}

func hexRune(s string, at, n int) (rune, bool) {
	if at+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[at:at+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// unicodeEscape reads the part of a \u escape after the u: either four hex
// digits or a braced code point. width is the number of bytes consumed.
func unicodeEscape(s string, at int) (r rune, width int, ok bool) {
	if at < len(s) && s[at] == '{' {
		end := strings.IndexByte(s[at:], '}')
		if end < 2 {
			return 0, 0, false
		}
		r, ok = hexRune(s, at+1, end-1)
		if !ok || r > utf8.MaxRune {
			return 0, 0, false
		}
		return r, end + 1, true
	}
	r, ok = hexRune(s, at, 4)
	return r, 4, ok
}
