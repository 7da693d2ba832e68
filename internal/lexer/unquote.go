package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Unquote returns the value of a quoted string literal as produced by the
// lexer, with escape sequences resolved.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != raw[len(raw)-1] || (raw[0] != '"' && raw[0] != '\'') {
		return "", fmt.Errorf("invalid string literal %s", raw)
	}
	return Cook(raw[1 : len(raw)-1])
}

// Cook resolves escape sequences in string or template text.
func Cook(raw string) (string, error) {
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		i++
		if i >= len(raw) {
			return "", fmt.Errorf("invalid escape at end of literal")
		}
		switch raw[i] {
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
		case 'u':
			if i+4 >= len(raw) {
				return "", fmt.Errorf("invalid unicode escape")
			}
			code, err := strconv.ParseUint(raw[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid unicode escape: %w", err)
			}
			b.WriteRune(rune(code))
			i += 4
		default:
			r, size := utf8.DecodeRuneInString(raw[i:])
			b.WriteRune(r)
			i += size - 1
		}
	}
	return b.String(), nil
}
