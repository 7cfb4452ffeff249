package musicstring

import (
	"unicode"
	"unicode/utf8"
)

// Token is one word of source text. Start is a character (rune) offset.
type Token struct {
	Text  string
	Start int
}

// End returns the offset one past the last character of the token.
func (t Token) End() int {
	return t.Start + utf8.RuneCountInString(t.Text)
}

// isSpace reports whether c separates words. No-break spaces (U+00A0,
// U+2007, U+202F) and NEL are part of a word; the file, group, record and
// unit separators (U+001C-U+001F) split words.
func isSpace(c rune) bool {
	switch c {
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return c >= '\t' && c <= '\r' || c >= 0x1c && c <= 0x1f ||
		unicode.In(c, unicode.Zs, unicode.Zl, unicode.Zp)
}

// Tokenize splits text into words. Whitespace separates words, and a word
// starting with '#' discards everything up to the end of its line. Offsets
// count characters, not bytes.
func Tokenize(text string) []Token {
	runes := []rune(text)

	var (
		tokens []Token
		cur    []rune
		start  int
	)
	flush := func(next int) {
		if len(cur) > 0 {
			tokens = append(tokens, Token{Text: string(cur), Start: start})
		}
		cur = cur[:0]
		start = next
	}

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case isSpace(c):
			flush(i + 1)
		case len(cur) == 0 && c == '#':
			i = skipComment(runes, i)
			if i >= len(runes) {
				return tokens
			}
			start = i
			i--
		default:
			cur = append(cur, c)
		}
	}
	flush(len(runes))
	return tokens
}

// skipComment returns the index of the first character after the line break
// run that ends the comment starting at i, or len(runes) if the comment runs
// to the end of the text.
func skipComment(runes []rune, i int) int {
	sawNewline := false
	for i++; i < len(runes); i++ {
		switch runes[i] {
		case '\n', '\r':
			sawNewline = true
		default:
			if sawNewline {
				return i
			}
		}
	}
	return i
}
