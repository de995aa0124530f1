package parser

import (
	"regexp"
	"strings"
)

var (
	attributeLinePattern   = regexp.MustCompile(`(?m)^[ \t]*(?:\[[^\]\n]*\][ \t]*)+\r?\n`)
	attributeInlinePattern = regexp.MustCompile(`(?m)^([ \t]*)(?:\[[^\]\n]*\][ \t]*)+`)
)

// line is one line of text and its offset.
type line struct {
	text  string
	start int
}

func splitLines(text string) []line {
	var lines []line
	for start := 0; start <= len(text); {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text) - start
		}
		lines = append(lines, line{text: strings.TrimSuffix(text[start:start+end], "\r"), start: start})
		start += end + 1
	}
	return lines
}

// stripComments removes // and /* */ comments, keeping /// doc comments and
// the line structure of the source.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], "///"):
			end := lineEnd(src, i)
			b.WriteString(src[i:end])
			i = end
		case strings.HasPrefix(src[i:], "//"):
			i = lineEnd(src, i)
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			end += i + 4
			b.WriteString(strings.Repeat("\n", strings.Count(src[i:end], "\n")))
			i = end
		case src[i] == '"' || src[i] == '\'':
			end := quoteEnd(src, i)
			b.WriteString(src[i:end])
			i = end
		default:
			b.WriteByte(src[i])
			i++
		}
	}
	return b.String()
}

// stripAttributes removes [Attribute] annotations. Lines holding only
// attributes are dropped so doc comments stay attached to their declaration.
func stripAttributes(src string) string {
	src = attributeLinePattern.ReplaceAllString(src, "")
	return attributeInlinePattern.ReplaceAllString(src, "$1")
}

// lineEnd returns the offset of the newline ending the line containing i.
func lineEnd(src string, i int) int {
	if n := strings.IndexByte(src[i:], '\n'); n >= 0 {
		return i + n
	}
	return len(src)
}

// quoteEnd returns the offset just past the string or char literal starting at i.
// Unterminated literals end at the line break.
func quoteEnd(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(src)
}

// matchBrace returns the offset of the brace closing the one at open, or -1.
func matchBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '"', '\'':
			i = quoteEnd(text, i) - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ownBody returns the body of decls[i] with nested declarations blanked out.
func ownBody(text string, decls []declaration, i int) string {
	d := decls[i]
	body := []byte(text[d.open+1 : d.close])
	for j, nested := range decls {
		if j == i || nested.open <= d.open || nested.close >= d.close {
			continue
		}
		from := nested.start
		if from <= d.open {
			from = d.open + 1
		}
		blank(body[from-d.open-1 : nested.close-d.open])
	}
	return string(body)
}

// blank replaces everything but line breaks with spaces.
func blank(b []byte) {
	for k := range b {
		if b[k] != '\n' {
			b[k] = ' '
		}
	}
}
