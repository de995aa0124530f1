// Package parser scans C# source files for POCO declarations: classes,
// interfaces and structs with auto-properties, and enums.
//
// The scanner is line oriented and best effort. It does not build a syntax
// tree; declarations it cannot recognise are skipped.
package parser

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"cspoco/internal/match"
	"cspoco/internal/model"
	"cspoco/internal/typemap"
)

var (
	namespacePattern = regexp.MustCompile(`^\s*namespace\s+([\w.]+)`)
	headerPattern    = regexp.MustCompile(
		`^\s*((?:(?:public|internal|protected|private|static|abstract|sealed|partial|readonly)\s+)*)` +
			`(class|interface|struct|enum)\s+(\w+)(?:<([^>]*)>)?(?:\s*:\s*([^{]+?))?(?:\s+where\s+[^{]*)?\s*(?:\{.*)?$`)
	propertyPattern = regexp.MustCompile(
		`^\s*((?:(?:public|internal|protected|private|virtual|override|new|static|required|abstract|sealed)\s+)*)` +
			`([\w.]+(?:<[\w<>\[\],\s.?]*>)?(?:\[\])*\??)\s+(\w+)\s*\{\s*(?:get|set|init)\b`)
	memberPattern    = regexp.MustCompile(`^(\w+)(?:\s*=\s*(.+))?$`)
	docTagPattern    = regexp.MustCompile(`<[^>]+>`)
	nullablePattern  = regexp.MustCompile(`^Nullable<(.+)>$`)
	qualifierPattern = regexp.MustCompile(`\b(?:\w+\.)+(\w+)`)
)

// Parser scans C# source files.
type Parser struct {
	matcher *match.Matcher
}

// New creates a new Parser.
func New() *Parser {
	return &Parser{
		matcher: &match.Matcher{MaxInput: match.DefaultMaxInput},
	}
}

// ParseFile scans a single C# source file and returns its declarations.
func (p *Parser) ParseFile(path string) (*model.File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p.Parse(path, src)
}

// declaration is a header found in the source, with the span of its body.
type declaration struct {
	poco  model.Poco
	start int // Offset of the header line
	open  int // Offset of the opening brace
	close int // Offset of the closing brace
}

// Parse scans C# source. path is recorded on the result and used in errors.
func (p *Parser) Parse(path string, src []byte) (*model.File, error) {
	text := stripAttributes(stripComments(string(src)))

	result := &model.File{Path: path}
	var decls []declaration
	var doc []string

	for _, ln := range splitLines(text) {
		trimmed := strings.TrimSpace(ln.text)
		if strings.HasPrefix(trimmed, "///") {
			doc = append(doc, trimmed)
			continue
		}

		if result.Namespace == "" {
			if m := p.matcher.First(namespacePattern, ln.text); m != nil {
				result.Namespace = m[1]
				doc = nil
				continue
			}
		}

		m := p.matcher.First(headerPattern, ln.text)
		if m == nil {
			if trimmed != "" {
				doc = nil
			}
			continue
		}

		open := strings.IndexByte(text[ln.start:], '{')
		if open < 0 {
			return nil, fmt.Errorf("parsing %s: %s %s has no body", path, m[2], m[3])
		}
		open += ln.start
		end := matchBrace(text, open)
		if end < 0 {
			return nil, fmt.Errorf("parsing %s: unbalanced braces in %s %s", path, m[2], m[3])
		}

		decls = append(decls, declaration{
			poco:  newPoco(m, doc),
			start: ln.start,
			open:  open,
			close: end,
		})
		doc = nil
	}

	for i := range decls {
		d := &decls[i]
		body := ownBody(text, decls, i)
		if d.poco.IsEnum() {
			d.poco.Members = p.extractMembers(body)
		} else {
			d.poco.Properties = p.extractProperties(body, d.poco.Kind == model.KindInterface)
		}
		result.Pocos = append(result.Pocos, d.poco)
	}

	return result, nil
}

// newPoco builds a declaration from a header match.
func newPoco(m []string, doc []string) model.Poco {
	modifiers := strings.Fields(m[1])
	poco := model.Poco{
		Name:     m[3],
		Kind:     model.PocoKind(m[2]),
		Doc:      docText(doc),
		IsPublic: containsWord(modifiers, "public"),
	}
	if m[4] != "" {
		poco.TypeParams = typemap.SplitArguments(m[4])
	}
	if m[5] != "" {
		poco.BaseTypes = typemap.SplitArguments(m[5])
	}
	return poco
}

// extractProperties extracts auto-properties from a class, struct or interface body.
// Interface members are implicitly public.
func (p *Parser) extractProperties(body string, implicitPublic bool) []model.Declaration {
	var props []model.Declaration
	var doc []string

	for _, ln := range splitLines(body) {
		trimmed := strings.TrimSpace(ln.text)
		if strings.HasPrefix(trimmed, "///") {
			doc = append(doc, trimmed)
			continue
		}

		m := p.matcher.First(propertyPattern, ln.text)
		if m == nil {
			if trimmed != "" {
				doc = nil
			}
			continue
		}

		modifiers := strings.Fields(m[1])
		if containsWord(modifiers, "static") || (!implicitPublic && !containsWord(modifiers, "public")) {
			doc = nil
			continue
		}

		typ, optional := unwrapNullable(m[2])
		props = append(props, model.Declaration{
			Name:       m[3],
			Type:       typ,
			Doc:        docText(doc),
			IsOptional: optional,
		})
		doc = nil
	}
	return props
}

// extractMembers extracts enum members, computing implicit values.
func (p *Parser) extractMembers(body string) []model.EnumMember {
	var members []model.EnumMember
	var doc []string
	prev := ""

	for _, ln := range splitLines(body) {
		trimmed := strings.TrimSpace(ln.text)
		if strings.HasPrefix(trimmed, "///") {
			doc = append(doc, trimmed)
			continue
		}

		for _, part := range strings.Split(trimmed, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			m := p.matcher.First(memberPattern, part)
			if m == nil {
				continue
			}
			value := strings.TrimSpace(m[2])
			if value == "" {
				value = nextValue(prev)
			}
			members = append(members, model.EnumMember{
				Name:  m[1],
				Value: value,
				Doc:   docText(doc),
			})
			prev = value
			doc = nil
		}
	}
	return members
}

// nextValue returns the implicit value following prev.
func nextValue(prev string) string {
	if prev == "" {
		return "0"
	}
	if n, err := strconv.ParseInt(prev, 0, 64); err == nil {
		return strconv.FormatInt(n+1, 10)
	}
	return prev + " + 1"
}

// unwrapNullable strips a nullable marker and the namespace qualifiers of
// every type name.
func unwrapNullable(typ string) (string, bool) {
	typ = qualifierPattern.ReplaceAllString(typ, "$1")
	optional := false
	if strings.HasSuffix(typ, "?") {
		typ = strings.TrimSuffix(typ, "?")
		optional = true
	}
	if m := nullablePattern.FindStringSubmatch(typ); m != nil {
		typ = m[1]
		optional = true
	}
	// Nullable arguments (List<int?>) resolve like their underlying types
	typ = strings.ReplaceAll(typ, "?", "")
	return strings.TrimSpace(typ), optional
}

// docText extracts text from /// comment lines.
func docText(lines []string) string {
	var parts []string
	for _, line := range lines {
		line = strings.TrimPrefix(strings.TrimSpace(line), "///")
		line = strings.TrimSpace(docTagPattern.ReplaceAllString(line, ""))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}

func containsWord(words []string, w string) bool {
	for _, word := range words {
		if word == w {
			return true
		}
	}
	return false
}
