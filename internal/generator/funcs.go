package generator

import (
	"strings"
	"text/template"
	"unicode"

	"cspoco/internal/config"
	"cspoco/internal/model"
	"cspoco/internal/typemap"
)

// templateFuncs returns custom template functions.
func templateFuncs(cfg *config.Config, resolver *typemap.Resolver) template.FuncMap {
	return template.FuncMap{
		// Type resolution
		"resolve": func(candidate string) *model.TypeNode {
			n, _ := resolver.Resolve(candidate)
			return n
		},

		// String manipulation
		"camelCase":    camelCase,
		"pascalCase":   pascalCase,
		"snakeCase":    snakeCase,
		"kebabCase":    kebabCase,
		"propertyName": func(name string) string { return propertyName(cfg, name) },
		"lower":        strings.ToLower,
		"upper":        strings.ToUpper,
		"trim":         strings.TrimSpace,
		"replace":      strings.ReplaceAll,
		"join":         strings.Join,

		// Comment formatting
		"comment":    formatComment,
		"docComment": formatDocComment,

		// Misc
		"notLast": func(i, length int) bool { return i < length-1 },
	}
}

// propertyName applies the configured casing to a C# property name.
func propertyName(cfg *config.Config, name string) string {
	switch cfg.Options.PropertyNameCase {
	case config.CasePascal:
		return pascalCase(name)
	case config.CasePreserve:
		return name
	default:
		return camelCase(name)
	}
}

// camelCase converts to camelCase.
func camelCase(s string) string {
	if s == "" {
		return s
	}
	pascal := pascalCase(s)
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// pascalCase converts to PascalCase.
func pascalCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		if len(word) > 0 {
			runes := []rune(word)
			runes[0] = unicode.ToUpper(runes[0])
			for j := 1; j < len(runes); j++ {
				runes[j] = unicode.ToLower(runes[j])
			}
			words[i] = string(runes)
		}
	}
	return strings.Join(words, "")
}

// snakeCase converts to snake_case.
func snakeCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}

// kebabCase converts to kebab-case.
func kebabCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "-")
}

// splitWords splits a string into words (handles camelCase, PascalCase, snake_case, etc.).
func splitWords(s string) []string {
	var words []string
	var current []rune

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			if len(current) > 0 {
				words = append(words, string(current))
				current = nil
			}
			continue
		}

		if unicode.IsUpper(r) && i > 0 {
			// Start of a new word: aB, or the last capital of an acronym followed by lower case (IDCard)
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				if len(current) > 0 {
					words = append(words, string(current))
					current = nil
				}
			}
		}

		current = append(current, r)
	}

	if len(current) > 0 {
		words = append(words, string(current))
	}

	return words
}

// formatComment formats a comment with a prefix.
func formatComment(comment, prefix string) string {
	if comment == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(comment), "\n")
	var result []string
	for _, line := range lines {
		result = append(result, prefix+strings.TrimSpace(line))
	}
	return strings.Join(result, "\n")
}

// formatDocComment formats a JSDoc comment at the given indent, including the
// trailing newline. Empty comments produce nothing.
func formatDocComment(comment, indent string) string {
	if comment == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(comment), "\n")
	if len(lines) == 1 {
		return indent + "/** " + strings.TrimSpace(lines[0]) + " */\n"
	}
	var b strings.Builder
	b.WriteString(indent + "/**\n")
	for _, line := range lines {
		b.WriteString(indent + " * " + strings.TrimSpace(line) + "\n")
	}
	b.WriteString(indent + " */\n")
	return b.String()
}
