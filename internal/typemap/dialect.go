package typemap

import "fmt"

// Dialect names a target language.
type Dialect string

const (
	TypeScript Dialect = "typescript"
	JavaScript Dialect = "javascript"
)

// OpaqueObject is the target expression for values with no structure.
const OpaqueObject = "any"

// ParseDialect converts a dialect name, accepting the short forms "ts" and "js".
func ParseDialect(name string) (Dialect, error) {
	switch name {
	case "typescript", "ts", "":
		return TypeScript, nil
	case "javascript", "js":
		return JavaScript, nil
	default:
		return "", fmt.Errorf("unknown dialect: %s", name)
	}
}

// Dialects returns the supported dialects.
func Dialects() []Dialect {
	return []Dialect{TypeScript, JavaScript}
}

var builtins = map[Dialect]map[string]TranslationFunc{
	TypeScript: withCommon(map[string]TranslationFunc{
		"DateTime": Translate("DateTime", "Date", "null"),
	}),
	JavaScript: withCommon(map[string]TranslationFunc{
		"DateTime": Translate("DateTime", "string", "''"),
	}),
}

func withCommon(overrides map[string]TranslationFunc) map[string]TranslationFunc {
	entries := map[string]TranslationFunc{
		// Numbers
		"int":     Translate("int", "number", "0"),
		"double":  Translate("double", "number", "0"),
		"float":   Translate("float", "number", "0"),
		"Int32":   Translate("Int32", "number", "0"),
		"Int64":   Translate("Int64", "number", "0"),
		"short":   Translate("short", "number", "0"),
		"long":    Translate("long", "number", "0"),
		"decimal": Translate("decimal", "number", "0"),

		"bool":   Translate("bool", "boolean", "false"),
		"Guid":   Translate("Guid", "string", "''"),
		"string": Translate("string", "string", "''"),

		// Untyped objects
		"JObject": Translate("JObject", OpaqueObject, "{}"),
		"dynamic": Translate("dynamic", OpaqueObject, "{}"),
		"object":  Translate("object", OpaqueObject, "{}"),
	}
	for name, fn := range overrides {
		entries[name] = fn
	}
	return entries
}
