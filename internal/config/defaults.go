// Package config provides configuration handling for cspoco.
package config

import (
	"github.com/google/uuid"

	"cspoco/internal/typemap"
)

// Property name casing styles.
const (
	CaseCamel    = "camel"
	CasePascal   = "pascal"
	CasePreserve = "preserve"
)

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	return Options{
		PropertyNameCase: CaseCamel,
		Indent:           "  ",
		MaxDepth:         typemap.DefaultMaxDepth,
	}
}

// nilGuidTranslation renders Guid defaults as the all-zero UUID instead of an empty string.
func nilGuidTranslation() Translation {
	return Translation{
		Type:    "string",
		Default: "'" + uuid.Nil.String() + "'",
	}
}
