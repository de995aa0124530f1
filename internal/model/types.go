// Package model defines the intermediate representation for scanned C# declarations
// and resolved target types.
package model

// PocoKind represents the category of a scanned C# declaration.
type PocoKind string

const (
	KindClass     PocoKind = "class"
	KindInterface PocoKind = "interface"
	KindStruct    PocoKind = "struct"
	KindEnum      PocoKind = "enum"
)

// File represents a scanned C# source file.
type File struct {
	Namespace string // Namespace name (empty if none)
	Path      string // File path
	Pocos     []Poco // All type declarations in source order
}

// Poco represents a single class, interface, struct or enum declaration.
type Poco struct {
	Name       string        // Declared name, without generic parameters
	Kind       PocoKind      // Declaration category
	Doc        string        // Documentation comment (/// lines)
	BaseTypes  []string      // Base class and implemented interfaces, raw
	TypeParams []string      // Generic parameters (e.g., "T" for Page<T>)
	Properties []Declaration // Properties (for classes, interfaces, structs)
	Members    []EnumMember  // Members (for enums)
	IsPublic   bool          // Whether the declaration is public
}

// Declaration is a property or parameter: a name plus the raw C# type string.
type Declaration struct {
	Name       string // Property name as written
	Type       string // Raw type string (e.g., "List<Guid>")
	Doc        string // Documentation comment
	IsOptional bool   // Whether the type was declared nullable (T?)
}

// EnumMember represents a single enum member.
type EnumMember struct {
	Name  string // Member name
	Value string // Explicit or computed value, as written
	Doc   string // Documentation comment
}

// IsEnum reports whether the declaration is an enum.
func (p *Poco) IsEnum() bool {
	return p.Kind == KindEnum
}

// Enums returns the enum declarations of the file, in source order.
func (f *File) Enums() []Poco {
	return f.filter(func(p *Poco) bool { return p.IsEnum() })
}

// Types returns the non-enum declarations of the file, in source order.
func (f *File) Types() []Poco {
	return f.filter(func(p *Poco) bool { return !p.IsEnum() })
}

func (f *File) filter(keep func(*Poco) bool) []Poco {
	var result []Poco
	for i := range f.Pocos {
		if keep(&f.Pocos[i]) {
			result = append(result, f.Pocos[i])
		}
	}
	return result
}
