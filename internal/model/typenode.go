package model

// TypeConversion is the resolved output shape of a type: the source name it was
// produced for, the target type expression and the default value expression.
// The zero value is an unassigned conversion.
type TypeConversion struct {
	source string
	target string
	def    string
}

// NewConversion creates a TypeConversion.
func NewConversion(source, target, def string) TypeConversion {
	return TypeConversion{source: source, target: target, def: def}
}

// Source returns the source type name.
func (c TypeConversion) Source() string { return c.source }

// Target returns the target type expression, printed as a declared type.
func (c TypeConversion) Target() string { return c.target }

// Default returns the default value expression, printed as an initializer.
func (c TypeConversion) Default() string { return c.def }

// IsZero reports whether the conversion has not been assigned.
func (c TypeConversion) IsZero() bool {
	return c == TypeConversion{}
}

// TypeNode is one resolved type occurrence.
type TypeNode struct {
	Name           string         // Base name after stripping array/generic decoration
	OriginalText   string         // Exact input the node was resolved from
	TypeArguments  []*TypeNode    // Element, key/value or generic arguments, in order
	IsArray        bool           // Set by the array and collection recognizers
	IsDictionary   bool           // Set by the dictionary recognizer
	IsOpaqueObject bool           // Resolved to the dialect's "any object" expression
	Malformed      bool           // Nesting exceeded the resolver's depth limit
	Conversion     TypeConversion // Resolved output, always assigned after resolution
}

// NewTypeNode creates an unresolved node for candidate.
func NewTypeNode(candidate string) *TypeNode {
	return &TypeNode{
		Name:         candidate,
		OriginalText: candidate,
	}
}

// HasGenericArguments reports whether the node carries type arguments.
func (n *TypeNode) HasGenericArguments() bool {
	return len(n.TypeArguments) > 0
}

// DefaultValue returns the default value expression, or "null" when the
// conversion has none.
func (n *TypeNode) DefaultValue() string {
	if d := n.Conversion.Default(); d != "" {
		return d
	}
	return "null"
}

// Walk calls fn for the node and every nested type argument, depth first.
func (n *TypeNode) Walk(fn func(*TypeNode)) {
	fn(n)
	for _, arg := range n.TypeArguments {
		arg.Walk(fn)
	}
}
