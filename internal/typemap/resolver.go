package typemap

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"cspoco/internal/match"
	"cspoco/internal/model"
)

// DefaultMaxDepth is the deepest generic nesting resolved before a subtree is
// reported as malformed.
const DefaultMaxDepth = 32

// ErrMalformedTypeExpression is reported when a type expression nests deeper
// than the resolver's limit.
var ErrMalformedTypeExpression = errors.New("malformed type expression")

// MalformedError describes a subtree that was not decomposed.
type MalformedError struct {
	Candidate string // The subtree left unresolved
	Depth     int    // Nesting depth at which resolution stopped
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%v: %q nested %d levels deep", ErrMalformedTypeExpression, e.Candidate, e.Depth)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedTypeExpression
}

var (
	arrayPattern      = regexp.MustCompile(`^(\w+)\[\]$`)
	collectionPattern = regexp.MustCompile(`^(I?List|IEnumerable|ICollection|HashSet)<(\w+)>$`)
	dictionaryPattern = regexp.MustCompile(`^(I?Dictionary)<(\w+),\s?(\w+)>$`)
	genericPattern    = regexp.MustCompile(`^(\w+)<([\w<>\[\] ,]+)>$`)
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth sets the nesting limit. Values <= 0 select DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithMatcher sets the pattern matcher.
func WithMatcher(m *match.Matcher) Option {
	return func(r *Resolver) {
		if m != nil {
			r.matcher = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver turns candidate type strings into resolved type nodes.
type Resolver struct {
	table    *Table
	matcher  *match.Matcher
	maxDepth int
	logger   *slog.Logger
	chain    []recognizer
}

// recognizer claims and transforms a node, or declines by returning false.
type recognizer func(s *resolution, n *model.TypeNode, depth int) bool

// NewResolver creates a Resolver backed by table.
func NewResolver(table *Table, opts ...Option) *Resolver {
	r := &Resolver{
		table:    table,
		matcher:  &match.Matcher{MaxInput: match.DefaultMaxInput},
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.chain = []recognizer{
		translateType,
		parseArray,
		parseCollection,
		parseDictionary,
		parseGeneric,
		parseDefault,
	}
	return r
}

// Table returns the translation table the resolver reads from.
func (r *Resolver) Table() *Table {
	return r.table
}

// RegisterTranslations merges entries into the resolver's table.
func (r *Resolver) RegisterTranslations(entries map[string]TranslationFunc) {
	r.table.Register(entries)
}

// Resolve resolves candidate. The returned node is always fully formed; the
// error is non-nil only when some subtree exceeded the nesting limit, in which
// case that subtree carries the fallback conversion and Malformed is set.
func (r *Resolver) Resolve(candidate string) (*model.TypeNode, error) {
	s := &resolution{Resolver: r}
	n := s.resolve(candidate, 0)
	return n, errors.Join(s.errs...)
}

// resolution carries the state of one Resolve call.
type resolution struct {
	*Resolver
	errs []error
}

func (s *resolution) resolve(candidate string, depth int) *model.TypeNode {
	n := model.NewTypeNode(candidate)
	if depth > s.maxDepth {
		s.logger.Debug("type nesting exceeds limit", "candidate", candidate, "depth", depth)
		n.Malformed = true
		parseDefault(s, n, depth)
		s.errs = append(s.errs, &MalformedError{Candidate: candidate, Depth: depth})
		return n
	}
	for _, recognize := range s.chain {
		if recognize(s, n, depth) {
			break
		}
	}
	return n
}

func translateType(s *resolution, n *model.TypeNode, _ int) bool {
	conv, ok := s.table.Lookup(n.Name)
	if !ok {
		return false
	}
	n.Conversion = conv
	n.IsOpaqueObject = conv.Target() == OpaqueObject
	return true
}

func parseArray(s *resolution, n *model.TypeNode, depth int) bool {
	m := s.matcher.First(arrayPattern, n.Name)
	if m == nil {
		return false
	}
	n.Name = m[1]
	n.IsArray = true
	n.TypeArguments = []*model.TypeNode{s.resolve(m[1], depth+1)}
	// The element name is printed as written, not translated.
	n.Conversion = model.NewConversion(n.Name, n.Name+"[]", "[]")
	return true
}

func parseCollection(s *resolution, n *model.TypeNode, depth int) bool {
	m := s.matcher.First(collectionPattern, n.Name)
	if m == nil {
		return false
	}
	n.Name = m[1]
	n.IsArray = true
	elem := s.resolve(m[2], depth+1)
	n.TypeArguments = []*model.TypeNode{elem}
	n.Conversion = model.NewConversion(n.Name, elem.Name+"[]", "[]")
	return true
}

func parseDictionary(s *resolution, n *model.TypeNode, depth int) bool {
	m := s.matcher.First(dictionaryPattern, n.Name)
	if m == nil {
		return false
	}
	n.Name = m[1]
	n.IsDictionary = true
	n.TypeArguments = []*model.TypeNode{
		s.resolve(m[2], depth+1),
		s.resolve(m[3], depth+1),
	}
	// Key and value types stay on TypeArguments only.
	n.Conversion = model.NewConversion(n.Name, OpaqueObject, "{}")
	return true
}

func parseGeneric(s *resolution, n *model.TypeNode, depth int) bool {
	m := s.matcher.First(genericPattern, n.Name)
	if m == nil {
		return false
	}
	n.Name = m[1]
	args := SplitArguments(m[2])
	n.TypeArguments = make([]*model.TypeNode, 0, len(args))
	for _, arg := range args {
		n.TypeArguments = append(n.TypeArguments, s.resolve(arg, depth+1))
	}
	expr := n.Name + "<" + m[2] + ">"
	n.Conversion = model.NewConversion(n.Name, expr, "new "+expr+"()")
	return true
}

func parseDefault(_ *resolution, n *model.TypeNode, _ int) bool {
	n.Conversion = model.NewConversion(n.Name, n.Name, "new "+n.Name+"()")
	return true
}

// SplitArguments splits a comma-separated type list on commas outside angle brackets.
// Empty arguments are dropped.
func SplitArguments(list string) []string {
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				args = appendArgument(args, list[start:i])
				start = i + 1
			}
		}
	}
	return appendArgument(args, list[start:])
}

func appendArgument(args []string, arg string) []string {
	if arg = strings.TrimSpace(arg); arg != "" {
		args = append(args, arg)
	}
	return args
}
