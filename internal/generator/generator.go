// Package generator renders scanned C# declarations as TypeScript or JavaScript.
package generator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"text/template"

	"cspoco/internal/config"
	"cspoco/internal/model"
	"cspoco/internal/typemap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Generator executes templates against scanned declarations.
type Generator struct {
	config   *config.Config
	resolver *typemap.Resolver
	template *template.Template
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Generator that resolves property types with resolver and
// renders with the built-in template of the resolver's dialect.
func New(cfg *config.Config, resolver *typemap.Resolver, opts ...Option) (*Generator, error) {
	g := &Generator{
		config:   cfg,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	name := string(resolver.Table().Dialect()) + ".tmpl"
	tmpl, err := template.New(name).
		Funcs(templateFuncs(cfg, resolver)).
		ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	g.template = tmpl
	return g, nil
}

// LoadTemplate loads a template file whose "enum" and "type" definitions
// replace the built-in ones.
func (g *Generator) LoadTemplate(path string) error {
	base, err := g.template.Clone()
	if err != nil {
		return fmt.Errorf("loading template: %w", err)
	}
	tmpl, err := base.New(filepath.Base(path)).ParseFiles(path)
	if err != nil {
		return fmt.Errorf("loading template: %w", err)
	}
	g.template = tmpl
	return nil
}

// EnumData is the data passed to the "enum" template.
type EnumData struct {
	Name    string             // Enum name
	Doc     string             // Documentation comment
	Members []model.EnumMember // Members with values as rendered
	Indent  string             // Indentation unit
}

// TypeData is the data passed to the "type" template.
type TypeData struct {
	Name       string         // Declared name
	Doc        string         // Documentation comment
	Keyword    string         // "class" or "interface"
	Params     string         // Rendered generic parameters, e.g. "<T>"
	Heritage   string         // Rendered extends/implements clause, with leading space
	Properties []PropertyData // Properties in declaration order
	Indent     string         // Indentation unit
	Poco       *model.Poco    // The scanned declaration
}

// PropertyData is a single rendered property.
type PropertyData struct {
	Name       string          // Name after casing
	Doc        string          // Documentation comment
	Type       string          // Target type expression
	Default    string          // Default value expression
	Optional   bool            // Declared nullable
	Initialize bool            // Whether the declaration carries an initializer
	Node       *model.TypeNode // The resolved type
}

// Generate renders all included declarations of file: enums first, then
// classes, structs and interfaces, separated by blank lines. Output is written
// even when some property types could not be fully resolved; those failures
// are returned together.
func (g *Generator) Generate(file *model.File, w io.Writer) error {
	g.registerEnums(file)

	known := make(map[string]model.PocoKind, len(file.Pocos))
	for _, p := range file.Pocos {
		known[p.Name] = p.Kind
	}

	var blocks []string
	var errs []error

	for _, e := range file.Enums() {
		if !g.config.ShouldIncludeType(e.Name, e.IsPublic) {
			continue
		}
		block, err := g.execute("enum", g.enumData(e))
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
	}

	types := file.Types()
	for i, t := range types {
		if !g.config.ShouldIncludeType(t.Name, t.IsPublic) {
			g.logger.Debug("skipping declaration", "name", t.Name, "public", t.IsPublic)
			continue
		}
		if g.dialect() == typemap.JavaScript && t.Kind == model.KindInterface {
			continue
		}
		data, err := g.typeData(&types[i], known)
		if err != nil {
			errs = append(errs, err)
		}
		block, err := g.execute("type", data)
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
	}

	if len(blocks) > 0 {
		if _, err := io.WriteString(w, strings.Join(blocks, "\n\n")+"\n"); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	g.logger.Debug("generated declarations", "file", file.Path, "count", len(blocks))
	return errors.Join(errs...)
}

func (g *Generator) dialect() typemap.Dialect {
	return g.resolver.Table().Dialect()
}

func (g *Generator) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := g.template.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// registerEnums makes properties typed with a scanned enum resolve to the enum,
// initialized to its first member.
func (g *Generator) registerEnums(file *model.File) {
	entries := make(map[string]typemap.TranslationFunc)
	for _, e := range file.Enums() {
		def := "null"
		if len(e.Members) > 0 {
			def = e.Name + "." + e.Members[0].Name
		}
		entries[e.Name] = typemap.Translate(e.Name, e.Name, def)
	}
	g.resolver.RegisterTranslations(entries)
}

func (g *Generator) enumData(e model.Poco) EnumData {
	members := e.Members
	if g.dialect() == typemap.JavaScript {
		// Object literals cannot refer to their own keys
		values := make(map[string]string, len(members))
		members = make([]model.EnumMember, len(e.Members))
		for i, m := range e.Members {
			if v, ok := values[m.Value]; ok {
				m.Value = v
			}
			values[m.Name] = m.Value
			members[i] = m
		}
	}
	return EnumData{
		Name:    e.Name,
		Doc:     e.Doc,
		Members: members,
		Indent:  g.config.Options.Indent,
	}
}

func (g *Generator) typeData(p *model.Poco, known map[string]model.PocoKind) (TypeData, error) {
	asInterface := p.Kind == model.KindInterface ||
		(g.config.Options.UseInterfaces && g.dialect() == typemap.TypeScript)

	data := TypeData{
		Name:    p.Name,
		Doc:     p.Doc,
		Keyword: "class",
		Indent:  g.config.Options.Indent,
		Poco:    p,
	}
	if asInterface {
		data.Keyword = "interface"
	}
	if len(p.TypeParams) > 0 && g.dialect() == typemap.TypeScript {
		data.Params = "<" + strings.Join(p.TypeParams, ", ") + ">"
	}
	data.Heritage = g.heritage(p, asInterface, known)

	params := make(map[string]bool, len(p.TypeParams))
	for _, tp := range p.TypeParams {
		params[tp] = true
	}

	var errs []error
	for _, decl := range p.Properties {
		node, err := g.resolver.Resolve(decl.Type)
		if err != nil {
			g.logger.Warn("unresolved property type",
				"type", p.Name,
				"property", decl.Name,
				"candidate", decl.Type,
				"malformed", malformedSubtrees(node),
				"error", err)
			errs = append(errs, fmt.Errorf("resolving %s.%s: %w", p.Name, decl.Name, err))
		}
		data.Properties = append(data.Properties, g.propertyData(decl, node, asInterface, params))
	}
	return data, errors.Join(errs...)
}

// malformedSubtrees lists the parts of node left undecomposed by the depth limit.
func malformedSubtrees(node *model.TypeNode) []string {
	var subtrees []string
	node.Walk(func(n *model.TypeNode) {
		if n.Malformed {
			subtrees = append(subtrees, n.OriginalText)
		}
	})
	return subtrees
}

func (g *Generator) propertyData(decl model.Declaration, node *model.TypeNode, asInterface bool, params map[string]bool) PropertyData {
	prop := PropertyData{
		Name:       propertyName(g.config, decl.Name),
		Doc:        decl.Doc,
		Type:       node.Conversion.Target(),
		Default:    node.DefaultValue(),
		Optional:   decl.IsOptional,
		Initialize: !asInterface && !decl.IsOptional,
		Node:       node,
	}
	// Type parameters have no constructor
	if params[node.Name] && !node.HasGenericArguments() {
		prop.Default = "null"
	}
	if g.dialect() == typemap.JavaScript {
		switch {
		case decl.IsOptional:
			prop.Default = "null"
		case node.HasGenericArguments() && !node.IsArray && !node.IsDictionary:
			prop.Default = "new " + node.Name + "()"
		}
	}
	return prop
}

// heritage renders the extends/implements clause from base types declared in
// the same file, matched by name without type arguments. Unknown bases are
// dropped. JavaScript has no type arguments, so only the name is kept there.
func (g *Generator) heritage(p *model.Poco, asInterface bool, known map[string]model.PocoKind) string {
	var classes, interfaces []string
	var classNames []string
	for _, base := range p.BaseTypes {
		name, _, _ := strings.Cut(base, "<")
		name = strings.TrimSpace(name)
		switch known[name] {
		case model.KindClass, model.KindStruct:
			classes = append(classes, base)
			classNames = append(classNames, name)
		case model.KindInterface:
			interfaces = append(interfaces, base)
		}
	}

	if g.dialect() == typemap.JavaScript {
		if len(classNames) > 0 {
			return " extends " + classNames[0]
		}
		return ""
	}
	if asInterface {
		all := append(classes, interfaces...)
		if len(all) == 0 {
			return ""
		}
		return " extends " + strings.Join(all, ", ")
	}

	var clause string
	if len(classes) > 0 {
		clause += " extends " + classes[0]
	}
	if len(interfaces) > 0 {
		clause += " implements " + strings.Join(interfaces, ", ")
	}
	return clause
}
