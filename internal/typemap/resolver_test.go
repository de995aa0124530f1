package typemap

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cspoco/internal/match"
	"cspoco/internal/model"
)

func newResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	table, err := NewTable(TypeScript)
	require.NoError(t, err)
	return NewResolver(table, opts...)
}

func resolve(t *testing.T, r *Resolver, candidate string) *model.TypeNode {
	t.Helper()
	n, err := r.Resolve(candidate)
	require.NoError(t, err)
	require.False(t, n.Conversion.IsZero(), "conversion must be assigned for %q", candidate)
	return n
}

func TestResolve_Primitives(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name   string
		target string
		def    string
	}{
		{"int", "number", "0"},
		{"double", "number", "0"},
		{"float", "number", "0"},
		{"Int32", "number", "0"},
		{"Int64", "number", "0"},
		{"short", "number", "0"},
		{"long", "number", "0"},
		{"decimal", "number", "0"},
		{"bool", "boolean", "false"},
		{"DateTime", "Date", "null"},
		{"Guid", "string", "''"},
		{"string", "string", "''"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := resolve(t, r, tt.name)
			assert.Equal(t, tt.name, n.Name)
			assert.Equal(t, tt.name, n.Conversion.Source())
			assert.Equal(t, tt.target, n.Conversion.Target())
			assert.Equal(t, tt.def, n.Conversion.Default())
			assert.False(t, n.IsArray)
			assert.False(t, n.HasGenericArguments())
		})
	}
}

func TestResolve_TableDefaultsMatchResolution(t *testing.T) {
	r := newResolver(t)

	for _, name := range r.Table().Names() {
		conv, ok := r.Table().Lookup(name)
		require.True(t, ok)
		assert.Equal(t, conv.Default(), resolve(t, r, name).Conversion.Default(), name)
	}
}

func TestResolve_OpaqueObjects(t *testing.T) {
	r := newResolver(t)

	for _, name := range []string{"object", "dynamic", "JObject"} {
		n := resolve(t, r, name)
		assert.True(t, n.IsOpaqueObject, name)
		assert.Equal(t, "any", n.Conversion.Target())
		assert.Equal(t, "{}", n.Conversion.Default())
	}
	assert.False(t, resolve(t, r, "string").IsOpaqueObject)
}

func TestResolve_JavaScriptDialect(t *testing.T) {
	r := NewResolver(MustNewTable(JavaScript))

	n := resolve(t, r, "DateTime")
	assert.Equal(t, "string", n.Conversion.Target())
	assert.Equal(t, "''", n.Conversion.Default())
}

func TestResolve_Array(t *testing.T) {
	r := newResolver(t)

	n := resolve(t, r, "string[]")
	assert.True(t, n.IsArray)
	assert.Equal(t, "string", n.Name)
	assert.Equal(t, "string[]", n.OriginalText)
	assert.Equal(t, "string[]", n.Conversion.Target())
	assert.Equal(t, "[]", n.Conversion.Default())

	require.Len(t, n.TypeArguments, 1)
	assert.Equal(t, resolve(t, r, "string"), n.TypeArguments[0])
}

func TestResolve_ArrayKeepsElementName(t *testing.T) {
	r := newResolver(t)

	n := resolve(t, r, "int[]")
	assert.Equal(t, "int[]", n.Conversion.Target())
	assert.Equal(t, "int", n.Conversion.Source())
	assert.Equal(t, "number", n.TypeArguments[0].Conversion.Target())
}

func TestResolve_Collections(t *testing.T) {
	r := newResolver(t)
	guid := resolve(t, r, "Guid")

	for _, name := range []string{"List", "IList", "IEnumerable", "ICollection", "HashSet"} {
		t.Run(name, func(t *testing.T) {
			n := resolve(t, r, name+"<Guid>")
			assert.True(t, n.IsArray)
			assert.False(t, n.IsDictionary)
			assert.Equal(t, name, n.Name)
			assert.Equal(t, "Guid[]", n.Conversion.Target())
			assert.Equal(t, "[]", n.Conversion.Default())
			require.Len(t, n.TypeArguments, 1)
			assert.Equal(t, guid, n.TypeArguments[0])
		})
	}
}

func TestResolve_ListAndIListAgree(t *testing.T) {
	r := newResolver(t)

	list := resolve(t, r, "List<Guid>")
	ilist := resolve(t, r, "IList<Guid>")

	assert.Equal(t, list.IsArray, ilist.IsArray)
	assert.Equal(t, list.TypeArguments, ilist.TypeArguments)
	assert.Equal(t, list.Conversion.Target(), ilist.Conversion.Target())
	assert.Equal(t, list.Conversion.Default(), ilist.Conversion.Default())
}

func TestResolve_Dictionary(t *testing.T) {
	r := newResolver(t)
	str := resolve(t, r, "string")
	num := resolve(t, r, "int")

	for _, candidate := range []string{
		"Dictionary<string,int>",
		"Dictionary<string, int>",
		"IDictionary<string,int>",
		"IDictionary<string, int>",
	} {
		t.Run(candidate, func(t *testing.T) {
			n := resolve(t, r, candidate)
			assert.True(t, n.IsDictionary)
			assert.False(t, n.IsArray)
			assert.Equal(t, "any", n.Conversion.Target())
			assert.Equal(t, "{}", n.Conversion.Default())
			assert.Equal(t, []*model.TypeNode{str, num}, n.TypeArguments)
		})
	}
}

func TestResolve_DictionaryWithNestedGenericFallsToGeneric(t *testing.T) {
	r := newResolver(t)

	n := resolve(t, r, "Dictionary<string, List<int>>")
	assert.False(t, n.IsDictionary)
	assert.Equal(t, "Dictionary", n.Name)
	require.Len(t, n.TypeArguments, 2)
	assert.True(t, n.TypeArguments[1].IsArray)
}

func TestResolve_Generic(t *testing.T) {
	r := newResolver(t)

	n := resolve(t, r, "Pair<string, Widget>")
	assert.Equal(t, "Pair", n.Name)
	assert.Equal(t, "Pair<string, Widget>", n.Conversion.Target())
	assert.Equal(t, "new Pair<string, Widget>()", n.Conversion.Default())
	require.Len(t, n.TypeArguments, 2)
	assert.Equal(t, "string", n.TypeArguments[0].Conversion.Target())
	assert.Equal(t, "Widget", n.TypeArguments[1].Conversion.Target())
}

func TestResolve_NestedGeneric(t *testing.T) {
	r := newResolver(t)

	n := resolve(t, r, "Response<List<Guid>>")
	assert.Equal(t, "Response", n.Name)
	assert.Equal(t, "Response<List<Guid>>", n.Conversion.Target())
	require.Len(t, n.TypeArguments, 1)

	list := n.TypeArguments[0]
	assert.True(t, list.IsArray)
	require.Len(t, list.TypeArguments, 1)
	assert.Equal(t, resolve(t, r, "Guid").Conversion, list.TypeArguments[0].Conversion)
}

func TestResolve_BracketAwareSplit(t *testing.T) {
	r := newResolver(t)

	n := resolve(t, r, "Triple<Map<string, int>, List<Guid>, bool>")
	require.Len(t, n.TypeArguments, 3)
	assert.Equal(t, "Map<string, int>", n.TypeArguments[0].OriginalText)
	assert.Len(t, n.TypeArguments[0].TypeArguments, 2)
	assert.Equal(t, "List<Guid>", n.TypeArguments[1].OriginalText)
	assert.Equal(t, "bool", n.TypeArguments[2].OriginalText)
}

func TestResolve_GenericWithArrayArgument(t *testing.T) {
	r := newResolver(t)

	n := resolve(t, r, "Page<Widget[]>")
	require.Len(t, n.TypeArguments, 1)
	assert.True(t, n.TypeArguments[0].IsArray)
}

func TestResolve_Fallback(t *testing.T) {
	r := newResolver(t)

	n := resolve(t, r, "Widget")
	assert.Equal(t, "Widget", n.Conversion.Target())
	assert.Equal(t, "new Widget()", n.Conversion.Default())
	assert.False(t, n.IsArray)
	assert.False(t, n.IsDictionary)
	assert.False(t, n.IsOpaqueObject)
	assert.False(t, n.HasGenericArguments())
}

func TestResolve_Idempotent(t *testing.T) {
	r := newResolver(t)

	for _, c := range []string{"int", "Widget[]", "List<Guid>", "IDictionary<string, int>", "A<B<C, D>, E>"} {
		assert.Equal(t, resolve(t, r, c), resolve(t, r, c), c)
	}
}

func TestRegisterTranslations_Precedence(t *testing.T) {
	r := newResolver(t)

	r.RegisterTranslations(map[string]TranslationFunc{
		"Widget": Translate("Widget", "IWidget", "null"),
	})
	assert.Equal(t, "IWidget", resolve(t, r, "Widget").Conversion.Target())

	// A translation for the element does not short-circuit array parsing.
	arr := resolve(t, r, "Widget[]")
	assert.True(t, arr.IsArray)
	assert.Equal(t, "Widget[]", arr.Conversion.Target())

	r.RegisterTranslations(map[string]TranslationFunc{
		"Widget[]": Translate("Widget[]", "WidgetList", "new WidgetList()"),
	})
	arr = resolve(t, r, "Widget[]")
	assert.False(t, arr.IsArray)
	assert.Equal(t, "WidgetList", arr.Conversion.Target())
}

func TestRegisterTranslations_Overrides(t *testing.T) {
	r := newResolver(t)

	r.RegisterTranslations(map[string]TranslationFunc{
		"DateTime": Translate("DateTime", "string", "''"),
		"Ignored":  nil,
	})
	assert.Equal(t, "string", resolve(t, r, "DateTime").Conversion.Target())
	assert.Equal(t, "new Ignored()", resolve(t, r, "Ignored").Conversion.Default())
}

func TestRegisterTranslations_Isolated(t *testing.T) {
	a := newResolver(t)
	b := newResolver(t)

	a.RegisterTranslations(map[string]TranslationFunc{
		"Money": Translate("Money", "number", "0"),
	})
	assert.Equal(t, "number", resolve(t, a, "Money").Conversion.Target())
	assert.Equal(t, "Money", resolve(t, b, "Money").Conversion.Target())
}

func TestResolve_DepthLimit(t *testing.T) {
	r := newResolver(t, WithMaxDepth(4))
	candidate := strings.Repeat("A<", 8) + "int" + strings.Repeat(">", 8)

	n, err := r.Resolve(candidate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedTypeExpression))

	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 5, malformed.Depth)

	// Every node, including the cut subtree, carries a conversion.
	var count int
	n.Walk(func(node *model.TypeNode) {
		count++
		assert.False(t, node.Conversion.IsZero())
	})
	assert.Equal(t, 6, count)

	deepest := n
	for deepest.HasGenericArguments() {
		deepest = deepest.TypeArguments[0]
	}
	assert.True(t, deepest.Malformed)
	assert.Equal(t, deepest.OriginalText, deepest.Conversion.Target())
}

func TestResolve_WithinDepthLimit(t *testing.T) {
	r := newResolver(t)
	candidate := strings.Repeat("A<", DefaultMaxDepth) + "int" + strings.Repeat(">", DefaultMaxDepth)

	n, err := r.Resolve(candidate)
	require.NoError(t, err)
	assert.Equal(t, candidate, n.Conversion.Target())
}

func TestResolve_OverBudgetFallsBack(t *testing.T) {
	r := newResolver(t, WithMatcher(&match.Matcher{MaxInput: 8}))

	n := resolve(t, r, "List<Widget>")
	assert.False(t, n.IsArray)
	assert.Equal(t, "List<Widget>", n.Conversion.Target())
	assert.Equal(t, "new List<Widget>()", n.Conversion.Default())
}

func TestResolve_ConcurrentRegistration(t *testing.T) {
	r := newResolver(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.RegisterTranslations(map[string]TranslationFunc{
				"Money": Translate("Money", "number", "0"),
			})
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Resolve("Dictionary<string, Money>")
		}()
	}
	wg.Wait()

	assert.Equal(t, "number", resolve(t, r, "Money").Conversion.Target())
}

func TestSplitArguments(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"int", []string{"int"}},
		{"string, int", []string{"string", "int"}},
		{"A<B, C>, D", []string{"A<B, C>", "D"}},
		{"A<B<C, D>>, E<F>", []string{"A<B<C, D>>", "E<F>"}},
		{" , x, ", []string{"x"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitArguments(tt.in), tt.in)
	}
}

func TestNewTable_UnknownDialect(t *testing.T) {
	_, err := NewTable("cobol")
	assert.Error(t, err)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("js")
	require.NoError(t, err)
	assert.Equal(t, JavaScript, d)

	d, err = ParseDialect("")
	require.NoError(t, err)
	assert.Equal(t, TypeScript, d)

	_, err = ParseDialect("python")
	assert.Error(t, err)
}
