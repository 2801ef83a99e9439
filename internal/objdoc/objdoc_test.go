package objdoc

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("inline objdoc", func(t *testing.T) {
		t.Parallel()

		var n Node
		require.NoError(t, json.Unmarshal([]byte(`{"name": "Foo", "type_name": "type"}`), &n))
		require.Nil(t, n.Ref)
		require.NotNil(t, n.Objdoc)
		assert.Equal(t, "Foo", n.Objdoc.Name)
		assert.Equal(t, "type", n.Objdoc.TypeName)

		out, err := json.Marshal(&n)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "Foo", "type_name": "type"}`, string(out))
	})

	t.Run("ref", func(t *testing.T) {
		t.Parallel()

		var n Node
		require.NoError(t, json.Unmarshal([]byte(`{"$ref": "#/modules/pkg/dict/Foo"}`), &n))
		require.NotNil(t, n.Ref)
		assert.Nil(t, n.Objdoc)
		assert.Equal(t, "#/modules/pkg/dict/Foo", n.Ref.Target)

		out, err := json.Marshal(&n)
		require.NoError(t, err)
		assert.JSONEq(t, `{"$ref": "#/modules/pkg/dict/Foo"}`, string(out))
	})

	t.Run("ref with type", func(t *testing.T) {
		t.Parallel()

		var n Node
		require.NoError(t, json.Unmarshal([]byte(`{
			"$ref": "#/modules/pkg/dict/foo",
			"type": {"$ref": "#/modules/builtins/dict/function"}
		}`), &n))
		require.NotNil(t, n.Ref)
		require.NotNil(t, n.Ref.Type)
		assert.Equal(t, "#/modules/builtins/dict/function", n.Ref.Type.Target)
	})
}

func TestObjdocJSON_allFieldsOptional(t *testing.T) {
	t.Parallel()

	var doc Objdoc
	require.NoError(t, json.Unmarshal([]byte(`{}`), &doc))

	out, err := json.Marshal(&doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out), "zero objdoc must serialize with no fields")
}

func TestObjdocJSON_nested(t *testing.T) {
	t.Parallel()

	give := `{
		"name": "mymod",
		"type_name": "module",
		"all_names": ["Foo"],
		"path": "/src/mymod.py",
		"dict": {
			"Foo": {
				"name": "Foo",
				"qualname": "Foo",
				"callable": true,
				"lines": [10, 42],
				"docs": {
					"doc": "A thing.\n\n@param x  the input",
					"summary": "A thing.",
					"javadoc": [{"tag": "param", "arg": "x", "text": "the input"}]
				},
				"signature": {
					"params": [
						{"name": "self", "kind": "POSITIONAL_OR_KEYWORD"},
						{"name": "x", "kind": "KEYWORD_ONLY", "doc": "the input"}
					]
				}
			}
		}
	}`

	var doc Objdoc
	require.NoError(t, json.Unmarshal([]byte(give), &doc))

	require.Contains(t, doc.Dict, "Foo")
	foo := doc.Dict["Foo"].Objdoc
	require.NotNil(t, foo)

	require.NotNil(t, foo.Callable)
	assert.True(t, *foo.Callable)
	assert.Equal(t, &Lines{First: 10, Last: 42}, foo.Lines)

	require.NotNil(t, foo.Docs)
	assert.Equal(t, "A thing.", foo.Docs.Summary)
	require.Len(t, foo.Docs.Javadoc, 1)
	assert.Equal(t, &JavadocTag{Tag: "param", Arg: "x", Text: "the input"}, foo.Docs.Javadoc[0])

	require.NotNil(t, foo.Signature)
	require.Len(t, foo.Signature.Params, 2)
	assert.Equal(t, PositionalOrKeyword, foo.Signature.Params[0].Kind)
	assert.Equal(t, KeywordOnly, foo.Signature.Params[1].Kind)

	out, err := json.Marshal(&doc)
	require.NoError(t, err)
	assert.JSONEq(t, give, string(out))
}

func TestSourceJSON(t *testing.T) {
	t.Parallel()

	t.Run("string", func(t *testing.T) {
		t.Parallel()

		var s Source
		require.NoError(t, json.Unmarshal([]byte(`"def f():\n    pass\n"`), &s))
		assert.Equal(t, Source("def f():\n    pass\n"), s)
	})

	t.Run("array of lines", func(t *testing.T) {
		t.Parallel()

		var s Source
		require.NoError(t, json.Unmarshal([]byte(`["def f():\n", "    pass\n"]`), &s))
		assert.Equal(t, Source("def f():\n    pass\n"), s)
	})

	t.Run("bad type", func(t *testing.T) {
		t.Parallel()

		var s Source
		assert.Error(t, json.Unmarshal([]byte(`42`), &s))
	})
}

func TestLinesJSON_badShape(t *testing.T) {
	t.Parallel()

	var l Lines
	assert.Error(t, json.Unmarshal([]byte(`"10-42"`), &l))
}

func TestDocsrcAdd(t *testing.T) {
	t.Parallel()

	d := NewDocsrc()

	_, ok := d.Module("mymod")
	assert.False(t, ok)

	first := &Objdoc{Name: "mymod"}
	assert.Same(t, first, d.Add("mymod", first))

	// A second insert must not replace the existing entry.
	second := &Objdoc{Name: "mymod", Repr: "other"}
	assert.Same(t, first, d.Add("mymod", second))

	got, ok := d.Module("mymod")
	require.True(t, ok)
	assert.Same(t, first, got)

	assert.Equal(t, []string{"mymod"}, d.ModuleNames())
	assert.Equal(t, 1, d.Len())
}

func TestDocsrcAdd_concurrent(t *testing.T) {
	t.Parallel()

	d := NewDocsrc()

	const workers = 16
	winners := make([]*Objdoc, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			winners[i] = d.Add("mymod", &Objdoc{Name: "mymod"})
		}()
	}
	wg.Wait()

	want, ok := d.Module("mymod")
	require.True(t, ok)
	for i, got := range winners {
		assert.Same(t, want, got, "worker %d saw a different module", i)
	}
	assert.Equal(t, 1, d.Len())
}
