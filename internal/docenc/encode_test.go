package docenc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhsamuel/supdoc/internal/docpath"
	"github.com/alexhsamuel/supdoc/internal/objdoc"
)

func TestMarshal_cycleBecomesRef(t *testing.T) {
	t.Parallel()

	// Foo.bar points back at Foo itself.
	foo := &objdoc.Objdoc{Name: "Foo"}
	foo.Dict = map[string]*objdoc.Node{"bar": objdoc.Doc(foo)}

	d := objdoc.NewDocsrc()
	d.Add("pkg", &objdoc.Objdoc{
		Name:     "pkg",
		TypeName: "module",
		Dict:     map[string]*objdoc.Node{"Foo": objdoc.Doc(foo)},
	})

	out, err := Marshal(d)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"modules": {
			"pkg": {
				"name": "pkg",
				"type_name": "module",
				"dict": {
					"Foo": {
						"name": "Foo",
						"dict": {
							"bar": {"$ref": "#/modules/pkg/dict/Foo"}
						}
					}
				}
			}
		}
	}`, string(out))
}

func TestMarshal_sharedNodeEmittedOnce(t *testing.T) {
	t.Parallel()

	shared := &objdoc.Objdoc{Name: "shared", Repr: "<shared>"}

	d := objdoc.NewDocsrc()
	d.Add("pkg", &objdoc.Objdoc{
		TypeName: "module",
		Dict: map[string]*objdoc.Node{
			// Document order visits dict keys sorted,
			// so "alpha" gets the inline copy.
			"alpha": objdoc.Doc(shared),
			"beta":  objdoc.Doc(shared),
		},
	})

	out, err := Marshal(d)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"modules": {
			"pkg": {
				"type_name": "module",
				"dict": {
					"alpha": {"name": "shared", "repr": "<shared>"},
					"beta": {"$ref": "#/modules/pkg/dict/alpha"}
				}
			}
		}
	}`, string(out))
}

func TestMarshal_sharedAcrossModules(t *testing.T) {
	t.Parallel()

	shared := &objdoc.Objdoc{Name: "thing"}

	d := objdoc.NewDocsrc()
	d.Add("zmod", &objdoc.Objdoc{
		TypeName: "module",
		Dict:     map[string]*objdoc.Node{"thing": objdoc.Doc(shared)},
	})
	d.Add("amod", &objdoc.Objdoc{
		TypeName: "module",
		Dict:     map[string]*objdoc.Node{"thing": objdoc.Doc(shared)},
	})

	out, err := Marshal(d)
	require.NoError(t, err)

	// Modules are visited in sorted order,
	// so the inline copy lands under amod.
	assert.JSONEq(t, `{
		"modules": {
			"amod": {
				"type_name": "module",
				"dict": {"thing": {"name": "thing"}}
			},
			"zmod": {
				"type_name": "module",
				"dict": {"thing": {"$ref": "#/modules/amod/dict/thing"}}
			}
		}
	}`, string(out))
}

func TestRoundTrip_preservesCycle(t *testing.T) {
	t.Parallel()

	foo := &objdoc.Objdoc{Name: "Foo"}
	foo.Dict = map[string]*objdoc.Node{"bar": objdoc.Doc(foo)}

	d := objdoc.NewDocsrc()
	d.Add("pkg", &objdoc.Objdoc{
		TypeName: "module",
		Dict:     map[string]*objdoc.Node{"Foo": objdoc.Doc(foo)},
	})

	out, err := Marshal(d)
	require.NoError(t, err)

	back, err := Unmarshal(out)
	require.NoError(t, err)

	mod, ok := back.Module("pkg")
	require.True(t, ok)

	gotFoo := mod.Dict["Foo"].Objdoc
	require.NotNil(t, gotFoo)
	assert.Equal(t, "Foo", gotFoo.Name)

	bar := gotFoo.Dict["bar"]
	require.NotNil(t, bar.Ref, "cycle must survive as a ref")
	p, err := bar.Ref.Path()
	require.NoError(t, err)
	assert.Equal(t, docpath.Path{Modname: "pkg", Qualname: "Foo"}, p)

	// Serializing again must produce the same document.
	again, err := Marshal(back)
	require.NoError(t, err)
	assert.JSONEq(t, string(out), string(again))
}

func TestMarshalModule_fragment(t *testing.T) {
	t.Parallel()

	foo := &objdoc.Objdoc{Name: "Foo"}
	foo.Dict = map[string]*objdoc.Node{"self": objdoc.Doc(foo)}
	mod := &objdoc.Objdoc{
		TypeName: "module",
		Dict:     map[string]*objdoc.Node{"Foo": objdoc.Doc(foo)},
	}

	out, err := MarshalModule("mymod", mod)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type_name": "module",
		"dict": {
			"Foo": {
				"name": "Foo",
				"dict": {
					"self": {"$ref": "#/modules/mymod/dict/Foo"}
				}
			}
		}
	}`, string(out))

	back, err := UnmarshalModule(out)
	require.NoError(t, err)
	assert.Equal(t, "Foo", back.Dict["Foo"].Objdoc.Name)
}

func TestMarshal_typeCycleFallsBackToSelfPath(t *testing.T) {
	t.Parallel()

	// meta's type is meta itself,
	// and meta is reachable only through type positions,
	// which are not dict-addressable.
	// The emitted ref must come from the path meta declares for itself.
	meta := &objdoc.Objdoc{
		Name:     "Meta",
		Qualname: "Meta",
		Module:   objdoc.MakeRef(docpath.Path{Modname: "pkg"}),
	}
	meta.Type = objdoc.Doc(meta)

	d := objdoc.NewDocsrc()
	d.Add("pkg", &objdoc.Objdoc{
		TypeName: "module",
		Type:     objdoc.Doc(meta),
	})

	out, err := Marshal(d)
	require.NoError(t, err)

	var wire struct {
		Modules map[string]*objdoc.Objdoc `json:"modules"`
	}
	require.NoError(t, json.Unmarshal(out, &wire))

	gotMeta := wire.Modules["pkg"].Type.Objdoc
	require.NotNil(t, gotMeta)
	require.NotNil(t, gotMeta.Type.Ref)
	assert.Equal(t, "#/modules/pkg/dict/Meta", gotMeta.Type.Ref.Target)
}

func TestMarshal_unaddressableCycleFails(t *testing.T) {
	t.Parallel()

	// An anonymous node whose type refers back to itself
	// has no path a ref could target.
	anon := &objdoc.Objdoc{Repr: "<anon>"}
	anon.Type = objdoc.Doc(anon)

	d := objdoc.NewDocsrc()
	d.Add("pkg", &objdoc.Objdoc{
		TypeName: "module",
		Type:     objdoc.Doc(anon),
	})

	_, err := Marshal(d)
	assert.ErrorContains(t, err, "no addressable path")
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	d := objdoc.NewDocsrc()
	d.Add("mymod", &objdoc.Objdoc{Name: "mymod", TypeName: "module"})

	var buff bytes.Buffer
	require.NoError(t, Encode(&buff, d))

	back, err := Decode(&buff)
	require.NoError(t, err)
	assert.Equal(t, []string{"mymod"}, back.ModuleNames())
}
