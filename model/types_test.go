package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeDefinition_FullName(t *testing.T) {
	var testCases = []struct {
		description string
		build       func() *TypeDefinition
		expect      string
	}{
		{
			description: "namespace qualified",
			build: func() *TypeDefinition {
				return NewTypeDefinition("N.M", "Foo", TypePublic)
			},
			expect: "N.M.Foo",
		},
		{
			description: "global namespace",
			build: func() *TypeDefinition {
				return NewTypeDefinition("", "<Module>", TypeNotPublic)
			},
			expect: "<Module>",
		},
		{
			description: "nested type",
			build: func() *TypeDefinition {
				outer := NewTypeDefinition("N", "Outer", TypePublic)
				inner := NewTypeDefinition("", "Inner", TypeNestedPublic)
				outer.AddNestedType(inner)
				return inner
			},
			expect: "N.Outer/Inner",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expect, testCase.build().FullName())
		})
	}
}

func TestModule_GetType(t *testing.T) {
	module := NewModule("App.dll")
	outer := NewTypeDefinition("N", "Outer", TypePublic)
	inner := NewTypeDefinition("", "Inner", TypeNestedPublic)
	outer.AddNestedType(inner)
	module.AddType(outer)

	assert.Same(t, outer, module.GetType("N.Outer"))
	assert.Same(t, inner, module.GetType("N.Outer/Inner"))
	assert.Same(t, module, inner.Module)
	assert.Nil(t, module.GetType("N.Inner"))

	t.Run("rename keeps identity and index", func(t *testing.T) {
		outer.Rename("<x>Outer")
		assert.Nil(t, module.GetType("N.Outer"))
		assert.Same(t, outer, module.GetType("N.<x>Outer"))
		assert.Same(t, inner, module.GetType("N.<x>Outer/Inner"))
	})
}

func TestTypeDefinition_SetPublic(t *testing.T) {
	def := NewTypeDefinition("N", "Foo", TypePublic|TypeSealed)
	require.True(t, def.IsPublic())
	def.SetPublic(false)
	assert.False(t, def.IsPublic())
	assert.Equal(t, TypeSealed, def.Attributes&TypeSealed)
	def.SetPublic(true)
	assert.True(t, def.IsPublic())
}

func TestTypeDefinition_MethodsNamed(t *testing.T) {
	def := NewTypeDefinition("N", "Foo", TypePublic)
	def.AddMethod(NewMethodDefinition("Run", MethodPublic, nil))
	def.AddMethod(NewMethodDefinition("Stop", MethodPublic, nil))
	assert.Len(t, def.MethodsNamed("Run"), 1)

	// methods assigned directly are picked up on next lookup
	def.Methods = append(def.Methods, NewMethodDefinition("Run", MethodPublic|MethodStatic, nil))
	assert.Len(t, def.MethodsNamed("Run"), 2)
	assert.Empty(t, def.MethodsNamed("Missing"))
}

func TestMethodDefinition_FullName(t *testing.T) {
	corlib := &AssemblyNameReference{Name: "mscorlib", Version: "4.0.0.0"}
	module := NewModule("App.dll")
	def := NewTypeDefinition("N", "Foo", TypePublic)
	module.AddType(def)
	method := NewMethodDefinition("Bar", MethodPublic, NewTypeReference("System", "Void", module, corlib))
	method.Parameters = []*ParameterDefinition{
		{Name: "a", ParameterType: NewTypeReference("System", "Int32", module, corlib)},
		{Name: "b", ParameterType: NewTypeReference("System", "String", module, corlib)},
	}
	def.AddMethod(method)
	assert.Equal(t, "System.Void N.Foo::Bar(System.Int32,System.String)", method.FullName())
}

func TestMethodBody_ThisParameter(t *testing.T) {
	def := NewTypeDefinition("N", "Foo", TypePublic)
	instance := NewMethodDefinition("Run", MethodPublic, nil)
	def.AddMethod(instance)
	body := NewMethodBody(instance)
	this := body.ThisParameter()
	require.NotNil(t, this)
	assert.Same(t, this, body.ThisParameter())
	assert.Same(t, def, this.ParameterType)

	static := NewMethodDefinition("Create", MethodPublic|MethodStatic, nil)
	def.AddMethod(static)
	assert.Nil(t, NewMethodBody(static).ThisParameter())
}

func TestDigest(t *testing.T) {
	first, err := Digest([]byte("payload"))
	require.NoError(t, err)
	second, err := Digest([]byte("payload"))
	require.NoError(t, err)
	other, err := Digest([]byte("payload!"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestResource_Digest(t *testing.T) {
	var testCases = []struct {
		description string
		other       *Resource
		expectSame  bool
	}{
		{
			description: "identical entries",
			other:       &Resource{Name: "b", Entries: []*ResourceEntry{{Name: "x", Data: []byte("ab")}, {Name: "y", Data: []byte("c")}}},
			expectSame:  true,
		},
		{
			description: "shifted entry boundary",
			other:       &Resource{Name: "a", Entries: []*ResourceEntry{{Name: "x", Data: []byte("a")}, {Name: "y", Data: []byte("bc")}}},
		},
		{
			description: "renamed entry",
			other:       &Resource{Name: "a", Entries: []*ResourceEntry{{Name: "z", Data: []byte("ab")}, {Name: "y", Data: []byte("c")}}},
		},
	}

	resource := &Resource{Name: "a", Entries: []*ResourceEntry{{Name: "x", Data: []byte("ab")}, {Name: "y", Data: []byte("c")}}}
	expect, err := resource.Digest()
	require.NoError(t, err)
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := testCase.other.Digest()
			require.NoError(t, err)
			assert.Equal(t, testCase.expectSame, expect == actual)
		})
	}
}
