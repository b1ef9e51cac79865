package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMapper struct {
	clones map[TypeRef]*TypeDefinition
	merged map[string]bool
}

func (m *testMapper) MergedType(ref TypeRef) *TypeDefinition {
	return m.clones[ref]
}

func (m *testMapper) IsMergedAssembly(name string) bool {
	return m.merged[name]
}

func newTestTarget() *Module {
	return NewAssemblyDefinition(&AssemblyNameReference{Name: "Merged", Version: "1.0.0.0"}, "Merged.dll").MainModule()
}

func TestMetadataImporter_ImportType(t *testing.T) {
	corlib := &AssemblyNameReference{Name: "mscorlib", Version: "4.0.0.0"}
	lib := NewAssemblyDefinition(&AssemblyNameReference{Name: "Lib", Version: "2.0.0.0"}, "Lib.dll")
	libType := NewTypeDefinition("L", "Widget", TypePublic)
	lib.MainModule().AddType(libType)
	source := NewAssemblyDefinition(&AssemblyNameReference{Name: "A", Version: "1.0.0.0"}, "A.dll").MainModule()
	sourceType := NewTypeDefinition("N", "Foo", TypePublic)
	source.AddType(sourceType)

	var testCases = []struct {
		description string
		ref         func(target *Module) TypeRef
		mapper      func(target *Module) *testMapper
		expectName  string
		expectScope string
		expectLocal bool
	}{
		{
			description: "external reference registers assembly reference",
			ref: func(target *Module) TypeRef {
				return NewTypeReference("System", "String", source, corlib)
			},
			expectName:  "System.String",
			expectScope: "mscorlib",
		},
		{
			description: "definition of unmerged assembly becomes reference",
			ref: func(target *Module) TypeRef {
				return libType
			},
			expectName:  "L.Widget",
			expectScope: "Lib",
		},
		{
			description: "mapped definition resolves to clone",
			ref: func(target *Module) TypeRef {
				return sourceType
			},
			mapper: func(target *Module) *testMapper {
				clone := NewTypeDefinition("N", "Foo", TypePublic)
				target.AddType(clone)
				return &testMapper{clones: map[TypeRef]*TypeDefinition{sourceType: clone}}
			},
			expectName:  "N.Foo",
			expectLocal: true,
		},
		{
			description: "reference into merged assembly resolves locally",
			ref: func(target *Module) TypeRef {
				return NewTypeReference("N", "Foo", source, &AssemblyNameReference{Name: "A", Version: "1.0.0.0"})
			},
			mapper: func(target *Module) *testMapper {
				target.AddType(NewTypeDefinition("N", "Foo", TypePublic))
				return &testMapper{merged: map[string]bool{"A": true}}
			},
			expectName:  "N.Foo",
			expectLocal: true,
		},
		{
			description: "forward reference into merged assembly is module scoped",
			ref: func(target *Module) TypeRef {
				return NewTypeReference("N", "Later", source, &AssemblyNameReference{Name: "A", Version: "1.0.0.0"})
			},
			mapper: func(target *Module) *testMapper {
				return &testMapper{merged: map[string]bool{"A": true}}
			},
			expectName:  "N.Later",
			expectScope: "Merged.dll",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			target := newTestTarget()
			var mapper TypeMapper
			if testCase.mapper != nil {
				mapper = testCase.mapper(target)
			}
			importer := NewMetadataImporter(target, mapper)
			actual, err := importer.ImportType(testCase.ref(target), nil)
			require.NoError(t, err)
			assert.Equal(t, testCase.expectName, actual.FullName())
			if testCase.expectLocal {
				def, ok := actual.(*TypeDefinition)
				require.True(t, ok)
				assert.Same(t, target, def.Module)
				return
			}
			require.NotNil(t, actual.Scope())
			assert.Equal(t, testCase.expectScope, actual.Scope().ScopeName())
		})
	}
}

func TestMetadataImporter_AssemblyReferenceReuse(t *testing.T) {
	corlib := &AssemblyNameReference{Name: "mscorlib", Version: "4.0.0.0"}
	source := NewModule("A.dll")
	target := newTestTarget()
	importer := NewMetadataImporter(target, nil)
	first, err := importer.ImportType(NewTypeReference("System", "String", source, corlib), nil)
	require.NoError(t, err)
	second, err := importer.ImportType(NewTypeReference("System", "Int32", source, corlib), nil)
	require.NoError(t, err)
	assert.Same(t, first.Scope(), second.Scope())
	assert.Len(t, target.AssemblyReferences, 1)
}

func TestMetadataImporter_GenericParameter(t *testing.T) {
	source := NewModule("A.dll")
	owner := NewTypeDefinition("N", "List`1", TypePublic)
	source.AddType(owner)
	param := &GenericParameter{Name: "T"}
	owner.AddGenericParameter(param)

	target := newTestTarget()
	clone := NewTypeDefinition("N", "List`1", TypePublic)
	target.AddType(clone)
	cloneParam := &GenericParameter{Name: "T"}
	clone.AddGenericParameter(cloneParam)
	importer := NewMetadataImporter(target, nil)

	t.Run("resolved against context", func(t *testing.T) {
		actual, err := importer.ImportType(param, clone)
		require.NoError(t, err)
		assert.Same(t, cloneParam, actual)
	})
	t.Run("missing context", func(t *testing.T) {
		_, err := importer.ImportType(param, nil)
		assert.Error(t, err)
	})
	t.Run("signature keeps position", func(t *testing.T) {
		ref := &MethodReference{Name: "Get", DeclaringType: owner, ReturnType: param}
		actual, err := importer.ImportMethod(ref, nil)
		require.NoError(t, err)
		returnType, ok := actual.ReturnTypeRef().(*GenericParameter)
		require.True(t, ok)
		assert.Equal(t, 0, returnType.Position)
		assert.Equal(t, GenericParameterType, returnType.Kind)
	})
}

func TestMetadataImporter_ImportMethod(t *testing.T) {
	corlib := &AssemblyNameReference{Name: "mscorlib", Version: "4.0.0.0"}
	target := newTestTarget()
	local := NewTypeDefinition("N", "Foo", TypePublic)
	target.AddType(local)
	method := NewMethodDefinition("Run", MethodPublic, NewTypeReference("System", "Void", target, corlib))
	local.AddMethod(method)
	importer := NewMetadataImporter(target, nil)

	source := NewModule("B.dll")
	ref := &MethodReference{
		Name:          "Run",
		DeclaringType: NewTypeReference("N", "Foo", source, target.Assembly.Name),
		ReturnType:    NewTypeReference("System", "Void", source, corlib),
		HasThis:       true,
	}
	actual, err := importer.ImportMethod(ref, nil)
	require.NoError(t, err)
	assert.Same(t, method, actual)

	field := &FieldReference{Name: "count", DeclaringType: NewTypeReference("System", "Object", source, corlib), FieldType: NewTypeReference("System", "Int32", source, corlib)}
	importedField, err := importer.ImportField(field, nil)
	require.NoError(t, err)
	assert.Equal(t, "System.Int32 System.Object::count", importedField.FullName())
}
