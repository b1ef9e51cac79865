package model

import (
	"strings"
)

// coreLibraries lists assembly names that can host System.Void
var coreLibraries = []string{"mscorlib", "netstandard", "System.Runtime", "System.Private.CoreLib"}

// Module represents a compiled unit holding a type graph
type Module struct {
	Name               string
	Assembly           *AssemblyDefinition
	Types              []*TypeDefinition // top level types
	ExportedTypes      []*ExportedType
	AssemblyReferences []*AssemblyNameReference
	ModuleReferences   []*ModuleReference
	Resources          []*Resource

	typeIndex map[string]*TypeDefinition // full name (nested types included) to type
	void      *TypeReference
}

// NewModule creates an empty module
func NewModule(name string) *Module {
	return &Module{Name: name, typeIndex: map[string]*TypeDefinition{}}
}

// ScopeName returns module name
func (m *Module) ScopeName() string {
	return m.Name
}

func (m *Module) String() string {
	return m.Name
}

// AddType adds a top level type
func (m *Module) AddType(t *TypeDefinition) {
	t.DeclaringType = nil
	t.Module = m
	m.Types = append(m.Types, t)
	m.index(t)
}

// GetType returns a type defined in this module by full name, nested types use "Outer/Inner"
func (m *Module) GetType(fullName string) *TypeDefinition {
	if m.typeIndex == nil {
		return nil
	}
	return m.typeIndex[fullName]
}

// AllTypes returns every type, nested types following their declaring type
func (m *Module) AllTypes() []*TypeDefinition {
	var result []*TypeDefinition
	var visit func(types []*TypeDefinition)
	visit = func(types []*TypeDefinition) {
		for _, t := range types {
			result = append(result, t)
			visit(t.NestedTypes)
		}
	}
	visit(m.Types)
	return result
}

// Reindex rebuilds the type index, required after renaming types bypassing Rename
func (m *Module) Reindex() {
	m.typeIndex = map[string]*TypeDefinition{}
	for _, t := range m.AllTypes() {
		m.typeIndex[t.FullName()] = t
	}
}

func (m *Module) index(t *TypeDefinition) {
	if m.typeIndex == nil {
		m.typeIndex = map[string]*TypeDefinition{}
	}
	m.typeIndex[t.FullName()] = t
	for _, nested := range t.NestedTypes {
		nested.Module = m
		m.index(nested)
	}
}

func (m *Module) unindex(t *TypeDefinition) {
	if current, ok := m.typeIndex[t.FullName()]; ok && current == t {
		delete(m.typeIndex, t.FullName())
	}
	for _, nested := range t.NestedTypes {
		m.unindex(nested)
	}
}

// AssemblyReference returns existing assembly reference with matching name or registers a copy of the supplied one
func (m *Module) AssemblyReference(ref *AssemblyNameReference) *AssemblyNameReference {
	for _, candidate := range m.AssemblyReferences {
		if candidate.Name == ref.Name && candidate.Version == ref.Version {
			return candidate
		}
	}
	ret := ref.Clone()
	m.AssemblyReferences = append(m.AssemblyReferences, ret)
	return ret
}

// ModuleReference returns existing module reference with matching name or registers a new one
func (m *Module) ModuleReference(name string) *ModuleReference {
	for _, candidate := range m.ModuleReferences {
		if candidate.Name == name {
			return candidate
		}
	}
	ret := &ModuleReference{Name: name}
	m.ModuleReferences = append(m.ModuleReferences, ret)
	return ret
}

// Void returns System.Void reference scoped to the module core library
func (m *Module) Void() TypeRef {
	if m.void != nil {
		return m.void
	}
	var scope MetadataScope
	for _, name := range coreLibraries {
		for _, candidate := range m.AssemblyReferences {
			if strings.EqualFold(candidate.Name, name) {
				scope = candidate
				break
			}
		}
		if scope != nil {
			break
		}
	}
	if scope == nil {
		scope = m.AssemblyReference(&AssemblyNameReference{Name: "mscorlib", Version: "4.0.0.0", PublicKeyToken: "b77a5c561934e089"})
	}
	m.void = &TypeReference{Namespace: "System", Name: "Void", Module: m, scope: scope, IsValueType: true}
	return m.void
}

// Resource is a named manifest resource made of entries
type Resource struct {
	Name    string
	Entries []*ResourceEntry
}

// ResourceEntry is a single named payload within a resource
type ResourceEntry struct {
	Name string
	Data []byte
}
