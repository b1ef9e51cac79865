package model

import (
	"strings"
)

// MetadataScope is the resolution scope of a reference: an assembly name reference,
// a module reference or a module definition itself.
type MetadataScope interface {
	ScopeName() string
}

// AssemblyNameReference identifies an assembly by name and version
type AssemblyNameReference struct {
	Name           string
	Version        string // dotted four part version, e.g. 4.0.0.0
	Culture        string
	PublicKeyToken string
}

// ScopeName returns simple assembly name
func (a *AssemblyNameReference) ScopeName() string {
	return a.Name
}

// FullName returns display name, e.g. "Foo, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null"
func (a *AssemblyNameReference) FullName() string {
	builder := &strings.Builder{}
	builder.WriteString(a.Name)
	version := a.Version
	if version == "" {
		version = "0.0.0.0"
	}
	builder.WriteString(", Version=")
	builder.WriteString(version)
	culture := a.Culture
	if culture == "" {
		culture = "neutral"
	}
	builder.WriteString(", Culture=")
	builder.WriteString(culture)
	token := a.PublicKeyToken
	if token == "" {
		token = "null"
	}
	builder.WriteString(", PublicKeyToken=")
	builder.WriteString(token)
	return builder.String()
}

func (a *AssemblyNameReference) String() string {
	return a.FullName()
}

// Clone returns a copy of the reference
func (a *AssemblyNameReference) Clone() *AssemblyNameReference {
	ret := *a
	return &ret
}

// ModuleReference references a module of a multi-module assembly
type ModuleReference struct {
	Name string
}

// ScopeName returns module name
func (m *ModuleReference) ScopeName() string {
	return m.Name
}

func (m *ModuleReference) String() string {
	return m.Name
}

// AssemblyDefinition groups modules sharing one assembly identity
type AssemblyDefinition struct {
	Name    *AssemblyNameReference
	Modules []*Module
}

// NewAssemblyDefinition creates an assembly with a main module of the given name
func NewAssemblyDefinition(name *AssemblyNameReference, mainModule string) *AssemblyDefinition {
	ret := &AssemblyDefinition{Name: name}
	ret.AddModule(NewModule(mainModule))
	return ret
}

// AddModule attaches a module to the assembly
func (a *AssemblyDefinition) AddModule(module *Module) {
	module.Assembly = a
	a.Modules = append(a.Modules, module)
}

// MainModule returns the first module
func (a *AssemblyDefinition) MainModule() *Module {
	if len(a.Modules) == 0 {
		return nil
	}
	return a.Modules[0]
}

// FullName returns assembly display name
func (a *AssemblyDefinition) FullName() string {
	if a.Name == nil {
		return ""
	}
	return a.Name.FullName()
}

func (a *AssemblyDefinition) String() string {
	return a.FullName()
}
